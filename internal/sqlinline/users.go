package sqlinline

const QInsertUser = `--sql ce7bda4e-e0f9-465e-97e4-8d8859169101
insert into users (id, email, password_hash, full_name, contact_no, address, blood_group, rh, blood_type, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::text, $6::text, $7::text, nullif($8::text, ''), now(), now())
returning id, email, password_hash, full_name, contact_no, address, blood_group, rh, blood_type, date_of_birth, country_region, height_cm, weight_kg, chronic_diseases, has_chronic_disease, donated_recently, onboarding_completed, total_blood_donated, profile_picture_url, available_to_donate, donation_count, request_count, created_at, updated_at;
`

const QSelectUserByID = `--sql d365ab19-c467-4d15-992c-f105f3038158
select id, email, password_hash, full_name, contact_no, address, blood_group, rh, blood_type, date_of_birth, country_region, height_cm, weight_kg, chronic_diseases, has_chronic_disease, donated_recently, onboarding_completed, total_blood_donated, profile_picture_url, available_to_donate, donation_count, request_count, created_at, updated_at
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByEmail = `--sql 1b335eb5-711a-4164-b2d8-18104262910e
select id, email, password_hash, full_name, contact_no, address, blood_group, rh, blood_type, date_of_birth, country_region, height_cm, weight_kg, chronic_diseases, has_chronic_disease, donated_recently, onboarding_completed, total_blood_donated, profile_picture_url, available_to_donate, donation_count, request_count, created_at, updated_at
from users
where email = lower($1::text)
limit 1;
`

const QUpdateUserPersonal = `--sql 05036984-8949-4203-8c73-cd15eccae1f5
update users set
    full_name = $2::text,
    date_of_birth = $3::date,
    country_region = $4::text,
    contact_no = coalesce(nullif($5::text, ''), contact_no),
    address = coalesce(nullif($6::text, ''), address),
    updated_at = now()
where id = $1::uuid
returning id, email, password_hash, full_name, contact_no, address, blood_group, rh, blood_type, date_of_birth, country_region, height_cm, weight_kg, chronic_diseases, has_chronic_disease, donated_recently, onboarding_completed, total_blood_donated, profile_picture_url, available_to_donate, donation_count, request_count, created_at, updated_at;
`

const QUpdateUserMedical = `--sql 25fd0cba-36ac-4350-8e64-eb6e1dc2a45b
update users set
    blood_type = $2::text,
    height_cm = $3::int,
    weight_kg = $4::int,
    chronic_diseases = $5::text[],
    has_chronic_disease = $6::bool,
    donated_recently = $7::bool,
    onboarding_completed = true,
    updated_at = now()
where id = $1::uuid
returning id, email, password_hash, full_name, contact_no, address, blood_group, rh, blood_type, date_of_birth, country_region, height_cm, weight_kg, chronic_diseases, has_chronic_disease, donated_recently, onboarding_completed, total_blood_donated, profile_picture_url, available_to_donate, donation_count, request_count, created_at, updated_at;
`

const QUpdateUserAvailability = `--sql 2e67e283-fc45-4eef-a9fc-cd5d7dc23bcf
update users set available_to_donate = $2::bool, updated_at = now()
where id = $1::uuid
returning id, email, password_hash, full_name, contact_no, address, blood_group, rh, blood_type, date_of_birth, country_region, height_cm, weight_kg, chronic_diseases, has_chronic_disease, donated_recently, onboarding_completed, total_blood_donated, profile_picture_url, available_to_donate, donation_count, request_count, created_at, updated_at;
`

const QUpdateUserPicture = `--sql 223ddcb8-94e3-4a4e-b76b-7219d87482c3
update users set profile_picture_url = $2::text, updated_at = now()
where id = $1::uuid
returning id, email, password_hash, full_name, contact_no, address, blood_group, rh, blood_type, date_of_birth, country_region, height_cm, weight_kg, chronic_diseases, has_chronic_disease, donated_recently, onboarding_completed, total_blood_donated, profile_picture_url, available_to_donate, donation_count, request_count, created_at, updated_at;
`

const QUpdateUserPassword = `--sql c082eb0f-4ab0-49b4-8b39-44a556c42989
update users set password_hash = $2::text, updated_at = now()
where id = $1::uuid;
`

const QRecordUserDonation = `--sql 14395ad0-0d7f-45e5-9948-ab5a604e7797
update users set
    total_blood_donated = total_blood_donated + $2::int,
    donation_count = donation_count + 1,
    updated_at = now()
where id = $1::uuid;
`

const QRecordUserRequest = `--sql ac698729-8e62-4320-abb4-1b7139e1bd15
update users set request_count = request_count + 1, updated_at = now()
where id = $1::uuid;
`

const QCountAvailableDonors = `--sql eaef28eb-13a0-4f5b-a3cc-12def0ce86b9
select count(*)
from users
where available_to_donate
  and blood_type = $1::text;
`
