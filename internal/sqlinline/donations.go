package sqlinline

const QInsertDonation = `--sql 317cd70b-42f3-4d03-8055-c533149b9024
insert into donations (id, user_id, blood_type, location, amount_ml, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::int, now())
returning id, user_id, blood_type, location, amount_ml, created_at;
`
