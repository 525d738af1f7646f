package sqlinline

const QInsertBloodRequest = `--sql 7c2fdf5e-b724-49d9-8909-a887c9e9601a
insert into blood_requests (id, user_id, blood_type, units, hospital, location, urgency, note, status, error_message, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::int, $4::text, $5::text, $6::text, $7::text, 'open', '', now(), now())
returning id, user_id, blood_type, units, hospital, location, urgency, note, status, error_message, created_at, updated_at;
`

const QListOpenBloodRequests = `--sql 73097141-6422-4161-9174-db1d9f90ba1e
select id, user_id, blood_type, units, hospital, location, urgency, note, status, error_message, created_at, updated_at
from blood_requests
where status in ('open', 'sending', 'notified')
order by created_at desc
limit $1::int;
`

// QClaimBloodRequest moves the oldest open request to sending so concurrent
// workers never pick the same row.
const QClaimBloodRequest = `--sql 9b443c63-eeca-405c-a28e-48106f06b0a3
with next_request as (
    select id
    from blood_requests
    where status = 'open'
    order by created_at
    for update skip locked
    limit 1
),
updated as (
    update blood_requests
    set status = 'sending', updated_at = now()
    where id in (select id from next_request)
    returning id, user_id, blood_type, units, hospital, location, urgency, note, status, error_message, created_at, updated_at
)
select * from updated;
`

const QUpdateBloodRequestStatus = `--sql cf6c0320-8105-491e-8736-486d222722f8
update blood_requests set status = $2::text, error_message = $3::text, updated_at = now()
where id = $1::uuid;
`
