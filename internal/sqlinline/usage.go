package sqlinline

// QListUsage returns usage records, optionally bounded by an inclusive day range.
const QListUsage = `--sql 27fdbc0f-6b87-41be-b221-5768e51b0a3b
select day, donation_count
from usage_records
where ($1::date is null or day >= $1::date)
  and ($2::date is null or day <= $2::date)
order by day nulls last, id;
`

// QLockUsageDay serializes writers of one day until the transaction ends.
const QLockUsageDay = `--sql 3c7e91a4-58d2-4f0b-9e16-a0b4d27c85f3
select pg_advisory_xact_lock(hashtext('usage_records/' || $1::date::text));
`

// QAddUsage adds to the latest record for the day, creating one when absent.
// Run it after QLockUsageDay in the same transaction: without the lock two
// first writers of a day both insert.
const QAddUsage = `--sql 5a50ca16-0026-4ed4-8a92-69d82ac14241
with updated as (
    update usage_records
    set donation_count = coalesce(donation_count, 0) + $2::int, updated_at = now()
    where id = (select id from usage_records where day = $1::date order by id desc limit 1)
    returning id
)
insert into usage_records (day, donation_count, created_at, updated_at)
select $1::date, $2::int, now(), now()
where not exists (select 1 from updated);
`

// QAppendUsage appends a record; being newest it wins the merge for its day.
const QAppendUsage = `--sql b18d2614-5dc8-4006-8967-f793033e79eb
insert into usage_records (day, donation_count, created_at, updated_at)
values ($1::date, $2::int, now(), now());
`
