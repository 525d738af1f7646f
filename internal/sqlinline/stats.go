package sqlinline

const QStatsSummary = `--sql 4f1d2a7c-8b3e-4c59-9e0a-6d7b1c2e3f40
select
    (select count(*) from users) as donors,
    (select count(*) from users where available_to_donate) as available_donors,
    (select count(*) from donations) as donations,
    (select coalesce(sum(amount_ml), 0) from donations) as donated_ml,
    (select count(*) from blood_requests where status in ('open', 'sending', 'notified')) as open_requests,
    (select count(*) from blood_requests where created_at >= now() - interval '24 hours') as requests_24h,
    (select count(*) from donations where created_at >= now() - interval '24 hours') as donations_24h;
`
