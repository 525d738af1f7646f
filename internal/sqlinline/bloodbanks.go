package sqlinline

const QListBloodBanks = `--sql 1c58f4b6-ada0-4ee0-a880-08dfb1ef930d
select id, name, address, city, country_code, phone, open_hours
from blood_banks
where ($1::text = '' or country_code = upper($1::text))
  and ($2::text = '' or lower(city) = lower($2::text))
order by country_code, city, name;
`
