package sqlinline

const QInsertResetToken = `--sql 0b9199dc-cf8f-4d4d-8c5e-8609784c09c9
insert into password_reset_tokens (token_hash, user_id, expires_at, created_at)
values ($1::text, $2::uuid, $3::timestamptz, now());
`

// QConsumeResetToken marks an unexpired token used and returns its owner.
const QConsumeResetToken = `--sql bbb189e2-cb8f-4bca-b133-864936b84847
update password_reset_tokens
set used_at = now()
where token_hash = $1::text
  and used_at is null
  and expires_at > $2::timestamptz
returning user_id::text;
`

const QRevokeAccessToken = `--sql 16cebc07-d490-48dd-af58-8261d5c653fb
insert into revoked_tokens (jti, expires_at)
values ($1::text, $2::timestamptz)
on conflict (jti) do nothing;
`

const QSelectRevokedToken = `--sql ca9af388-1f7c-404e-9fa8-b8c5c5153f6d
select exists(select 1 from revoked_tokens where jti = $1::text);
`

// QPruneExpiredTokens drops reset tokens and revoked token ids that expired
// before $1 and returns how many rows went.
const QPruneExpiredTokens = `--sql 6d3f0e52-9a41-4c8e-b5d7-2f18c0a97e64
with resets as (
    delete from password_reset_tokens where expires_at < $1::timestamptz returning 1
), revoked as (
    delete from revoked_tokens where expires_at < $1::timestamptz returning 1
)
select (select count(*) from resets) + (select count(*) from revoked);
`
