package sqlinline

const QInsertAsset = `--sql 7716c4e5-e6d3-453f-88ea-d57f526b7949
insert into assets(
  id, project_id, type, url, prompt, model_type, context_version, created_at
) values (
  gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, $5::text, $6::text, now()
) returning id, created_at;
`

const QSelectAssetByID = `--sql 6ec6b09d-cd5b-4e79-a3c2-821f1f862b9f
select id, project_id, type, url, prompt, model_type, context_version, created_at
from assets
where id = $1::uuid
limit 1;
`

const QListAssetsByProject = `--sql 5b180459-56e7-4846-a5f5-9e59a601e215
select id, project_id, type, url, prompt, model_type, context_version, created_at
from assets
where project_id = $1::uuid
order by created_at desc;
`

const QDeleteAsset = `--sql 5e0b96a2-fa66-43ad-802c-948a198f9fcb
delete from assets
where id = $1::uuid;
`
