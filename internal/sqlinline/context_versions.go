package sqlinline

const QInsertContextVersion = `--sql 1c3e0a46-582e-4cc1-9746-6fa6514401e9
insert into context_versions(
  id, project_id, name, description,
  brand_vibe, brand_lighting, brand_colors, brand_subject,
  project_vibe, project_lighting, project_colors, project_subject,
  context, created_at
) values (
  gen_random_uuid(), $1::uuid, $2::text, $3::text,
  $4::text, $5::text, $6::text, $7::text,
  $8::text, $9::text, $10::text, $11::text,
  $12::text, now()
) returning id, created_at;
`

const QSelectContextVersionByID = `--sql dc8ea3df-a808-465d-89c0-d7dd16f79474
select id, project_id, name, description,
  brand_vibe, brand_lighting, brand_colors, brand_subject,
  project_vibe, project_lighting, project_colors, project_subject,
  context, created_at
from context_versions
where id = $1::uuid
limit 1;
`

const QListContextVersionsByProject = `--sql 4f0811dd-5c69-4455-8281-78043c596ebd
select id, project_id, name, description,
  brand_vibe, brand_lighting, brand_colors, brand_subject,
  project_vibe, project_lighting, project_colors, project_subject,
  context, created_at
from context_versions
where project_id = $1::uuid
order by created_at desc;
`

const QUpdateContextVersion = `--sql 9d6b1a7e-4f25-4c83-b0ef-52a9c1de8f04
update context_versions set
  name = $2::text,
  description = $3::text,
  brand_vibe = $4::text, brand_lighting = $5::text, brand_colors = $6::text, brand_subject = $7::text,
  project_vibe = $8::text, project_lighting = $9::text, project_colors = $10::text, project_subject = $11::text,
  context = $12::text
where id = $1::uuid;
`

const QDeleteContextVersion = `--sql 43917cef-619e-42be-8447-f918f4d7e475
delete from context_versions
where id = $1::uuid;
`
