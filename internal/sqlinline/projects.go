package sqlinline

const QInsertProject = `--sql b6d01743-2c27-45e3-94d6-440fa0e7989a
insert into projects(
  id, name, description, context,
  brand_vibe, brand_lighting, brand_colors, brand_subject,
  project_vibe, project_lighting, project_colors, project_subject,
  created_at
) values (
  gen_random_uuid(), $1::text, $2::text, $3::text,
  $4::text, $5::text, $6::text, $7::text,
  $8::text, $9::text, $10::text, $11::text,
  now()
) returning id, created_at;
`

const QSelectProjectByID = `--sql 1ec61296-beca-4265-80c1-44b0022fa9bb
select id, name, description, context,
  brand_vibe, brand_lighting, brand_colors, brand_subject,
  project_vibe, project_lighting, project_colors, project_subject,
  created_at
from projects
where id = $1::uuid
limit 1;
`

const QListProjects = `--sql 9c4f1ddc-5e10-4a6a-8b9f-706a822ddbdc
select id, name, description, context,
  brand_vibe, brand_lighting, brand_colors, brand_subject,
  project_vibe, project_lighting, project_colors, project_subject,
  created_at
from projects
order by created_at desc
limit $1::int offset $2::int;
`

const QUpdateProject = `--sql bb1ba16e-828b-4698-9f7b-07cc1776214f
update projects set
  name = $2::text,
  description = $3::text,
  context = $4::text,
  brand_vibe = $5::text,
  brand_lighting = $6::text,
  brand_colors = $7::text,
  brand_subject = $8::text,
  project_vibe = $9::text,
  project_lighting = $10::text,
  project_colors = $11::text,
  project_subject = $12::text
where id = $1::uuid;
`

const QDeleteProjectAssets = `--sql 30fb0a35-6dbd-440d-a2b4-6d199ab047b8
delete from assets
where project_id = $1::uuid;
`

const QDeleteProject = `--sql 3cc15662-b94c-473f-abb2-11e5ce82841b
delete from projects
where id = $1::uuid;
`
