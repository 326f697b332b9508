package sqlinline

// Bootstrap DDL. Applied at startup; every statement is idempotent.

const QCreateProjectsTable = `--sql 4f2f3713-2a8e-4a64-9594-37af89916a70
create table if not exists projects (
  id uuid primary key default gen_random_uuid(),
  name text not null,
  description text not null default '',
  context text not null default '',
  brand_vibe text not null default '',
  brand_lighting text not null default '',
  brand_colors text not null default '',
  brand_subject text not null default '',
  project_vibe text not null default '',
  project_lighting text not null default '',
  project_colors text not null default '',
  project_subject text not null default '',
  created_at timestamptz not null default now()
);
`

const QCreateAssetsTable = `--sql 06531aab-278c-470b-bfe8-2c0fa39a8f5b
create table if not exists assets (
  id uuid primary key default gen_random_uuid(),
  project_id uuid not null references projects(id),
  type text not null,
  url text not null,
  prompt text not null default '',
  model_type text not null default '',
  context_version text not null default '',
  created_at timestamptz not null default now()
);
create index if not exists idx_assets_project_id on assets(project_id);
`

const QCreateContextVersionsTable = `--sql 3475e2b6-b3ad-454c-a58a-b9022858825e
create table if not exists context_versions (
  id uuid primary key default gen_random_uuid(),
  project_id uuid not null references projects(id),
  name text not null,
  description text not null default '',
  brand_vibe text not null default '',
  brand_lighting text not null default '',
  brand_colors text not null default '',
  brand_subject text not null default '',
  project_vibe text not null default '',
  project_lighting text not null default '',
  project_colors text not null default '',
  project_subject text not null default '',
  context text not null default '',
  created_at timestamptz not null default now()
);
create index if not exists idx_context_versions_project_id on context_versions(project_id);
`
