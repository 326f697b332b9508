package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/infra"
	"github.com/HenrikWarf/creative-studio/internal/sqlinline"
)

// ProjectRepositoryPG implements domain.ProjectRepository using PostgreSQL.
type ProjectRepositoryPG struct {
	pool *pgxpool.Pool
	sql  infra.SQLExecutor
}

// NewProjectRepository constructs a new project repository instance. The pool
// is needed for transactional deletes; regular queries go through the runner.
func NewProjectRepository(pool *pgxpool.Pool, sql infra.SQLExecutor) *ProjectRepositoryPG {
	return &ProjectRepositoryPG{pool: pool, sql: sql}
}

// Create inserts a project and returns it with generated id and timestamp.
func (r *ProjectRepositoryPG) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertProject,
		project.Name, project.Description, project.Context,
		project.Fields.BrandVibe, project.Fields.BrandLighting, project.Fields.BrandColors, project.Fields.BrandSubject,
		project.Fields.ProjectVibe, project.Fields.ProjectLighting, project.Fields.ProjectColors, project.Fields.ProjectSubject,
	)
	created := *project
	if err := row.Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetByID returns the project or domain.ErrNotFound.
func (r *ProjectRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectProjectByID, id)
	project, err := scanProject(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return project, nil
}

// List returns projects newest first.
func (r *ProjectRepositoryPG) List(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListProjects, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

// Update overwrites every mutable column; last write wins.
func (r *ProjectRepositoryPG) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateProject,
		project.ID,
		project.Name, project.Description, project.Context,
		project.Fields.BrandVibe, project.Fields.BrandLighting, project.Fields.BrandColors, project.Fields.BrandSubject,
		project.Fields.ProjectVibe, project.Fields.ProjectLighting, project.Fields.ProjectColors, project.Fields.ProjectSubject,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, project.ID)
}

// Delete removes a project and its assets in one transaction. The asset
// delete runs first so the project row never outlives its references.
func (r *ProjectRepositoryPG) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	deleteAssets, err := infra.StripMarker(sqlinline.QDeleteProjectAssets)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteAssets, id); err != nil {
		return err
	}

	deleteProject, err := infra.StripMarker(sqlinline.QDeleteProject)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteProject, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Context,
		&p.Fields.BrandVibe, &p.Fields.BrandLighting, &p.Fields.BrandColors, &p.Fields.BrandSubject,
		&p.Fields.ProjectVibe, &p.Fields.ProjectLighting, &p.Fields.ProjectColors, &p.Fields.ProjectSubject,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

var _ domain.ProjectRepository = (*ProjectRepositoryPG)(nil)
