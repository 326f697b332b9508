package repo

import (
	"context"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/infra"
	"github.com/HenrikWarf/creative-studio/internal/sqlinline"
)

// ContextVersionRepositoryPG implements domain.ContextVersionRepository using
// PostgreSQL.
type ContextVersionRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewContextVersionRepository constructs a new context version repository.
func NewContextVersionRepository(sql infra.SQLExecutor) *ContextVersionRepositoryPG {
	return &ContextVersionRepositoryPG{sql: sql}
}

// Create inserts a context snapshot.
func (r *ContextVersionRepositoryPG) Create(ctx context.Context, version *domain.ContextVersion) (*domain.ContextVersion, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertContextVersion,
		version.ProjectID, version.Name, version.Description,
		version.Fields.BrandVibe, version.Fields.BrandLighting, version.Fields.BrandColors, version.Fields.BrandSubject,
		version.Fields.ProjectVibe, version.Fields.ProjectLighting, version.Fields.ProjectColors, version.Fields.ProjectSubject,
		version.Context,
	)
	created := *version
	if err := row.Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetByID returns the snapshot or domain.ErrNotFound.
func (r *ContextVersionRepositoryPG) GetByID(ctx context.Context, id string) (*domain.ContextVersion, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectContextVersionByID, id)
	version, err := scanContextVersion(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return version, nil
}

// ListByProjectID returns a project's snapshots newest first.
func (r *ContextVersionRepositoryPG) ListByProjectID(ctx context.Context, projectID string) ([]domain.ContextVersion, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListContextVersionsByProject, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []domain.ContextVersion
	for rows.Next() {
		version, err := scanContextVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *version)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return versions, nil
}

// Update overwrites every mutable column; last write wins.
func (r *ContextVersionRepositoryPG) Update(ctx context.Context, version *domain.ContextVersion) (*domain.ContextVersion, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateContextVersion,
		version.ID,
		version.Name, version.Description,
		version.Fields.BrandVibe, version.Fields.BrandLighting, version.Fields.BrandColors, version.Fields.BrandSubject,
		version.Fields.ProjectVibe, version.Fields.ProjectLighting, version.Fields.ProjectColors, version.Fields.ProjectSubject,
		version.Context,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, version.ID)
}

// Delete removes the snapshot; missing ids map to domain.ErrNotFound.
func (r *ContextVersionRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteContextVersion, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanContextVersion(row rowScanner) (*domain.ContextVersion, error) {
	var v domain.ContextVersion
	if err := row.Scan(
		&v.ID, &v.ProjectID, &v.Name, &v.Description,
		&v.Fields.BrandVibe, &v.Fields.BrandLighting, &v.Fields.BrandColors, &v.Fields.BrandSubject,
		&v.Fields.ProjectVibe, &v.Fields.ProjectLighting, &v.Fields.ProjectColors, &v.Fields.ProjectSubject,
		&v.Context, &v.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

var _ domain.ContextVersionRepository = (*ContextVersionRepositoryPG)(nil)
