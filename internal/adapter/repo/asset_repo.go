package repo

import (
	"context"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/infra"
	"github.com/HenrikWarf/creative-studio/internal/sqlinline"
)

// AssetRepositoryPG implements domain.AssetRepository using PostgreSQL.
type AssetRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAssetRepository constructs a new asset repository instance.
func NewAssetRepository(sql infra.SQLExecutor) *AssetRepositoryPG {
	return &AssetRepositoryPG{sql: sql}
}

// Create inserts an asset row. URL must already be a bare storage key.
func (r *AssetRepositoryPG) Create(ctx context.Context, asset *domain.Asset) (*domain.Asset, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertAsset,
		asset.ProjectID, string(asset.Kind), asset.URL, asset.Prompt, asset.ModelType, asset.ContextVersion,
	)
	created := *asset
	if err := row.Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetByID returns the asset or domain.ErrNotFound.
func (r *AssetRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectAssetByID, id)
	var a domain.Asset
	if err := row.Scan(&a.ID, &a.ProjectID, &a.Kind, &a.URL, &a.Prompt, &a.ModelType, &a.ContextVersion, &a.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByProjectID returns a project's assets newest first.
func (r *AssetRepositoryPG) ListByProjectID(ctx context.Context, projectID string) ([]domain.Asset, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAssetsByProject, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.Kind, &a.URL, &a.Prompt, &a.ModelType, &a.ContextVersion, &a.CreatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

// Delete removes the asset; deleting a missing asset is domain.ErrNotFound.
func (r *AssetRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteAsset, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.AssetRepository = (*AssetRepositoryPG)(nil)
