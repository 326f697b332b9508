package domain

import "context"

// ProjectRepository defines persistence for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) (*Project, error)
	GetByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, limit, offset int) ([]Project, error)
	Update(ctx context.Context, project *Project) (*Project, error)
	// Delete removes the project and every asset that references it.
	Delete(ctx context.Context, id string) error
}

// AssetRepository handles persistence for saved assets.
type AssetRepository interface {
	Create(ctx context.Context, asset *Asset) (*Asset, error)
	GetByID(ctx context.Context, id string) (*Asset, error)
	ListByProjectID(ctx context.Context, projectID string) ([]Asset, error)
	Delete(ctx context.Context, id string) error
}

// ContextVersionRepository handles persistence for context snapshots.
type ContextVersionRepository interface {
	Create(ctx context.Context, version *ContextVersion) (*ContextVersion, error)
	GetByID(ctx context.Context, id string) (*ContextVersion, error)
	ListByProjectID(ctx context.Context, projectID string) ([]ContextVersion, error)
	Update(ctx context.Context, version *ContextVersion) (*ContextVersion, error)
	Delete(ctx context.Context, id string) error
}
