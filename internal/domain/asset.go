package domain

import "time"

// AssetKind enumerates asset types.
type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindVideo AssetKind = "video"
	AssetKindTryOn AssetKind = "tryon"
)

// Asset represents a saved artifact belonging to a project. URL holds the
// storage key of the object, never a signed URL; signing happens at read time.
type Asset struct {
	ID             string
	ProjectID      string
	Kind           AssetKind
	URL            string
	Prompt         string
	ModelType      string
	ContextVersion string
	CreatedAt      time.Time
}
