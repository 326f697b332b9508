package domain

import "time"

// ContextFields groups the brand and project descriptors that drive prompt
// engineering. The same set lives on Project and on each ContextVersion
// snapshot.
type ContextFields struct {
	BrandVibe       string
	BrandLighting   string
	BrandColors     string
	BrandSubject    string
	ProjectVibe     string
	ProjectLighting string
	ProjectColors   string
	ProjectSubject  string
}

// Project is the top-level container for creative work.
type Project struct {
	ID          string
	Name        string
	Description string
	Context     string
	Fields      ContextFields
	CreatedAt   time.Time
}
