package documents

import "context"

// ClassificationRequest is the payload handed to a classifier backend.
// Text is already truncated to the intake prefix limit by the caller.
type ClassificationRequest struct {
	Text         string
	ModelName    string
	AnalysisType string
	FileName     string
	FileType     FileType
}

// RawClassification is the backend's payload as-is. Its shape is not
// validated beyond being JSON-decodable; the normalized Analysis is derived
// independently from filename/content heuristics.
type RawClassification map[string]any

// Classifier port: one backend per deployment (demo, remote, openai).
type Classifier interface {
	Name() string
	Classify(ctx context.Context, req ClassificationRequest) (RawClassification, error)
}

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, d *Document) error
	Get(ctx context.Context, tenant string, id DocumentID) (*Document, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Document, error)
	Summary(ctx context.Context, tenant string, sinceDays int) (total, grantRelated, failed int, err error)
}

// ArtifactStore port: keeps the uploaded source bytes for later review.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
