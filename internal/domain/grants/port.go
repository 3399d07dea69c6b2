package grants

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, g *Grant) error
	Latest(ctx context.Context, tenant string, limit int) ([]*Grant, error)
	CountSince(ctx context.Context, tenant string, sinceDays int) (int, error)
}

// Source port: one crawlable grant listing.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]*Grant, error)
}
