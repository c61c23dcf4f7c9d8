package match

import "context"

// Repository persists the canonical dataset as a whole.
type Repository interface {
	Load(ctx context.Context) ([]Match, error)
	LoadRaw(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, matches []Match) error
}
