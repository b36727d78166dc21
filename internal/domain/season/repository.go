package season

import "context"

type Repository interface {
	GetByID(ctx context.Context, seasonID string) (Season, bool, error)
	ListActive(ctx context.Context) ([]Season, error)
}
