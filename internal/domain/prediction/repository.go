package prediction

import "context"

// Repository persists user predictions. Outcome writes are idempotent.
type Repository interface {
	ListByMatchIDs(ctx context.Context, matchIDs []string) ([]Prediction, error)
	SaveOutcomes(ctx context.Context, predictions []Prediction) error
}
