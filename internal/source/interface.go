package source

import (
	"context"
	"errors"

	"github.com/mavumo/jobbyist/internal/models"
)

var ErrNotImplemented = errors.New("source not implemented")

// Source is one job board. Fetch returns the raw cards the board exposes for
// a locale; a single malformed card is skipped, never an error. An error
// return means the whole board was unreachable and is handled by the
// orchestrator as a soft failure.
type Source interface {
	Name() string
	Fetch(ctx context.Context, locale string, f models.Filters) ([]models.RawCard, error)
}
