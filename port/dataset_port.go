package port

import (
	"context"

	"visitboard/domain"
)

// DatasetPort loads the passenger dataset from storage.
type DatasetPort interface {
	// Load reads every row. Failures wrap domain.ErrDataUnavailable.
	Load(ctx context.Context) (domain.Dataset, error)
}

// ChartPort renders a group summary into an embeddable image.
type ChartPort interface {
	// Render returns domain.ErrRenderFailure when no image could be produced.
	Render(ctx context.Context, summary domain.GroupSummary) (*domain.ChartImage, error)
}
