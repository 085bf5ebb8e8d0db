package repository

import (
	"context"

	"cropcal/entities"
)

type ObservationRepository interface {
	Create(ctx context.Context, o *entities.Observation) error
	// ListByPlot returns observations in ascending observed_at order.
	ListByPlot(ctx context.Context, plotID string, limit int) ([]entities.Observation, error)
}
