package service

import (
	"context"

	"cropcal/entities"
)

type ObservationService interface {
	Record(ctx context.Context, o *entities.Observation) (*entities.Observation, error)
	Recent(ctx context.Context, plotID string, limit int) ([]entities.Observation, error)
	// Evidence returns the plot's readings as harvest-refinement input.
	Evidence(ctx context.Context, plotID string) ([]entities.GrowthEvidence, error)
}
