package repository

import (
	"context"

	"cropcal/entities"
)

// PlanRepository keeps the history of weather re-adjustment passes.
type PlanRepository interface {
	SaveAdjustment(ctx context.Context, l *entities.AdjustmentLog) error
	ListAdjustments(ctx context.Context, plotID string, limit int) ([]entities.AdjustmentLog, error)
}
