package repository

import (
	"context"

	"cropcal/entities"
)

type PlotRepository interface {
	Create(ctx context.Context, p *entities.Plot) error
	FindByID(ctx context.Context, id string) (*entities.Plot, error)
	FindForFarmer(ctx context.Context, id, farmerID string) (*entities.Plot, error)
	ListIDsByFarmer(ctx context.Context, farmerID string) ([]string, error)
	ListIDs(ctx context.Context) ([]string, error)
}
