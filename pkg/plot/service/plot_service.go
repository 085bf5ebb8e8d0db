package service

import (
	"context"

	"cropcal/entities"
)

type PlotService interface {
	CreatePlot(ctx context.Context, p *entities.Plot) (*entities.Plot, error)
	GetPlot(ctx context.Context, id, farmerID string) (*entities.Plot, error)
}
