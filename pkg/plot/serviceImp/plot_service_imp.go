package serviceImp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"cropcal/entities"
	"cropcal/pkg/growth"
	repo "cropcal/pkg/plot/repository"
	"cropcal/pkg/plot/service"
)

type plotSvc struct {
	r      repo.PlotRepository
	models *growth.Registry
}

func NewPlotService(r repo.PlotRepository, models *growth.Registry) service.PlotService {
	return &plotSvc{r: r, models: models}
}

// CreatePlot validates the crop against the catalog before storing. Unknown
// varieties are accepted; generation falls back to the crop's base model.
func (s *plotSvc) CreatePlot(ctx context.Context, p *entities.Plot) (*entities.Plot, error) {
	p.CropName = strings.TrimSpace(p.CropName)
	p.Variety = strings.TrimSpace(p.Variety)
	if p.CropName == "" {
		return nil, fmt.Errorf("%w: crop_name is required", entities.ErrInvalidInput)
	}
	if p.PlantingDate.IsZero() {
		return nil, fmt.Errorf("%w: planting_date is required", entities.ErrInvalidInput)
	}
	if _, err := s.models.Lookup(p.CropName, p.Variety); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.PlantingDate = entities.Day(p.PlantingDate)
	if err := s.r.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *plotSvc) GetPlot(ctx context.Context, id, farmerID string) (*entities.Plot, error) {
	if farmerID == "" {
		return s.r.FindByID(ctx, id)
	}
	return s.r.FindForFarmer(ctx, id, farmerID)
}
