package serviceImp

import (
	"context"
	"fmt"
	"time"

	"cropcal/entities"
	repo "cropcal/pkg/observation/repository"
	"cropcal/pkg/observation/service"
)

// evidenceLimit bounds how many readings feed harvest refinement.
const evidenceLimit = 50

type obsSvc struct {
	r   repo.ObservationRepository
	now func() time.Time
}

func NewObservationService(r repo.ObservationRepository) service.ObservationService {
	return &obsSvc{r: r, now: time.Now}
}

func (s *obsSvc) Record(ctx context.Context, o *entities.Observation) (*entities.Observation, error) {
	if o.PlotID == "" {
		return nil, fmt.Errorf("%w: plot_id is required", entities.ErrInvalidInput)
	}
	if o.MaturityPct < 0 || o.MaturityPct > 100 {
		return nil, fmt.Errorf("%w: maturity_pct must be within 0..100", entities.ErrInvalidInput)
	}
	switch o.HealthTrend {
	case "", entities.TrendImproving, entities.TrendStable, entities.TrendDeclining:
	default:
		return nil, fmt.Errorf("%w: unknown health_trend %q", entities.ErrInvalidInput, o.HealthTrend)
	}
	if o.HealthTrend == "" {
		o.HealthTrend = entities.TrendStable
	}
	if o.ObservedAt.IsZero() {
		o.ObservedAt = s.now().UTC()
	}
	if err := s.r.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *obsSvc) Recent(ctx context.Context, plotID string, limit int) ([]entities.Observation, error) {
	return s.r.ListByPlot(ctx, plotID, limit)
}

func (s *obsSvc) Evidence(ctx context.Context, plotID string) ([]entities.GrowthEvidence, error) {
	obs, err := s.r.ListByPlot(ctx, plotID, evidenceLimit)
	if err != nil {
		return nil, err
	}
	out := make([]entities.GrowthEvidence, len(obs))
	for i, o := range obs {
		out[i] = o.Evidence()
	}
	return out, nil
}
