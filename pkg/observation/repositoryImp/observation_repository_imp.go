package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"cropcal/entities"
	"cropcal/pkg/observation/repository"
)

type obsRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ObservationRepository { return &obsRepo{db} }

func (r *obsRepo) Create(ctx context.Context, o *entities.Observation) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *obsRepo) ListByPlot(ctx context.Context, plotID string, limit int) ([]entities.Observation, error) {
	var out []entities.Observation
	q := r.db.WithContext(ctx).Where(&entities.Observation{PlotID: plotID}).Order("observed_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
