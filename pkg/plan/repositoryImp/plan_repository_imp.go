package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"cropcal/entities"
	"cropcal/pkg/plan/repository"
)

type planRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PlanRepository { return &planRepo{db} }

func (r *planRepo) SaveAdjustment(ctx context.Context, l *entities.AdjustmentLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *planRepo) ListAdjustments(ctx context.Context, plotID string, limit int) ([]entities.AdjustmentLog, error) {
	var ls []entities.AdjustmentLog
	q := r.db.WithContext(ctx).Where(&entities.AdjustmentLog{PlotID: plotID}).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ls).Error; err != nil {
		return nil, err
	}
	return ls, nil
}
