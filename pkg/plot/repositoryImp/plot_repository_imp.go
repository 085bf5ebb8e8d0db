package repositoryImp

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cropcal/entities"
	"cropcal/pkg/plot/repository"
)

type plotRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PlotRepository { return &plotRepo{db} }

func (r *plotRepo) Create(ctx context.Context, p *entities.Plot) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *plotRepo) FindByID(ctx context.Context, id string) (*entities.Plot, error) {
	var p entities.Plot
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err, id)
	}
	return &p, nil
}

func (r *plotRepo) FindForFarmer(ctx context.Context, id, farmerID string) (*entities.Plot, error) {
	var p entities.Plot
	if err := r.db.WithContext(ctx).Where("id = ? AND farmer_id = ?", id, farmerID).First(&p).Error; err != nil {
		return nil, notFound(err, id)
	}
	return &p, nil
}

func (r *plotRepo) ListIDsByFarmer(ctx context.Context, farmerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&entities.Plot{}).Where("farmer_id = ?", farmerID).Order("id").Pluck("id", &ids).Error
	return ids, err
}

func (r *plotRepo) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&entities.Plot{}).Order("id").Pluck("id", &ids).Error
	return ids, err
}

func notFound(err error, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entities.NotFoundError{Kind: "plot", Key: id}
	}
	return err
}
