package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"cropcal/entities"
	"cropcal/pkg/advisory/repository"
)

type repo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.AdvisoryRepository { return &repo{db} }

func (r *repo) Create(ctx context.Context, d *entities.AdvisoryDocument) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repo) All(ctx context.Context) ([]entities.AdvisoryDocument, error) {
	var ds []entities.AdvisoryDocument
	return ds, r.db.WithContext(ctx).Order("doc_id ASC").Find(&ds).Error
}
