package repository

import (
	"context"

	"cropcal/entities"
)

type AdvisoryRepository interface {
	Create(ctx context.Context, d *entities.AdvisoryDocument) error
	All(ctx context.Context) ([]entities.AdvisoryDocument, error)
}
