package repositoryImp

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cropcal/entities"
	"cropcal/pkg/schedule/repository"
)

type schedRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ScheduleRepository { return &schedRepo{db} }

func (r *schedRepo) BulkInsert(ctx context.Context, evs []entities.ScheduledEvent) error {
	if len(evs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&evs).Error
}

func (r *schedRepo) SaveAll(ctx context.Context, evs []entities.ScheduledEvent) error {
	if len(evs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range evs {
			if err := tx.Save(&evs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *schedRepo) FindByID(ctx context.Context, id string) (*entities.ScheduledEvent, error) {
	var ev entities.ScheduledEvent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &entities.NotFoundError{Kind: "event", Key: id}
		}
		return nil, err
	}
	return &ev, nil
}

func (r *schedRepo) List(ctx context.Context, f repository.EventFilter) ([]entities.ScheduledEvent, error) {
	var out []entities.ScheduledEvent
	q := r.db.WithContext(ctx).Model(&entities.ScheduledEvent{})
	if len(f.PlotIDs) > 0 {
		q = q.Where("plot_id IN ?", f.PlotIDs)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.DiagnosisTrigger != "" {
		q = q.Where("diagnosis_trigger = ?", f.DiagnosisTrigger)
	}
	if !f.From.IsZero() {
		q = q.Where("scheduled_date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("scheduled_date <= ?", f.To)
	}
	if err := q.Order("scheduled_date ASC").Order("event_type ASC").Order("practice_key ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *schedRepo) FindInjection(ctx context.Context, key string) (*entities.InjectionRecord, error) {
	var rec entities.InjectionRecord
	err := r.db.WithContext(ctx).Where(&entities.InjectionRecord{Key: key}).Limit(1).Find(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.Key == "" {
		return nil, nil
	}
	return &rec, nil
}

func (r *schedRepo) InsertInjected(ctx context.Context, rec *entities.InjectionRecord, evs []entities.ScheduledEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		if len(evs) == 0 {
			return nil
		}
		return tx.Create(&evs).Error
	})
}
