package repository

import (
	"context"
	"time"

	"cropcal/entities"
)

type EventFilter struct {
	PlotIDs          []string
	Statuses         []entities.EventStatus
	DiagnosisTrigger string
	From, To         time.Time
}

type ScheduleRepository interface {
	BulkInsert(ctx context.Context, evs []entities.ScheduledEvent) error
	SaveAll(ctx context.Context, evs []entities.ScheduledEvent) error
	FindByID(ctx context.Context, id string) (*entities.ScheduledEvent, error)
	List(ctx context.Context, f EventFilter) ([]entities.ScheduledEvent, error)

	// FindInjection returns nil, nil when key has not been recorded.
	FindInjection(ctx context.Context, key string) (*entities.InjectionRecord, error)
	// InsertInjected stores the ledger entry and its events in one transaction.
	InsertInjected(ctx context.Context, rec *entities.InjectionRecord, evs []entities.ScheduledEvent) error
}
