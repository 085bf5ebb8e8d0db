package entities

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidInput      = errors.New("invalid input")
)

// NotFoundError is returned for unknown crops, varieties, plots and events.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidTransitionError is returned when an action is illegal in the event's current state.
type InvalidTransitionError struct {
	EventID string
	From    EventStatus
	Action  Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("event %s: cannot %s from %s", e.EventID, e.Action, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// Warning codes for degraded but non-fatal input.
const (
	WarnWeatherUnavailable = "weather_unavailable"
	WarnWeatherMalformed   = "weather_malformed"
	WarnSoilMissing        = "soil_missing"
	WarnVarietyFallback    = "variety_fallback"
	WarnDrainageUnknown    = "drainage_unknown"
	WarnNoEvidence         = "no_growth_evidence"
	WarnLocationInvalid    = "location_invalid"
)

// Warning reports a degraded input. It is carried on results, never returned as an error.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
