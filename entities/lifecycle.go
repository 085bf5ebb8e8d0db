package entities

type EventStatus string

const (
	StatusScheduled  EventStatus = "scheduled"
	StatusInProgress EventStatus = "inProgress"
	StatusCompleted  EventStatus = "completed"
	StatusSkipped    EventStatus = "skipped"
	StatusCancelled  EventStatus = "cancelled"
)

// Terminal reports whether no further transition is possible.
func (s EventStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusSkipped || s == StatusCancelled
}

func (s EventStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusSkipped, StatusCancelled:
		return true
	}
	return false
}

type Action string

const (
	ActionStart      Action = "start"
	ActionComplete   Action = "complete"
	ActionSkip       Action = "skip"
	ActionCancel     Action = "cancel"
	ActionReschedule Action = "reschedule"
)

// transitions is the only place lifecycle legality is defined.
var transitions = map[Action]map[EventStatus]EventStatus{
	ActionStart: {
		StatusScheduled: StatusInProgress,
	},
	ActionComplete: {
		StatusScheduled:  StatusCompleted,
		StatusInProgress: StatusCompleted,
	},
	ActionSkip: {
		StatusScheduled:  StatusSkipped,
		StatusInProgress: StatusSkipped,
	},
	ActionCancel: {
		StatusScheduled:  StatusCancelled,
		StatusInProgress: StatusCancelled,
	},
	ActionReschedule: {
		StatusScheduled:  StatusScheduled,
		StatusInProgress: StatusScheduled,
	},
}

// NextStatus returns the state reached by applying action in state from.
func NextStatus(eventID string, from EventStatus, action Action) (EventStatus, error) {
	byState, ok := transitions[action]
	if !ok {
		return from, &InvalidTransitionError{EventID: eventID, From: from, Action: action}
	}
	to, ok := byState[from]
	if !ok {
		return from, &InvalidTransitionError{EventID: eventID, From: from, Action: action}
	}
	return to, nil
}

// ParseAction validates an action name coming from the wire.
func ParseAction(s string) (Action, bool) {
	a := Action(s)
	_, ok := transitions[a]
	return a, ok
}
