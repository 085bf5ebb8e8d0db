package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus_LegalTransitions(t *testing.T) {
	cases := []struct {
		from   EventStatus
		action Action
		want   EventStatus
	}{
		{StatusScheduled, ActionStart, StatusInProgress},
		{StatusScheduled, ActionComplete, StatusCompleted},
		{StatusInProgress, ActionComplete, StatusCompleted},
		{StatusScheduled, ActionSkip, StatusSkipped},
		{StatusInProgress, ActionSkip, StatusSkipped},
		{StatusScheduled, ActionCancel, StatusCancelled},
		{StatusInProgress, ActionCancel, StatusCancelled},
		{StatusScheduled, ActionReschedule, StatusScheduled},
		{StatusInProgress, ActionReschedule, StatusScheduled},
	}
	for _, tc := range cases {
		got, err := NextStatus("ev", tc.from, tc.action)
		require.NoError(t, err, "%s from %s", tc.action, tc.from)
		assert.Equal(t, tc.want, got)
	}
}

func TestNextStatus_TerminalStatesRejectEverything(t *testing.T) {
	for _, from := range []EventStatus{StatusCompleted, StatusSkipped, StatusCancelled} {
		require.True(t, from.Terminal())
		for _, a := range []Action{ActionStart, ActionComplete, ActionSkip, ActionCancel, ActionReschedule} {
			got, err := NextStatus("ev-1", from, a)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTransition))
			var ite *InvalidTransitionError
			require.ErrorAs(t, err, &ite)
			assert.Equal(t, from, ite.From)
			assert.Equal(t, a, ite.Action)
			assert.Equal(t, from, got)
		}
	}
}

func TestNextStatus_StartOnlyFromScheduled(t *testing.T) {
	_, err := NextStatus("ev", StatusInProgress, ActionStart)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestParseAction(t *testing.T) {
	a, ok := ParseAction("reschedule")
	assert.True(t, ok)
	assert.Equal(t, ActionReschedule, a)

	_, ok = ParseAction("delete")
	assert.False(t, ok)
}

func TestPriorityRaise(t *testing.T) {
	assert.Equal(t, PriorityModerate, PriorityLow.Raise())
	assert.Equal(t, PriorityHigh, PriorityModerate.Raise())
	assert.Equal(t, PriorityUrgent, PriorityHigh.Raise())
	assert.Equal(t, PriorityUrgent, PriorityUrgent.Raise())
}

func TestCategoryForKey(t *testing.T) {
	assert.Equal(t, CategoryWeeding, CategoryForKey("first_weeding"))
	assert.Equal(t, CategoryFertilizer, CategoryForKey("top_dressing"))
	assert.Equal(t, CategoryEarthingUp, CategoryForKey("earthing_up"))
	assert.Equal(t, CategoryOther, CategoryForKey("thinning"))
	assert.True(t, CategorySpraying.MoistureSensitive())
	assert.False(t, CategoryFertilizer.MoistureSensitive())
}
