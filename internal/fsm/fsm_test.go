package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionPlainTurn(t *testing.T) {
	s := StateGreeting

	next, err := Transition(s, EventGreetingPlayed)
	require.NoError(t, err)
	require.Equal(t, StatePresentingQuestion, next)

	next, err = Transition(next, EventStartRecording)
	require.NoError(t, err)
	require.Equal(t, StateRecording, next)

	next, err = Transition(next, EventSubmit)
	require.NoError(t, err)
	require.Equal(t, StateSubmitting, next)

	next, err = Transition(next, EventNeedAck)
	require.NoError(t, err)
	require.Equal(t, StateWaitingAck, next)

	next, err = Transition(next, EventAckReady)
	require.NoError(t, err)
	require.Equal(t, StatePresentingAck, next)

	next, err = Transition(next, EventAdvance)
	require.NoError(t, err)
	require.Equal(t, StatePresentingQuestion, next)
}

func TestTransitionFollowUpTurn(t *testing.T) {
	s := StateSubmitting

	next, err := Transition(s, EventNeedFollowUp)
	require.NoError(t, err)
	require.Equal(t, StateWaitingFollowUp, next)

	next, err = Transition(next, EventFollowUpReady)
	require.NoError(t, err)
	require.Equal(t, StatePresentingFollowUp, next)

	// The follow-up answer records and submits like a regular answer but may
	// only proceed to an acknowledgment, never another follow-up.
	next, err = Transition(next, EventStartRecording)
	require.NoError(t, err)
	require.Equal(t, StateRecording, next)

	next, err = Transition(next, EventSubmit)
	require.NoError(t, err)
	require.Equal(t, StateSubmitting, next)

	next, err = Transition(next, EventNeedAck)
	require.NoError(t, err)
	require.Equal(t, StateWaitingAck, next)
}

func TestTransitionCompleteIsTerminal(t *testing.T) {
	next, err := Transition(StatePresentingAck, EventComplete)
	require.NoError(t, err)
	require.Equal(t, StateCompleted, next)
	require.True(t, Terminal(next))

	for _, event := range []Event{EventStartRecording, EventSubmit, EventAdvance, EventGreetingPlayed} {
		got, err := Transition(StateCompleted, event)
		require.Error(t, err)
		require.Equal(t, StateCompleted, got)
	}
}

func TestTransitionResetFromAnyState(t *testing.T) {
	states := []State{
		StateGreeting, StatePresentingQuestion, StateRecording, StateSubmitting,
		StateWaitingFollowUp, StatePresentingFollowUp, StateWaitingAck,
		StatePresentingAck, StateCompleted,
	}
	for _, state := range states {
		next, err := Transition(state, EventReset)
		require.NoError(t, err)
		require.Equal(t, StateGreeting, next)
	}
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	tests := []struct {
		name  string
		state State
		event Event
	}{
		{name: "greeting cannot record", state: StateGreeting, event: EventStartRecording},
		{name: "greeting cannot submit", state: StateGreeting, event: EventSubmit},
		{name: "presenting cannot submit", state: StatePresentingQuestion, event: EventSubmit},
		{name: "presenting cannot advance", state: StatePresentingQuestion, event: EventAdvance},
		{name: "recording cannot record again", state: StateRecording, event: EventStartRecording},
		{name: "recording cannot advance", state: StateRecording, event: EventAdvance},
		{name: "submitting cannot record", state: StateSubmitting, event: EventStartRecording},
		{name: "waiting followup cannot ack", state: StateWaitingFollowUp, event: EventAckReady},
		{name: "waiting ack cannot followup", state: StateWaitingAck, event: EventFollowUpReady},
		{name: "presenting followup cannot followup again", state: StatePresentingFollowUp, event: EventNeedFollowUp},
		{name: "presenting ack cannot record", state: StatePresentingAck, event: EventStartRecording},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Error(t, err)
			require.Contains(t, err.Error(), "invalid transition")
			require.Equal(t, tc.state, next)
		})
	}
}

func TestTransitionRollbackTargets(t *testing.T) {
	for _, state := range []State{StateSubmitting, StateWaitingFollowUp, StateWaitingAck} {
		next, err := Transition(state, EventRetryQuestion)
		require.NoError(t, err)
		require.Equal(t, StatePresentingQuestion, next)
	}
	for _, state := range []State{StateSubmitting, StateWaitingAck} {
		next, err := Transition(state, EventRetryFollowUp)
		require.NoError(t, err)
		require.Equal(t, StatePresentingFollowUp, next)
	}
	// A follow-up failure can never roll back into the follow-up that does not exist yet.
	next, err := Transition(StateWaitingFollowUp, EventRetryFollowUp)
	require.Error(t, err)
	require.Equal(t, StateWaitingFollowUp, next)
}

func TestTransitionRetryReentersWaiting(t *testing.T) {
	next, err := Transition(StatePresentingQuestion, EventNeedFollowUp)
	require.NoError(t, err)
	require.Equal(t, StateWaitingFollowUp, next)

	next, err = Transition(StatePresentingQuestion, EventNeedAck)
	require.NoError(t, err)
	require.Equal(t, StateWaitingAck, next)

	next, err = Transition(StatePresentingFollowUp, EventNeedAck)
	require.NoError(t, err)
	require.Equal(t, StateWaitingAck, next)
}

func TestTransitionUnknownState(t *testing.T) {
	next, err := Transition(State("mystery"), EventSubmit)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown state")
	require.Equal(t, State("mystery"), next)
}
