// Package fsm defines the interview turn phase machine and its transition rules.
package fsm

import "fmt"

type State string

type Event string

const (
	StateGreeting           State = "greeting"
	StatePresentingQuestion State = "presenting_question"
	StateRecording          State = "recording"
	StateSubmitting         State = "submitting"
	StateWaitingFollowUp    State = "waiting_followup"
	StatePresentingFollowUp State = "presenting_followup"
	StateWaitingAck         State = "waiting_ack"
	StatePresentingAck      State = "presenting_ack"
	StateCompleted          State = "completed"
)

const (
	// EventGreetingPlayed fires when the greeting utterance finishes.
	EventGreetingPlayed Event = "greeting_played"
	// EventStartRecording fires when the user begins capturing an answer.
	EventStartRecording Event = "start_recording"
	// EventSubmit fires when the user confirms submission of the captured answer.
	EventSubmit Event = "submit"
	// EventNeedFollowUp fires when transcription succeeded and a follow-up is owed.
	EventNeedFollowUp Event = "need_followup"
	// EventNeedAck fires when transcription succeeded and an acknowledgment is owed.
	EventNeedAck Event = "need_ack"
	// EventFollowUpReady fires when follow-up generation completed.
	EventFollowUpReady Event = "followup_ready"
	// EventAckReady fires when acknowledgment generation completed.
	EventAckReady Event = "ack_ready"
	// EventAdvance fires when acknowledgment audio finished with questions remaining.
	EventAdvance Event = "advance"
	// EventComplete fires when acknowledgment audio finished on the last question.
	EventComplete Event = "complete"
	// EventRetryQuestion rolls a failed remote call back to the current question.
	EventRetryQuestion Event = "retry_question"
	// EventRetryFollowUp rolls a failed remote call back to the live follow-up.
	EventRetryFollowUp Event = "retry_followup"
	// EventReset abandons all progress and restarts from the greeting.
	EventReset Event = "reset"
)

// Transition applies one event to a state and returns the successor state.
// Invalid pairs return the unchanged state and a non-nil error.
func Transition(current State, event Event) (State, error) {
	if event == EventReset {
		return StateGreeting, nil
	}

	switch current {
	case StateGreeting:
		switch event {
		case EventGreetingPlayed:
			return StatePresentingQuestion, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StatePresentingQuestion:
		switch event {
		case EventStartRecording:
			return StateRecording, nil
		case EventNeedFollowUp:
			return StateWaitingFollowUp, nil
		case EventNeedAck:
			return StateWaitingAck, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StatePresentingFollowUp:
		switch event {
		case EventStartRecording:
			return StateRecording, nil
		case EventNeedAck:
			return StateWaitingAck, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateRecording:
		switch event {
		case EventSubmit:
			return StateSubmitting, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateSubmitting:
		switch event {
		case EventNeedFollowUp:
			return StateWaitingFollowUp, nil
		case EventNeedAck:
			return StateWaitingAck, nil
		case EventRetryQuestion:
			return StatePresentingQuestion, nil
		case EventRetryFollowUp:
			return StatePresentingFollowUp, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateWaitingFollowUp:
		switch event {
		case EventFollowUpReady:
			return StatePresentingFollowUp, nil
		case EventRetryQuestion:
			return StatePresentingQuestion, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateWaitingAck:
		switch event {
		case EventAckReady:
			return StatePresentingAck, nil
		case EventRetryQuestion:
			return StatePresentingQuestion, nil
		case EventRetryFollowUp:
			return StatePresentingFollowUp, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StatePresentingAck:
		switch event {
		case EventAdvance:
			return StatePresentingQuestion, nil
		case EventComplete:
			return StateCompleted, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateCompleted:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

// Terminal reports whether a state accepts no events other than reset.
func Terminal(state State) bool {
	return state == StateCompleted
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
