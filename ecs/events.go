package ecs

import "github.com/milk9111/platformer/controller"

// TransitionEvent is pushed when a character's grounded state changes.
type TransitionEvent struct {
	Entity     Entity
	Transition controller.Transition
}

// EventQueue collects events for the current tick. The scheduler clears it
// after the last system ran.
type EventQueue struct {
	transitions []TransitionEvent
}

func (q *EventQueue) PushTransition(evt TransitionEvent) {
	if q == nil {
		return
	}
	q.transitions = append(q.transitions, evt)
}

// Transitions returns this tick's transition events without consuming them.
func (q *EventQueue) Transitions() []TransitionEvent {
	if q == nil {
		return nil
	}
	return q.transitions
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.transitions = q.transitions[:0]
}
