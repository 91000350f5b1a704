package marketplace

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
)

// orderEvents is OrderTransitions folded into looplab/fsm event
// descriptors: transitions sharing an event and destination collapse into
// one descriptor with multiple source states (cancel, for example, is
// legal from four states).
var orderEvents = buildOrderEvents()

func buildOrderEvents() []fsm.EventDesc {
	index := make(map[OrderEvent]int)
	out := make([]fsm.EventDesc, 0, len(OrderTransitions))

	for _, t := range OrderTransitions {
		if i, seen := index[t.Event]; seen {
			out[i].Src = append(out[i].Src, string(t.Src))
			continue
		}
		index[t.Event] = len(out)
		out = append(out, fsm.EventDesc{
			Name: string(t.Event),
			Src:  []string{string(t.Src)},
			Dst:  string(t.Dst),
		})
	}
	return out
}

// TransitionValidator checks order status changes against the transition
// graph. looplab/fsm tracks current state internally, so Apply builds a
// short-lived machine seeded with the order's status for each check.
type TransitionValidator struct{}

// NewTransitionValidator returns an fsm-backed validator.
func NewTransitionValidator() *TransitionValidator {
	return &TransitionValidator{}
}

// Apply fires event from the current status and returns the destination.
// Illegal transitions come back as *TransitionError.
func (v *TransitionValidator) Apply(ctx context.Context, current OrderStatus, event OrderEvent) (OrderStatus, error) {
	machine := fsm.NewFSM(string(current), orderEvents, nil)

	if err := machine.Event(ctx, string(event)); err != nil {
		var invalid fsm.InvalidEventError
		var noop fsm.NoTransitionError
		if errors.As(err, &invalid) || errors.As(err, &noop) {
			return "", &TransitionError{Event: event, Current: current}
		}
		return "", err
	}
	return OrderStatus(machine.Current()), nil
}
