package checkout

import (
	"errors"
	"fmt"
)

// State is a checkout step.
type State string

const (
	StateAddressEntry      State = "ADDRESS_ENTRY"
	StateOrderConfirm      State = "ORDER_CONFIRM"
	StatePaymentProcessing State = "PAYMENT_PROCESSING"
	StateSuccess           State = "SUCCESS"
)

// Event moves the flow between states.
type Event string

const (
	EventAddressAccepted Event = "ADDRESS_ACCEPTED"
	EventBack            Event = "BACK"
	EventPaymentOpened   Event = "PAYMENT_OPENED"
	EventPaymentVerified Event = "PAYMENT_VERIFIED"
	EventPaymentAborted  Event = "PAYMENT_ABORTED"
)

var ErrIllegalTransition = errors.New("illegal checkout transition")

// transitions is the complete table; SUCCESS is terminal.
var transitions = map[State]map[Event]State{
	StateAddressEntry: {
		EventAddressAccepted: StateOrderConfirm,
	},
	StateOrderConfirm: {
		EventBack:          StateAddressEntry,
		EventPaymentOpened: StatePaymentProcessing,
	},
	StatePaymentProcessing: {
		EventPaymentVerified: StateSuccess,
		EventPaymentAborted:  StateOrderConfirm,
	},
}

// Next returns the state reached from s on ev.
func Next(s State, ev Event) (State, error) {
	if to, ok := transitions[s][ev]; ok {
		return to, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrIllegalTransition, ev, s)
}
