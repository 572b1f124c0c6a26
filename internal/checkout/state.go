package checkout

import (
	"fmt"

	"github.com/sewnstudio/atelier-backend/pkg/enums"
)

// Machine tracks one submission's progress. Transitions only follow
// Idle → Validating → Submitting → Succeeded, with any pre-terminal state
// able to fall to Failed, and Failed recovering to Idle with the cart intact.
type Machine struct {
	state enums.CheckoutState
}

// NewMachine starts in the Idle state.
func NewMachine() *Machine {
	return &Machine{state: enums.CheckoutStateIdle}
}

// State returns the current state.
func (m *Machine) State() enums.CheckoutState {
	return m.state
}

var checkoutTransitions = map[enums.CheckoutState][]enums.CheckoutState{
	enums.CheckoutStateIdle:       {enums.CheckoutStateValidating},
	enums.CheckoutStateValidating: {enums.CheckoutStateSubmitting, enums.CheckoutStateFailed},
	enums.CheckoutStateSubmitting: {enums.CheckoutStateSucceeded, enums.CheckoutStateFailed},
	enums.CheckoutStateSucceeded:  {},
	enums.CheckoutStateFailed:     {enums.CheckoutStateIdle},
}

// To moves the machine into next, rejecting transitions the flow does not
// allow.
func (m *Machine) To(next enums.CheckoutState) error {
	for _, allowed := range checkoutTransitions[m.state] {
		if allowed == next {
			m.state = next
			return nil
		}
	}
	return fmt.Errorf("invalid checkout transition %s -> %s", m.state, next)
}

// Fail moves to Failed from any pre-terminal state and then recovers to Idle.
func (m *Machine) Fail() {
	if m.state == enums.CheckoutStateValidating || m.state == enums.CheckoutStateSubmitting {
		m.state = enums.CheckoutStateFailed
	}
	if m.state == enums.CheckoutStateFailed {
		m.state = enums.CheckoutStateIdle
	}
}
