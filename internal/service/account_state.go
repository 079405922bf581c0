package service

import (
	"fmt"

	"github.com/dtroode/chirp-server/internal/model"
)

// AccountStateMachine holds the allowed verify status transitions.
// Banned has no outgoing edges.
type AccountStateMachine struct {
	transitions map[model.VerifyStatus]map[model.VerifyStatus]struct{}
}

// NewAccountStateMachine returns the default transition table.
func NewAccountStateMachine() *AccountStateMachine {
	return &AccountStateMachine{
		transitions: map[model.VerifyStatus]map[model.VerifyStatus]struct{}{
			model.VerifyStatusUnverified: {
				model.VerifyStatusVerified: {},
				model.VerifyStatusBanned:   {},
			},
			model.VerifyStatusVerified: {
				model.VerifyStatusBanned: {},
			},
		},
	}
}

// Transition validates a move from one status to another.
func (m *AccountStateMachine) Transition(from, to model.VerifyStatus) error {
	if from == model.VerifyStatusBanned {
		return model.ErrBanned
	}
	if _, ok := m.transitions[from][to]; !ok {
		return model.WrapError(model.KindInvalidTransition,
			fmt.Sprintf("cannot move account from %s to %s", from, to), nil)
	}
	return nil
}

// RequireVerified gates features reserved for verified accounts.
func (m *AccountStateMachine) RequireVerified(status model.VerifyStatus) error {
	switch status {
	case model.VerifyStatusVerified:
		return nil
	case model.VerifyStatusBanned:
		return model.ErrBanned
	default:
		return model.ErrNotVerified
	}
}

// RequireNotBanned gates session issuance.
func (m *AccountStateMachine) RequireNotBanned(status model.VerifyStatus) error {
	if status == model.VerifyStatusBanned {
		return model.ErrBanned
	}
	return nil
}
