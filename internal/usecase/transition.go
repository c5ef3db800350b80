package usecase

import (
	"fmt"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
)

// TransitionPolicy decides whether a verified notification may move a payment
// from its current status to the mapped one.
type TransitionPolicy string

const (
	// TransitionPolicyPermissive applies every notification
	TransitionPolicyPermissive TransitionPolicy = "permissive"
	// TransitionPolicyStrict rejects moves out of terminal states
	TransitionPolicyStrict TransitionPolicy = "strict"
)

var allowedTransitions = map[model.PaymentStatus]map[model.PaymentStatus]bool{
	model.PaymentStatusCreated: {
		model.PaymentStatusPending:   true,
		model.PaymentStatusSucceeded: true,
		model.PaymentStatusCancelled: true,
		model.PaymentStatusFailed:    true,
		model.PaymentStatusDisputed:  true,
	},
	model.PaymentStatusPending: {
		model.PaymentStatusSucceeded: true,
		model.PaymentStatusCancelled: true,
		model.PaymentStatusFailed:    true,
		model.PaymentStatusDisputed:  true,
	},
	model.PaymentStatusSucceeded: {
		model.PaymentStatusDisputed: true,
	},
}

func ParseTransitionPolicy(s string) (TransitionPolicy, error) {
	switch p := TransitionPolicy(s); p {
	case "":
		return TransitionPolicyPermissive, nil
	case TransitionPolicyPermissive, TransitionPolicyStrict:
		return p, nil
	default:
		return "", fmt.Errorf("unknown transition policy: %s", s)
	}
}

// Allows reports whether from -> to may be applied. Staying in the same status is always allowed.
func (p TransitionPolicy) Allows(from, to model.PaymentStatus) bool {
	if p != TransitionPolicyStrict || from == to {
		return true
	}
	return allowedTransitions[from][to]
}
