package billing

import (
	"fmt"

	"github.com/vendra/licensing-api/internal/models"
)

// ErrInvalidTransition is returned when a billing status change is not
// allowed by the transition table and was not forced.
type ErrInvalidTransition struct {
	From, To models.BillingStatus
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid billing status transition %s -> %s", e.From, e.To)
}

// transitions is the allowed billing-status graph. PENDING moves forward
// through BILLED and RECEIVED to PAID; LATE is reachable from BILLED or
// RECEIVED and can recover to RECEIVED or PAID; CANCELED is reachable from
// any non-terminal state. PAID and CANCELED are terminal.
var transitions = map[models.BillingStatus][]models.BillingStatus{
	models.BillingStatusPending:  {models.BillingStatusBilled, models.BillingStatusCanceled},
	models.BillingStatusBilled:   {models.BillingStatusReceived, models.BillingStatusLate, models.BillingStatusCanceled},
	models.BillingStatusReceived: {models.BillingStatusPaid, models.BillingStatusLate, models.BillingStatusCanceled},
	models.BillingStatusLate:     {models.BillingStatusReceived, models.BillingStatusPaid, models.BillingStatusCanceled},
	models.BillingStatusPaid:     {},
	models.BillingStatusCanceled: {},
}

// CanTransition reports whether from may move to to. A same-state set is
// always allowed (idempotent no-op).
func CanTransition(from, to models.BillingStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func Terminal(s models.BillingStatus) bool {
	return s == models.BillingStatusPaid || s == models.BillingStatusCanceled
}

// Transition validates a billing status change. force bypasses the
// transition table for privileged manual correction; the target status must
// still be a known one. Setting the current status again succeeds without
// effect.
func Transition(from, to models.BillingStatus, force bool) error {
	if !models.ValidBillingStatus(to) {
		return fmt.Errorf("unknown billing status %q", to)
	}
	if force || CanTransition(from, to) {
		return nil
	}
	return &ErrInvalidTransition{From: from, To: to}
}
