package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vendra/licensing-api/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to models.BillingStatus }{
		{models.BillingStatusPending, models.BillingStatusBilled},
		{models.BillingStatusBilled, models.BillingStatusReceived},
		{models.BillingStatusReceived, models.BillingStatusPaid},
		{models.BillingStatusBilled, models.BillingStatusLate},
		{models.BillingStatusReceived, models.BillingStatusLate},
		{models.BillingStatusLate, models.BillingStatusReceived},
		{models.BillingStatusLate, models.BillingStatusPaid},
		{models.BillingStatusPending, models.BillingStatusCanceled},
		{models.BillingStatusBilled, models.BillingStatusCanceled},
		{models.BillingStatusReceived, models.BillingStatusCanceled},
		{models.BillingStatusLate, models.BillingStatusCanceled},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to models.BillingStatus }{
		{models.BillingStatusPending, models.BillingStatusReceived},
		{models.BillingStatusPending, models.BillingStatusPaid},
		{models.BillingStatusPending, models.BillingStatusLate},
		{models.BillingStatusBilled, models.BillingStatusPaid},
		{models.BillingStatusReceived, models.BillingStatusBilled},
		{models.BillingStatusPaid, models.BillingStatusPending},
		{models.BillingStatusPaid, models.BillingStatusCanceled},
		{models.BillingStatusCanceled, models.BillingStatusPending},
		{models.BillingStatusCanceled, models.BillingStatusPaid},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}

func TestTransitionIdempotent(t *testing.T) {
	for _, s := range []models.BillingStatus{
		models.BillingStatusPending, models.BillingStatusBilled, models.BillingStatusReceived,
		models.BillingStatusPaid, models.BillingStatusLate, models.BillingStatusCanceled,
	} {
		assert.NoError(t, Transition(s, s, false), "same-state set of %s must be a no-op success", s)
	}
}

func TestTransitionTerminal(t *testing.T) {
	assert.True(t, Terminal(models.BillingStatusPaid))
	assert.True(t, Terminal(models.BillingStatusCanceled))
	assert.False(t, Terminal(models.BillingStatusLate))

	err := Transition(models.BillingStatusPaid, models.BillingStatusBilled, false)
	var invalid *ErrInvalidTransition
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.BillingStatusPaid, invalid.From)
}

func TestTransitionForce(t *testing.T) {
	// Force bypasses the table for manual correction.
	assert.NoError(t, Transition(models.BillingStatusPaid, models.BillingStatusPending, true))

	// But never into an unknown status.
	assert.Error(t, Transition(models.BillingStatusPaid, models.BillingStatus("BOGUS"), true))
}
