package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstallmentPaidOutcome(t *testing.T) {
	// Row existed and was flipped to paid.
	assert.NoError(t, installmentPaidOutcome(true, true))

	// Row existed but was already settled, so the update skipped it.
	assert.ErrorIs(t, installmentPaidOutcome(true, false), ErrInstallmentSettled)

	// No such installment at all.
	assert.ErrorIs(t, installmentPaidOutcome(false, false), ErrInstallmentNotFound)
}
