package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"fee pending to fee paid", StatusFeePending, StatusFeePaid, true},
		{"fee paid to pending guarantors", StatusFeePaid, StatusPendingGuarantors, true},
		{"pending guarantors to submitted", StatusPendingGuarantors, StatusSubmitted, true},
		{"submitted to verified", StatusSubmitted, StatusVerified, true},
		{"verified to tabled", StatusVerified, StatusTabled, true},
		{"tabled to voting", StatusTabled, StatusVoting, true},
		{"voting to approved", StatusVoting, StatusApproved, true},
		{"voting to rejected", StatusVoting, StatusRejected, true},
		{"approved to active", StatusApproved, StatusActive, true},
		{"active to completed", StatusActive, StatusCompleted, true},

		{"no skipping verification", StatusSubmitted, StatusTabled, false},
		{"no skipping voting", StatusVerified, StatusApproved, false},
		{"no backward move", StatusVoting, StatusSubmitted, false},
		{"rejected is final", StatusRejected, StatusFeePending, false},
		{"completed is final", StatusCompleted, StatusActive, false},
		{"no direct disbursal", StatusSubmitted, StatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
	assert.False(t, StatusFeePending.IsTerminal())
	assert.False(t, StatusVoting.IsTerminal())
}

func TestStatusIsDisbursed(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusCompleted, StatusInArrears, StatusOverdue} {
		assert.True(t, s.IsDisbursed(), "%s should count as disbursed", s)
	}
	for _, s := range []Status{StatusFeePending, StatusSubmitted, StatusApproved, StatusRejected} {
		assert.False(t, s.IsDisbursed(), "%s should not count as disbursed", s)
	}
}
