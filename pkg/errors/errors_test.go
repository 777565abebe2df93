package errors

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "precondition error",
			err:  WrapInvalidState("VOTING", "TABLED"),
			want: KindPrecondition,
		},
		{
			name: "conflict error",
			err:  WrapDuplicateVote("LN-1", "MBR-2"),
			want: KindConflict,
		},
		{
			name: "persistence error",
			err:  WrapDatabaseError(errors.New("connection refused")),
			want: KindPersistence,
		},
		{
			name: "validation error",
			err:  WrapInvalidInput("repayment_weeks must be positive"),
			want: KindValidation,
		},
		{
			name: "foreign error",
			err:  errors.New("whatever"),
			want: Kind(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSentinelUnwrapping(t *testing.T) {
	err := WrapSavingsLimitExceeded(decimal.NewFromInt(3001), decimal.NewFromInt(3000))

	assert.True(t, errors.Is(err, ErrSavingsLimitExceeded))
	assert.Contains(t, err.Error(), "3000.00")
	assert.Contains(t, err.Error(), "3001.00")
}

func TestMessageNamesCondition(t *testing.T) {
	err := WrapInsufficientGuarantors(1, 2)

	assert.Contains(t, err.Message, "1 accepted")
	assert.Contains(t, err.Message, "2 are required")
}
