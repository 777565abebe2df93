package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// WholeWeeksBetween returns the number of complete 7-day periods
// between from and to. Negative when to precedes from.
func WholeWeeksBetween(from, to time.Time) int {
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return -((-days) / 7)
	}
	return days / 7
}

// WeeklyInstallment splits a total due across the loan term.
// Rounded to 2 decimal places for currency.
func WeeklyInstallment(totalDue decimal.Decimal, weeks int) decimal.Decimal {
	if weeks <= 0 {
		return decimal.Zero
	}
	return totalDue.Div(decimal.NewFromInt(int64(weeks))).Round(2)
}

// ClampMin returns n, floored at min.
func ClampMin(n, min int) int {
	if n < min {
		return min
	}
	return n
}

// MinInt returns the smaller of a and b.
func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// DecimalFromSetting parses a stored setting value, falling back to
// def on empty or malformed input.
func DecimalFromSetting(raw string, def decimal.Decimal) decimal.Decimal {
	if raw == "" {
		return def
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return def
	}
	return d
}
