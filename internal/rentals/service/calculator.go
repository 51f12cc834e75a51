package service

import (
	"math"
	"strings"
	"time"

	"rental_agreement_backend/platform/apperr"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TotalDays counts started days between start and end, with a minimum of one.
func TotalDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// GrandTotal is perDay × days + deposit − discount, clamped at zero. All values are sen.
func GrandTotal(perDayCents int64, days int, depositCents, discountCents int64) int64 {
	total := decimal.NewFromInt(perDayCents).
		Mul(decimal.NewFromInt(int64(days))).
		Add(decimal.NewFromInt(depositCents)).
		Sub(decimal.NewFromInt(discountCents))
	if total.IsNegative() {
		return 0
	}
	return total.IntPart()
}

// ParseRM converts an RM amount string to sen, rounding half away from zero.
// An empty string is zero; negative amounts are rejected.
func ParseRM(field, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, apperr.Validation(field + " must be a number")
	}
	if d.IsNegative() {
		return 0, apperr.Validation(field + " must not be negative")
	}
	return d.Mul(hundred).Round(0).IntPart(), nil
}

// FormatAmount renders sen as a plain two-decimal RM amount ("750.00").
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
