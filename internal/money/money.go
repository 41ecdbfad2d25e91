// Package money is the single choke point for monetary and date
// normalization. Prices are never handled as binary floats past this
// boundary: everything is quantized to a 2-decimal fixed representation
// on the way in.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/EhaabShareef/inventory-manage/internal/errs"
)

// ToMoney converts user-facing price input into the canonical 2-decimal
// representation. Empty string and nil are the one sentinel case and map to
// zero; a non-numeric string is an error, never silently zero.
func ToMoney(v interface{}) (decimal.Decimal, error) {
	switch p := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		// Already canonical - passed through unchanged
		return p, nil
	case *decimal.Decimal:
		if p == nil {
			return decimal.Zero, nil
		}
		return *p, nil
	case string:
		if p == "" {
			return decimal.Zero, nil
		}
		// ParseFloat accepts "NaN" and "Inf" spellings, which have no
		// decimal representation
		f, err := strconv.ParseFloat(p, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, fmt.Errorf("%w: price %q", errs.ErrInvalidFormat, p)
		}
		return decimal.NewFromFloat(f).Round(2), nil
	case float64:
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return decimal.Zero, fmt.Errorf("%w: price %v", errs.ErrInvalidFormat, p)
		}
		return decimal.NewFromFloat(p).Round(2), nil
	case float32:
		f := float64(p)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, fmt.Errorf("%w: price %v", errs.ErrInvalidFormat, p)
		}
		return decimal.NewFromFloat(f).Round(2), nil
	case int:
		return decimal.NewFromInt(int64(p)).Round(2), nil
	case int64:
		return decimal.NewFromInt(p).Round(2), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: price of type %T", errs.ErrInvalidFormat, v)
	}
}

// Format renders a price as a fixed 2-decimal string, no thousands separators.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatPtr renders a nullable price; nil becomes the literal "N/A" the list
// views expect.
func FormatPtr(d *decimal.Decimal) string {
	if d == nil {
		return "N/A"
	}
	return d.StringFixed(2)
}

// ToTimestamp coerces form input into a timestamp. Accepts a calendar date
// ("2006-01-02"), an RFC 3339 string, or a time.Time; nil stays nil.
func ToTimestamp(v interface{}) (*time.Time, error) {
	switch d := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &d, nil
	case *time.Time:
		return d, nil
	case string:
		if d == "" {
			return nil, nil
		}
		if t, err := time.Parse("2006-01-02", d); err == nil {
			return &t, nil
		}
		if t, err := time.Parse(time.RFC3339, d); err == nil {
			return &t, nil
		}
		return nil, fmt.Errorf("%w: date %q", errs.ErrInvalidFormat, d)
	default:
		return nil, fmt.Errorf("%w: date of type %T", errs.ErrInvalidFormat, v)
	}
}

// IsExpired reports whether a price validity window has passed. A nil
// validTill means the price never expires.
func IsExpired(validTill *time.Time, now time.Time) bool {
	if validTill == nil {
		return false
	}
	return validTill.Before(now)
}

// FormatDisplayDate renders "DD-MON-YYYY HH:MM" (24-hour clock, uppercase
// 3-letter month). The dashboard and list views depend on this exact shape.
func FormatDisplayDate(t time.Time) string {
	return fmt.Sprintf("%02d-%s-%d %02d:%02d",
		t.Day(), strings.ToUpper(t.Format("Jan")), t.Year(), t.Hour(), t.Minute())
}
