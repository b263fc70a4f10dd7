// Package money provides an exact base-10 amount type for ledger arithmetic.
//
// Amounts never pass through binary floating point: they are parsed from
// text, summed exactly and persisted as SQL numeric (or text on sqlite).
package money

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Money is a signed, arbitrary-precision decimal amount. The zero value is zero.
type Money struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Money{}

// Parse converts user-supplied text to Money. Surrounding whitespace is
// ignored; anything that is not a plain decimal literal fails with
// domain.ErrInvalidAmount.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("%w: amount is required", domain.ErrInvalidAmount)
	}
	if strings.ContainsAny(s, "eE") {
		return Zero, fmt.Errorf("%w: %q is not a decimal number", domain.ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q is not a decimal number", domain.ErrInvalidAmount, s)
	}
	return Money{d: d}, nil
}

// MustParse is Parse for constants and tests. It panics on invalid input.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// New returns value × 10^exp, so New(4250, -2) is 42.50.
func New(value int64, exp int32) Money {
	return Money{d: decimal.New(value, exp)}
}

// FromDecimal wraps an existing decimal.
func FromDecimal(d decimal.Decimal) Money {
	return Money{d: d}
}

// Sum adds all amounts exactly.
func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

func (m Money) Decimal() decimal.Decimal { return m.d }

func (m Money) Add(other Money) Money { return Money{d: m.d.Add(other.d)} }
func (m Money) Sub(other Money) Money { return Money{d: m.d.Sub(other.d)} }
func (m Money) Neg() Money            { return Money{d: m.d.Neg()} }
func (m Money) Abs() Money            { return Money{d: m.d.Abs()} }

// Cmp returns -1, 0 or +1 depending on whether m is less than, equal to or
// greater than other.
func (m Money) Cmp(other Money) int { return m.d.Cmp(other.d) }

// Equal compares numerically, so 1.5 equals 1.50.
func (m Money) Equal(other Money) bool       { return m.d.Equal(other.d) }
func (m Money) GreaterThan(other Money) bool { return m.d.GreaterThan(other.d) }
func (m Money) LessThan(other Money) bool    { return m.d.LessThan(other.d) }

func (m Money) IsZero() bool     { return m.d.IsZero() }
func (m Money) IsPositive() bool { return m.d.IsPositive() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }
func (m Money) Sign() int        { return m.d.Sign() }

// String renders at least two fractional digits and keeps any finer scale.
func (m Money) String() string {
	if m.d.Equal(m.d.Round(2)) {
		return m.d.StringFixed(2)
	}
	return m.d.String()
}

// Value implements driver.Valuer. Amounts travel as text so no driver
// converts them to float.
func (m Money) Value() (driver.Value, error) {
	return m.d.String(), nil
}

// Scan implements sql.Scanner.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.d = decimal.Zero
		return nil
	}
	if err := m.d.Scan(value); err != nil {
		return fmt.Errorf("money: scan %T: %w", value, err)
	}
	return nil
}

// GormDataType implements schema.GormDataTypeInterface.
func (Money) GormDataType() string { return "decimal" }

// GormDBDataType picks an exact column type per dialect. sqlite gets text
// because a numeric column there has REAL affinity.
func (Money) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "numeric"
	case "sqlite":
		return "text"
	default:
		return "decimal(38,10)"
	}
}

// MarshalJSON encodes the amount as a JSON string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a JSON string or number.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := unquote(data); err == nil {
		s = unquoted
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func unquote(data []byte) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	return s, nil
}
