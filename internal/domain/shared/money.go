package shared

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Money is a fixed-point amount with two decimal places, held in hundredths.
type Money int64

const moneyScale = 100

// MaxMoney is the largest amount a NUMERIC(12,2) column holds.
const MaxMoney Money = 999_999_999_999

var (
	ErrMoneySyntax = errors.New("invalid decimal amount")
	ErrMoneyScale  = errors.New("amount has more than 2 decimal places")
	ErrMoneyRange  = errors.New("amount is out of range")
)

// Units returns n whole units.
func Units(n int64) Money {
	return Money(n * moneyScale)
}

// ParseMoney parses a decimal literal such as "50000", "1234.5" or "1e3".
// Values with more than two decimal places are rejected, never rounded.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	r, ok := new(big.Rat).SetString(s)
	if s == "" || !ok {
		return 0, fmt.Errorf("%w: %q", ErrMoneySyntax, s)
	}

	r.Mul(r, big.NewRat(moneyScale, 1))
	if !r.IsInt() {
		return 0, ErrMoneyScale
	}
	n := r.Num()
	if !n.IsInt64() {
		return 0, ErrMoneyRange
	}
	return Money(n.Int64()), nil
}

// String formats m with exactly two decimal places.
func (m Money) String() string {
	sign := ""
	abs := int64(m)
	if abs < 0 {
		sign = "-"
		if abs == math.MinInt64 {
			return "-92233720368547758.08"
		}
		abs = -abs
	}
	return fmt.Sprintf("%s%d.%02d", sign, abs/moneyScale, abs%moneyScale)
}

// MarshalJSON writes m as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON reads a JSON number or a quoted decimal.
func (m *Money) UnmarshalJSON(b []byte) error {
	v, err := ParseMoney(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Value implements driver.Valuer. NUMERIC columns accept the text form.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(src any) error {
	var (
		v   Money
		err error
	)
	switch src := src.(type) {
	case string:
		v, err = ParseMoney(src)
	case []byte:
		v, err = ParseMoney(string(src))
	case int64:
		v = Units(src)
	case float64:
		v, err = ParseMoney(fmt.Sprintf("%.2f", src))
	case nil:
		v = 0
	default:
		err = fmt.Errorf("%w: cannot scan %T", ErrMoneySyntax, src)
	}
	if err != nil {
		return err
	}
	*m = v
	return nil
}
