package models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	// PriceScale is the number of fractional digits stored for a price.
	PriceScale = 2
	// PricePrecision is the total number of significant digits a price may hold.
	PricePrecision = 10
)

// Price is an exact decimal amount. It never passes through a binary float.
type Price struct {
	decimal.Decimal
}

// NewPrice wraps a decimal as a Price.
func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d}
}

// maxLiteralEcho bounds how much of a rejected literal is quoted back.
const maxLiteralEcho = 32

// ParsePrice parses a decimal string such as "19.99". Literals that cannot be
// stored in a numeric(PricePrecision, PriceScale) column are rejected before
// any arithmetic is done on them.
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %s: not a decimal number", echoLiteral(s))
	}
	if err := checkColumn(d); err != nil {
		return Price{}, fmt.Errorf("invalid price %s: %w", echoLiteral(s), err)
	}
	if d.IsZero() {
		d = decimal.Zero
	}
	return Price{Decimal: d}, nil
}

// MustParsePrice is like ParsePrice but panics on error. Intended for literals.
func MustParsePrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the price with exactly PriceScale fractional digits.
func (p Price) String() string {
	return p.Decimal.StringFixed(PriceScale)
}

// Equal compares two prices by value, so "250" equals "250.00".
func (p Price) Equal(other Price) bool {
	return p.Decimal.Equal(other.Decimal)
}

// MarshalJSON always emits a JSON string.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON accepts either a quoted decimal or a bare number literal.
func (p *Price) UnmarshalJSON(data []byte) error {
	price, err := ParsePrice(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*p = price
	return nil
}

// Value stores the price as its fixed-scale decimal string.
func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan reads a price from any representation the driver returns.
func (p *Price) Scan(value interface{}) error {
	return p.Decimal.Scan(value)
}

// GormDBDataType picks the column type for the active dialect. SQLite gets
// text because its NUMERIC affinity would coerce values through a float.
func (Price) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return fmt.Sprintf("numeric(%d,%d)", PricePrecision, PriceScale)
	case "sqlite":
		return "text"
	default:
		return fmt.Sprintf("decimal(%d,%d)", PricePrecision, PriceScale)
	}
}

// checkColumn reports whether d can be stored without rounding or overflow in
// a numeric(PricePrecision, PriceScale) column. Only the coefficient length and
// the exponent are inspected until the value is known to be small.
func checkColumn(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}
	exp := int64(d.Exponent())
	digits := int64(d.NumDigits())
	if digits+exp > PricePrecision-PriceScale {
		return fmt.Errorf("more than %d integer digits for numeric(%d,%d)",
			PricePrecision-PriceScale, PricePrecision, PriceScale)
	}
	if exp < -PriceScale {
		// anything past the scale must be trailing zeros
		if -exp-PriceScale >= digits || !d.Equal(d.Truncate(PriceScale)) {
			return fmt.Errorf("more than %d fractional digits for numeric(%d,%d)",
				PriceScale, PricePrecision, PriceScale)
		}
	}
	return nil
}

func echoLiteral(s string) string {
	if len(s) > maxLiteralEcho {
		return fmt.Sprintf("%q...", s[:maxLiteralEcho])
	}
	return fmt.Sprintf("%q", s)
}
