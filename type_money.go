package exposure

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an amount invested in a fund, used to weight funds in a portfolio.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M creates a Money from a major unit amount.
func M(value float64, currency string) Money {
	return Money{value: decimal.NewFromFloat(value), cur: strings.ToUpper(currency)}
}

// ParseMoney reads an amount like "12000", "12,000.50" or "12000 EUR". The
// currency written in s wins over the default one.
func ParseMoney(s, currency string) (Money, error) {
	fields := strings.Fields(s)
	if len(fields) == 2 {
		s, currency = fields[0], fields[1]
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: v, cur: strings.ToUpper(currency)}, nil
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the amount formatted according to its currency.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Currency() string          { return m.cur }
func (m Money) Float64() float64          { return m.value.InexactFloat64() }
func (m Money) IsPositive() bool          { return m.value.IsPositive() }
func (m Money) Equal(n Money) bool        { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) Ratio(total Money) float64 { return m.value.Div(total.value).InexactFloat64() }

// Add returns m+n. Amounts in different currencies cannot be added.
func (m Money) Add(n Money) (Money, error) {
	if m.cur != "" && n.cur != "" && m.cur != n.cur {
		return Money{}, fmt.Errorf("cannot add %s to %s: %w", n, m, ErrCurrencyMismatch)
	}
	return Money{value: m.value.Add(n.value), cur: cur(m, n)}, nil
}

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	return a.cur
}
