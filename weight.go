package exposure

import (
	"strings"

	"github.com/shopspring/decimal"
)

// fractionThreshold separates fraction columns (summing near 1) from
// percentage columns (summing near 100).
var fractionThreshold = decimal.RequireFromString("1.5")

var hundred = decimal.NewFromInt(100)

// parseWeight reads a weight cell such as "7.83", "7.83%" or "1,234.5".
// An empty cell is a zero weight.
func parseWeight(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer("%", "", ",", "").Replace(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// NormalizeWeights converts a weight column to the 0-100 percentage scale.
//
// A column summing to less than 1.5 is taken as fractions and multiplied by
// 100. A column already in percentages is returned unchanged, so that applying
// NormalizeWeights twice is harmless.
func NormalizeWeights(cells []string) ([]float64, error) {
	values := make([]decimal.Decimal, len(cells))
	sum := decimal.Zero
	for i, c := range cells {
		v, err := parseWeight(c)
		if err != nil {
			return nil, &WeightParseError{Row: i + 1, Value: c}
		}
		values[i] = v
		sum = sum.Add(v)
	}
	fractional := sum.LessThan(fractionThreshold)

	weights := make([]float64, len(values))
	for i, v := range values {
		if fractional {
			v = v.Mul(hundred)
		}
		weights[i] = v.InexactFloat64()
	}
	return weights, nil
}
