package exposure

import (
	"fmt"
	"strings"
)

// Field is a canonical holdings column.
type Field string

const (
	FieldISIN       Field = "isin"
	FieldName       Field = "name"
	FieldAssetClass Field = "asset_class"
	FieldCurrency   Field = "currency"
	FieldWeight     Field = "weight"
	FieldSector     Field = "sector"
	FieldCountry    Field = "country"
)

// ColumnRule describes how to find a canonical field among provider labels.
//
// A label matches when its lower case form contains one of the substrings.
// Candidates are tried for every field first; Fallbacks are only tried for
// fields that are still unresolved after that.
type ColumnRule struct {
	Field      Field
	Candidates []string
	Fallbacks  []string
}

// ColumnRules is the resolution order. Provider labels vary too much for exact
// matching, so the rules only ever look for substrings.
var ColumnRules = []ColumnRule{
	{Field: FieldISIN, Candidates: keyVariants(FieldISIN), Fallbacks: []string{"isin", "security id"}},
	{Field: FieldName, Candidates: keyVariants(FieldName), Fallbacks: []string{"name", "holding", "security"}},
	{Field: FieldAssetClass, Candidates: keyVariants(FieldAssetClass)},
	{Field: FieldCurrency, Candidates: keyVariants(FieldCurrency)},
	{Field: FieldWeight, Candidates: keyVariants(FieldWeight), Fallbacks: []string{"weight", "%"}},
	{Field: FieldSector, Candidates: keyVariants(FieldSector), Fallbacks: []string{"sector"}},
	{Field: FieldCountry, Candidates: keyVariants(FieldCountry), Fallbacks: []string{"country", "geography", "region"}},
}

// keyVariants returns the field key and, if different, the key with
// underscores replaced by spaces.
func keyVariants(f Field) []string {
	k := string(f)
	if spaced := strings.ReplaceAll(k, "_", " "); spaced != k {
		return []string{k, spaced}
	}
	return []string{k}
}

// ColumnMap maps canonical fields to the provider label that holds them.
type ColumnMap map[Field]string

// ResolveColumns applies ColumnRules to the labels, in their declared order.
// The first matching label wins for each field.
func ResolveColumns(labels []string) ColumnMap {
	return resolveColumns(ColumnRules, labels)
}

func resolveColumns(rules []ColumnRule, labels []string) ColumnMap {
	lower := make([]string, len(labels))
	for i, l := range labels {
		lower[i] = strings.ToLower(l)
	}
	m := make(ColumnMap)
	// generic pass, then fallbacks for what is left.
	for _, pass := range []func(ColumnRule) []string{
		func(r ColumnRule) []string { return r.Candidates },
		func(r ColumnRule) []string { return r.Fallbacks },
	} {
		for _, rule := range rules {
			if _, done := m[rule.Field]; done {
				continue
			}
			if label, ok := firstContaining(labels, lower, pass(rule)); ok {
				m[rule.Field] = label
			}
		}
	}
	return m
}

// firstContaining returns the first label whose lower case form contains any
// of the substrings.
func firstContaining(labels, lower, subs []string) (string, bool) {
	for i, l := range lower {
		for _, s := range subs {
			if strings.Contains(l, s) {
				return labels[i], true
			}
		}
	}
	return "", false
}

// Has tells whether the field was resolved.
func (m ColumnMap) Has(f Field) bool {
	_, ok := m[f]
	return ok
}

// Require checks that the fields without which a table is useless are present.
func (m ColumnMap) Require(labels []string) error {
	for _, f := range []Field{FieldName, FieldWeight} {
		if !m.Has(f) {
			return fmt.Errorf("%w: %q (columns: %q)", ErrMissingColumn, f, labels)
		}
	}
	return nil
}
