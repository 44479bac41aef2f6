package exposure

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed themes/*.toml
var themes embed.FS

// Theme presets shipped with the binary.
const (
	ThemeETF       = "etf"       // categorised, name only
	ThemePortfolio = "portfolio" // names and sectors
)

// ThemeRule flags a holding when one of its Fields contains one of the
// Keywords, case-insensitively.
type ThemeRule struct {
	Category string   `toml:"category"`
	Fields   []Field  `toml:"fields"`
	Keywords []string `toml:"keywords"`
}

// Theme is a keyword classification, such as "AI related holdings". Rules are
// evaluated in order.
type Theme struct {
	Name  string      `toml:"name"`
	Rules []ThemeRule `toml:"rule"`
}

// DecodeTheme reads a theme from its TOML form.
func DecodeTheme(data []byte) (*Theme, error) {
	var t Theme
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}
	for i, r := range t.Rules {
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("invalid theme: rule %d has no keywords", i)
		}
		if slices.Contains(r.Keywords, "") {
			return nil, fmt.Errorf("invalid theme: rule %d has an empty keyword", i)
		}
		if len(r.Fields) == 0 {
			t.Rules[i].Fields = []Field{FieldName}
		}
		for _, f := range t.Rules[i].Fields {
			if f != FieldName && f != FieldSector {
				return nil, fmt.Errorf("invalid theme: rule %d: cannot match on %q", i, f)
			}
		}
	}
	if t.Name == "" {
		t.Name = "theme"
	}
	return &t, nil
}

// LoadTheme returns a preset by name, or reads a TOML file when name is a path.
func LoadTheme(name string) (*Theme, error) {
	data, err := themes.ReadFile("themes/" + name + ".toml")
	if err != nil {
		data, err = os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("theme %q not found: %w", name, err)
		}
	}
	return DecodeTheme(data)
}

// Match returns the category of the first rule the holding matches.
func (t *Theme) Match(name, sector string) (string, bool) {
	if t == nil {
		return "", false
	}
	values := map[Field]string{
		FieldName:   strings.ToLower(name),
		FieldSector: strings.ToLower(sector),
	}
	for _, r := range t.Rules {
		for _, f := range r.Fields {
			v := values[f]
			if v == "" {
				continue
			}
			if slices.ContainsFunc(r.Keywords, func(kw string) bool {
				return strings.Contains(v, strings.ToLower(kw))
			}) {
				return r.Category, true
			}
		}
	}
	return "", false
}

// Flag tells whether the holding belongs to the theme.
func (t *Theme) Flag(name, sector string) bool {
	_, ok := t.Match(name, sector)
	return ok
}
