package exposure

import (
	"errors"
	"testing"
)

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   ColumnMap
	}{
		{
			name:   "common provider headers",
			labels: []string{"Security Name", "Weight (%)", "Sector"},
			want:   ColumnMap{FieldName: "Security Name", FieldWeight: "Weight (%)", FieldSector: "Sector"},
		},
		{
			name:   "full ishares like headers",
			labels: []string{"Ticker", "Name", "Sector", "Asset Class", "Market Value", "Weight (%)", "ISIN", "Location", "Currency"},
			want: ColumnMap{
				FieldName:       "Name",
				FieldSector:     "Sector",
				FieldAssetClass: "Asset Class",
				FieldWeight:     "Weight (%)",
				FieldISIN:       "ISIN",
				FieldCurrency:   "Currency",
			},
		},
		{
			name:   "fallbacks",
			labels: []string{"Holding", "% of fund", "Security ID", "Geography"},
			want:   ColumnMap{FieldName: "Holding", FieldWeight: "% of fund", FieldISIN: "Security ID", FieldCountry: "Geography"},
		},
		{
			name:   "first label in declared order wins",
			labels: []string{"Issuer Name", "Security Name", "Weight", "Weight Change"},
			want:   ColumnMap{FieldName: "Issuer Name", FieldWeight: "Weight"},
		},
		{
			name:   "underscore keys match spaced labels",
			labels: []string{"name", "weight", "ASSET CLASS"},
			want:   ColumnMap{FieldName: "name", FieldWeight: "weight", FieldAssetClass: "ASSET CLASS"},
		},
		{
			name:   "region is a country fallback",
			labels: []string{"Name", "Weight", "Region"},
			want:   ColumnMap{FieldName: "Name", FieldWeight: "Weight", FieldCountry: "Region"},
		},
		{
			name:   "substring matching is loose",
			labels: []string{"Fund Name", "Portfolio Weight", "Sub-Sector"},
			want:   ColumnMap{FieldName: "Fund Name", FieldWeight: "Portfolio Weight", FieldSector: "Sub-Sector"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveColumns(tt.labels)
			if len(got) != len(tt.want) {
				t.Errorf("ResolveColumns(%q) = %v, want %v", tt.labels, got, tt.want)
			}
			for f, label := range tt.want {
				if got[f] != label {
					t.Errorf("ResolveColumns(%q)[%s] = %q, want %q", tt.labels, f, got[f], label)
				}
			}
		})
	}
}

func TestColumnMap_Require(t *testing.T) {
	tests := []struct {
		labels  []string
		wantErr bool
	}{
		{[]string{"Name", "Weight"}, false},
		{[]string{"Name", "Market Value"}, true},
		{[]string{"Ticker", "Weight"}, true},
		{nil, true},
	}
	for _, tt := range tests {
		err := ResolveColumns(tt.labels).Require(tt.labels)
		if (err != nil) != tt.wantErr {
			t.Errorf("Require(%q) error = %v, wantErr %v", tt.labels, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrMissingColumn) {
			t.Errorf("Require(%q) error = %v, want ErrMissingColumn", tt.labels, err)
		}
	}
}
