package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCoercePrice(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"float", 99.5, "99.5"},
		{"int", 100, "100"},
		{"numeric string", "42.75", "42.75"},
		{"json number", json.Number("12.3"), "12.3"},
		{"garbage string", "abc", "0"},
		{"nil", nil, "0"},
		{"negative", -5.0, "0"},
		{"bool", true, "0"},
		{"empty string", "", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoercePrice(tt.in)
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("CoercePrice(%v) = %s, want %s", tt.in, got, want)
			}
		})
	}
}
