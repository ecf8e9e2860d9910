package recap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanValue(t *testing.T) {
	tests := []struct {
		name     string
		termType string
		value    string
		want     string
	}{
		{"vessel prefix stripped", "vessel", "MV OCEAN STAR", "OCEAN STAR"},
		{"vessel slash prefix stripped", "vessel", "M/V PACIFIC GLORY", "PACIFIC GLORY"},
		{"vessel trailing particulars cut", "vessel", "OCEAN STAR EX-NAME SEA QUEEN", "OCEAN STAR"},
		{"built year extracted", "built", "in 2015 at Imabari", "2015"},
		{"quantity number with unit", "quantity", "about 50,000 MT more or less", "50,000 MT"},
		{"dwt bare number", "dwt", "82,000 approx", "82,000"},
		{"freight rate kept intact", "freight", "USD 25.50 per mt", "USD 25.50 per mt"},
		{"demurrage keeps comma grouping", "demurrage", "USD 15,000", "USD 15,000"},
		{"port cut at comma", "discharge_port", "Rotterdam, Netherlands", "Rotterdam"},
		{"port cut at to", "load_port", "Santos to Qingdao", "Santos"},
		{"company cut at comma", "owner", "Pacific Carriers Ltd, Singapore", "Pacific Carriers Ltd"},
		{"leading separator trimmed", "cargo", ": Iron Ore", "Iron Ore"},
		{"whitespace collapsed", "cargo", "Iron   Ore", "Iron Ore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanValue(tt.termType, tt.value))
		})
	}
}

func TestIsValidValue(t *testing.T) {
	tests := []struct {
		name     string
		termType string
		value    string
		want     bool
	}{
		{"vessel with letters", "vessel", "OCEAN STAR", true},
		{"vessel punctuation only", "vessel", ":- ", false},
		{"vessel generic word", "vessel", "details", false},
		{"vessel numbers only", "vessel", "12345", false},
		{"built valid year", "built", "2015", true},
		{"built not a year", "built", "abcd", false},
		{"quantity numeric", "quantity", "50,000 MT", true},
		{"quantity numbers only allowed", "quantity", "50000", true},
		{"port needs letters", "load_port", "Rotterdam", true},
		{"too short", "cargo", "ab", false},
		{"article rejected", "owner", "the", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isValidValue(tt.termType, tt.value))
		})
	}
}
