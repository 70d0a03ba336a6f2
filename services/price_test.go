package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aishwaryacollections/storefront/services"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input string
		paise int64
	}{
		{"1200", 120000},
		{"1,200", 120000},
		{"12,34,567", 123456700}, // Indian grouping
		{"850.50", 85050},
		{"₹ 999", 99900},
		{"Rs. 499", 49900},
		{"Rs 2,499", 249900},
		{"  750  ", 75000},
		{"0", 0},
	}

	for _, tt := range tests {
		got, err := services.ParsePrice(tt.input)
		assert.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.paise, got, "input %q", tt.input)
	}
}

func TestParsePrice_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "-100", "Rs."} {
		_, err := services.ParsePrice(input)
		assert.Error(t, err, "input %q", input)
	}
}

// A cart of "1,200" and "850" totals 2050 rupees exactly.
func TestParsePrice_CartTotal(t *testing.T) {
	a, err := services.ParsePrice("1,200")
	assert.NoError(t, err)
	b, err := services.ParsePrice("850")
	assert.NoError(t, err)
	assert.Equal(t, int64(205000), a+b)
	assert.Equal(t, "Rs 2050.00", services.FormatAmount(a+b))
}
