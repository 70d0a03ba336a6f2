package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// priceCleaner strips currency markers and thousands separators from a
// storefront display price. "Rs." must precede "Rs" so the longer marker wins.
var priceCleaner = strings.NewReplacer(",", "", " ", "", "₹", "", "Rs.", "", "Rs", "")

// ParsePrice converts a display price such as "1,200" or "Rs. 850.50" into
// paise. Totals are summed in integer paise so checkout math has no float
// accumulation.
func ParsePrice(s string) (int64, error) {
	cleaned := priceCleaner.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, fmt.Errorf("empty price")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative price %q", s)
	}

	return int64(math.Round(value * 100)), nil
}

// FormatAmount renders paise as a printable rupee amount.
func FormatAmount(paise int64) string {
	return fmt.Sprintf("Rs %.2f", float64(paise)/100)
}
