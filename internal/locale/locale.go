// Package locale converts Brazilian-formatted text (currency, decimal comma,
// distances with unit) to numbers and back.
package locale

import (
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/tabula-cli/internal/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is rendered for missing values.
const Placeholder = "—"

// CurrencyMarker is stripped from the front of amounts.
const CurrencyMarker = "R$"

// DistanceUnit is stripped from the end of distances (case-insensitive).
const DistanceUnit = "km"

var printer = message.NewPrinter(language.BrazilianPortuguese)

// ParseCurrency parses values like "R$ 1.234,56". Float inputs pass through.
// Anything unparseable yields a missing value.
func ParseCurrency(v table.Value) table.OptFloat {
	if f, ok := numeric(v); ok {
		return f
	}
	s, ok := v.(string)
	if !ok {
		return table.None
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, CurrencyMarker)
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return parseFloat(s)
}

// ParseDistance parses values like "12,5 km". The thousands separator is not
// stripped, so "1.234,5 km" is missing.
func ParseDistance(v table.Value) table.OptFloat {
	if f, ok := numeric(v); ok {
		return f
	}
	s, ok := v.(string)
	if !ok {
		return table.None
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, DistanceUnit)
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	return parseFloat(s)
}

func numeric(v table.Value) (table.OptFloat, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return table.None, true
		}
		return table.Some(x), true
	case int:
		return table.Some(float64(x)), true
	case int64:
		return table.Some(float64(x)), true
	}
	return table.None, false
}

func parseFloat(s string) table.OptFloat {
	if s == "" {
		return table.None
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return table.None
	}
	return table.Some(f)
}

// FormatNumber renders v with '.' grouping and ',' decimals at fixed precision.
func FormatNumber(v table.OptFloat, decimals int) string {
	if !v.Valid {
		return Placeholder
	}
	return printer.Sprintf("%v", number.Decimal(v.V, number.Scale(decimals)))
}

// FormatCurrency renders an amount with 2 decimals, without the marker.
func FormatCurrency(v table.OptFloat) string { return FormatNumber(v, 2) }

// FormatDistance renders a distance with 1 decimal.
func FormatDistance(v table.OptFloat) string { return FormatNumber(v, 1) }

// FormatCount renders an integer with '.' grouping.
func FormatCount(n int) string { return printer.Sprintf("%d", n) }

// FormatPercent renders a percentage with one decimal, e.g. "66,7%".
func FormatPercent(p float64) string {
	return FormatNumber(table.Some(p), 1) + "%"
}
