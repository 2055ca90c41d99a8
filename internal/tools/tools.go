package tools

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"
)

var _suffixMultipliers = map[byte]decimal.Decimal{
	'K': decimal.New(1, 3),
	'M': decimal.New(1, 6),
	'B': decimal.New(1, 9),
	'T': decimal.New(1, 12),
}

// FormatDecimal renders d rounded to places with thousands separators: 1234.5 -> "1,234.50".
func FormatDecimal(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if hasFrac {
		return sign + b.String() + "." + fracPart
	}
	return sign + b.String()
}

// ParseSuffixedNumber parses numbers such as "1.2B", "350M" or "12,345".
func ParseSuffixedNumber(raw string) (decimal.Decimal, error) {
	s := strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(raw, ",", "")))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty number")
	}

	multiplier := decimal.NewFromInt(1)
	if m, ok := _suffixMultipliers[s[len(s)-1]]; ok {
		multiplier = m
		s = s[:len(s)-1]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: can't parse %q", err, raw)
	}
	return d.Mul(multiplier), nil
}

// EscapeHTML makes arbitrary upstream text safe to interpolate into HTML formatted messages.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// StripMarkup drops angle brackets so error texts can't break HTML formatting.
func StripMarkup(s string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(s)
}
