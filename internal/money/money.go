// Package money parses the amount formats found in Brazilian bank exports.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a raw statement amount into a non-negative magnitude
// plus a negative flag. It accepts pt-BR formatted values ("1.234.567,89",
// "-260,00") as well as plain dot decimals as emitted by OFX TRNAMT fields.
// When a comma is present, dots are treated as thousands separators.
func ParseAmount(raw string) (decimal.Decimal, bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false, fmt.Errorf("empty amount")
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimPrefix(s, "R$")

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "+")

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	if d.IsNegative() {
		negative = true
		d = d.Abs()
	}
	return d, negative, nil
}
