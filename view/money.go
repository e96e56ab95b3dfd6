package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const DefaultCurrency = "TRY"

// FormatMinor renders an amount held in minor units (kuruş, cents).
func FormatMinor(minor int64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	sign := ""
	abs := uint64(minor)
	if minor < 0 {
		sign = "-"
		abs = uint64(-(minor + 1)) + 1
	}
	whole := abs / 100
	frac := abs % 100

	if strings.EqualFold(currency, "TRY") {
		return fmt.Sprintf("%s%s,%02d ₺", sign, group(whole, "."), frac)
	}
	return fmt.Sprintf("%s %s%s.%02d", strings.ToUpper(currency), sign, group(whole, ","), frac)
}

func group(n uint64, sep string) string {
	digits := strconv.FormatUint(n, 10)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseMinor reads "12", "12.5" or "12,50" into minor units.
func ParseMinor(input string) (int64, error) {
	value := strings.TrimSpace(input)
	if value == "" {
		return 0, fmt.Errorf("amount is required")
	}
	negative := strings.HasPrefix(value, "-")
	value = strings.TrimPrefix(value, "-")
	value = strings.ReplaceAll(value, ",", ".")

	whole, frac, hasFrac := strings.Cut(value, ".")
	if !isDigits(whole) || (hasFrac && !isDigits(frac)) || len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q", input)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", input)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", input)
	}
	if units > (math.MaxInt64-cents)/100 {
		return 0, fmt.Errorf("invalid amount %q", input)
	}
	total := units*100 + cents
	if negative {
		total = -total
	}
	return total, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
