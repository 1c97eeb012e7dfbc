package bot

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with two decimals, thousand separators and its currency code
func FormatMoney(amount decimal.Decimal, currency string) string {
	formatted := groupThousands(amount.Abs().StringFixed(2))
	if amount.IsNegative() {
		formatted = "-" + formatted
	}
	if currency == "" {
		return formatted
	}
	return currency + " " + formatted
}

// FormatSignedMoney is FormatMoney with an explicit plus sign for gains
func FormatSignedMoney(amount decimal.Decimal, currency string) string {
	if amount.IsPositive() {
		return "+" + FormatMoney(amount, currency)
	}
	return FormatMoney(amount, currency)
}

// groupThousands adds commas to the integer part of a fixed-point number
func groupThousands(fixed string) string {
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	n := len(intPart)
	if n <= 3 {
		return fixed
	}

	var result strings.Builder
	for i, digit := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	if fracPart != "" {
		result.WriteString(".")
		result.WriteString(fracPart)
	}
	return result.String()
}
