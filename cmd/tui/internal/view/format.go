package view

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders the magnitude of an amount as dollars with grouping,
// e.g. "$1,234.50".
func FormatAmount(amount float64) string {
	return printer.Sprintf("$%v", number.Decimal(math.Abs(amount),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatSigned keeps the sign, e.g. "-$4.50" for an expense.
func FormatSigned(amount float64) string {
	if amount < 0 {
		return "-" + FormatAmount(amount)
	}

	return FormatAmount(amount)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
