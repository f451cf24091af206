// Package money formats VND amounts for display.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Symbol is appended to every formatted amount.
const Symbol = "₫"

var printer = message.NewPrinter(language.Vietnamese)

// FormatVND renders an amount with Vietnamese digit grouping, e.g.
// 1960000 becomes "1.960.000₫".
func FormatVND(amount int64) string {
	return printer.Sprintf("%d", amount) + Symbol
}
