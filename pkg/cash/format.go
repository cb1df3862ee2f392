package cash

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BritishEnglish)

// FormatAmount renders a minor-unit amount as a pound sterling string.
func FormatAmount(minor int) string {
	return printer.Sprint(currency.Symbol(currency.GBP.Amount(float64(minor) / 100)))
}
