package main

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// defaultRubRate is the fixed V-Bucks to ruble rate. It is a constant of the
// product, not re-fetched from anywhere.
const defaultRubRate = 0.499

// ruPrinter renders numbers with Russian separators: grouped thousands and a
// comma before decimals.
var ruPrinter = message.NewPrinter(language.Russian) //nolint:gochecknoglobals

// Converter converts V-Bucks prices to rubles at a fixed rate and formats
// them for display.
type Converter struct {
	Rate float64
}

// NewConverter returns a converter at the product's fixed rate.
func NewConverter() Converter {
	return Converter{Rate: defaultRubRate}
}

// ToRubles converts a V-Bucks amount to rubles, rounded half-up (away from
// zero) to two decimal places.
func (c Converter) ToRubles(vbucks float64) float64 {
	return math.Round(vbucks*c.Rate*100) / 100
}

// FormatPrice renders a V-Bucks price with its ruble conversion, e.g.
// "1 800 V-Bucks (~898,20 ₽)".
func (c Converter) FormatPrice(vbucks int) string {
	return ruPrinter.Sprintf("%s V-Bucks (~%s ₽)",
		FormatVbucks(vbucks), FormatRubles(c.ToRubles(float64(vbucks))))
}

// FormatVbucks renders a V-Bucks amount with space-grouped thousands.
func FormatVbucks(vbucks int) string {
	return plainSpaces(ruPrinter.Sprintf("%d", vbucks))
}

// FormatRubles renders a ruble amount with two decimals and a comma separator.
func FormatRubles(rub float64) string {
	return plainSpaces(ruPrinter.Sprintf("%.2f", rub))
}

// FormatAverage renders a fractional V-Bucks amount with one decimal, used
// for the average price line in the stats view.
func FormatAverage(vbucks float64) string {
	return plainSpaces(ruPrinter.Sprintf("%.1f", vbucks))
}

// plainSpaces swaps the locale's no-break group separator for a regular
// space; Telegram clients render NBSP inconsistently.
func plainSpaces(s string) string {
	return strings.ReplaceAll(s, "\u00a0", " ")
}
