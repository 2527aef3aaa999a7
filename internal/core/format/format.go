// Package format holds the date and money formatting used by the pages.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ReturnFormDate renders "2 March 2024".
func ReturnFormDate(t time.Time) string {
	return t.Format("2 January 2006")
}

// FilterDate renders year, month and day joined by sep, zero padded.
func FilterDate(t time.Time, sep string) string {
	return fmt.Sprintf("%04d%s%02d%s%02d", t.Year(), sep, int(t.Month()), sep, t.Day())
}

// DiffDays is the number of whole days from b to a, rounded down.
func DiffDays(a, b time.Time) int {
	return int(math.Floor(a.Sub(b).Hours() / 24))
}

// DateTime is the admin table timestamp format.
func DateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

var printer = message.NewPrinter(language.English)

// Money formats an amount in cents for the ISO currency code, e.g.
// "USD 12.34". Unknown codes fall back to the bare amount.
func Money(cents int, code string) string {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return fmt.Sprintf("%.2f", float64(cents)/100)
	}
	return printer.Sprint(unit.Amount(float64(cents) / 100))
}
