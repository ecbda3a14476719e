package stats

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const maxFractionDigits = 6

var printer = message.NewPrinter(language.English)

// FormatNumber renders v with English thousands separators, keeping every
// significant fraction digit and no trailing zeros.
func FormatNumber(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(fractionDigits(v))))
}

// fractionDigits is the number of digits after the point in the shortest
// representation of v, capped at maxFractionDigits.
func fractionDigits(v float64) int {
	_, frac, ok := strings.Cut(strconv.FormatFloat(v, 'f', -1, 64), ".")
	if !ok {
		return 0
	}

	return min(len(frac), maxFractionDigits)
}

// FormatTrillions renders a gdp total given in billions as "$X.XXT".
func FormatTrillions(billions float64) string {
	return "$" + FormatNumber(Round(billions/1000, 2)) + "T"
}

// FormatGrowth renders a growth rate with one decimal, or N/A.
func FormatGrowth(v float64, ok bool) string {
	if !ok {
		return "N/A"
	}

	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}
