package ui

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// moneyFormatter renders estimated values in the operator's currency and
// locale, e.g. "Rp 1.500.000" for IDR in Indonesian.
type moneyFormatter struct {
	printer *message.Printer
	symbol  string
	scale   int
}

func newMoneyFormatter(unit currency.Unit, tag language.Tag) moneyFormatter {
	p := message.NewPrinter(tag)
	scale, _ := currency.Standard.Rounding(unit)
	return moneyFormatter{
		printer: p,
		symbol:  p.Sprint(currency.Symbol(unit)),
		scale:   scale,
	}
}

// Format renders v. Whole amounts drop the fraction digits.
func (f moneyFormatter) Format(v float64) string {
	if f.printer == nil {
		f = newMoneyFormatter(currency.IDR, language.Indonesian)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return f.printer.Sprintf("%s %d", f.symbol, int64(v))
	}
	return f.printer.Sprintf("%s %.*f", f.symbol, f.scale, v)
}
