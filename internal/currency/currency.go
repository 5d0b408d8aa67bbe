// Package currency converts between the stored base currency and the
// currency a user has chosen for display.
package currency

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ukydev/car-logbook/internal/apperror"
	"github.com/ukydev/car-logbook/internal/models"
)

type info struct {
	rate         float64 // units per one base unit
	symbol       string
	locale       language.Tag
	symbolBefore bool
}

// Exchange rates are fixed demonstration values relative to EUR.
var table = map[models.Currency]info{
	models.CurrencyEUR: {rate: 1, symbol: "€", locale: language.MustParse("de-DE")},
	models.CurrencyUSD: {rate: 1.1, symbol: "$", locale: language.MustParse("en-US"), symbolBefore: true},
	models.CurrencyBGN: {rate: 1.95583, symbol: "лв.", locale: language.MustParse("bg-BG")},
}

func lookup(c models.Currency) (info, error) {
	i, ok := table[c]
	if !ok {
		return info{}, apperror.ValidationFailed("currency", fmt.Sprintf("unsupported currency %q", c))
	}
	return i, nil
}

// Supported lists the currencies that can be selected.
func Supported() []models.Currency {
	return []models.Currency{models.CurrencyEUR, models.CurrencyUSD, models.CurrencyBGN}
}

// ToBase converts an amount entered in c into the base currency.
func ToBase(amount float64, c models.Currency) (float64, error) {
	i, err := lookup(c)
	if err != nil {
		return 0, err
	}
	return amount / i.rate, nil
}

// ToSelected converts a base-currency amount into c.
func ToSelected(baseAmount float64, c models.Currency) (float64, error) {
	i, err := lookup(c)
	if err != nil {
		return 0, err
	}
	return baseAmount * i.rate, nil
}

// Symbol returns the display symbol of c, or "" if c is unsupported.
func Symbol(c models.Currency) string {
	return table[c].symbol
}

// Format renders a base-currency amount in c using c's locale, always with
// two decimals, e.g. "$110.00" or "100,00 €".
func Format(baseAmount float64, c models.Currency) (string, error) {
	i, err := lookup(c)
	if err != nil {
		return "", err
	}
	p := message.NewPrinter(i.locale)
	amount := p.Sprint(number.Decimal(baseAmount*i.rate,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
	if i.symbolBefore {
		return i.symbol + amount, nil
	}
	return amount + " " + i.symbol, nil
}
