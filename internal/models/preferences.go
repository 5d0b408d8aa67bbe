package models

// Currency is an ISO 4217 code supported by the logbook.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyBGN Currency = "BGN"
)

// IsValidCurrency reports whether c has an exchange rate.
func IsValidCurrency(c Currency) bool {
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyBGN:
		return true
	default:
		return false
	}
}

// BaseCurrency is the currency every stored cost is expressed in.
const BaseCurrency = CurrencyEUR

// DefaultCurrency is shown until the user picks another one.
const DefaultCurrency = CurrencyUSD

// Language is a UI language code.
type Language string

const (
	LanguageEN Language = "en"
	LanguageBG Language = "bg"
	LanguageES Language = "es"
	LanguageDE Language = "de"
	LanguageFR Language = "fr"
)

const DefaultLanguage = LanguageEN

// IsValidLanguage reports whether lang has a translation.
func IsValidLanguage(lang Language) bool {
	switch lang {
	case LanguageEN, LanguageBG, LanguageES, LanguageDE, LanguageFR:
		return true
	default:
		return false
	}
}

// Preferences are the per-device display settings.
type Preferences struct {
	Currency Currency `json:"currency"`
	Language Language `json:"language"`
}
