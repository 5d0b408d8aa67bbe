package db

import (
	"context"

	"github.com/ukydev/car-logbook/internal/models"
)

// StorePreferenceCollection keeps preferences as bare strings under
// CurrencyKey and LanguageKey. Unknown stored values read back as defaults.
type StorePreferenceCollection struct {
	Store Store
}

func (c *StorePreferenceCollection) GetPreferences(ctx context.Context) (models.Preferences, error) {
	prefs := models.Preferences{
		Currency: models.DefaultCurrency,
		Language: models.DefaultLanguage,
	}

	raw, err := c.Store.Get(ctx, CurrencyKey)
	if err != nil {
		return prefs, err
	}
	if cur := models.Currency(raw); models.IsValidCurrency(cur) {
		prefs.Currency = cur
	}

	raw, err = c.Store.Get(ctx, LanguageKey)
	if err != nil {
		return prefs, err
	}
	if lang := models.Language(raw); models.IsValidLanguage(lang) {
		prefs.Language = lang
	}
	return prefs, nil
}

func (c *StorePreferenceCollection) SetCurrency(ctx context.Context, currency models.Currency) error {
	return c.Store.Set(ctx, CurrencyKey, []byte(currency))
}

func (c *StorePreferenceCollection) SetLanguage(ctx context.Context, lang models.Language) error {
	return c.Store.Set(ctx, LanguageKey, []byte(lang))
}
