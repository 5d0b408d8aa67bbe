package subscription

import "github.com/ukydev/car-logbook/internal/models"

// Plan is a purchasable tier in one currency.
type Plan struct {
	ID       models.Tier     `json:"id"`
	Name     string          `json:"name"`
	Price    float64         `json:"price"`
	Currency models.Currency `json:"currency"`
	Interval string          `json:"interval"`
	Features []string        `json:"features"`
	Popular  bool            `json:"popular,omitempty"`
}

var (
	basicPlanFeatures = []string{
		"Track up to 5 services",
		"Basic service history",
		"Manual data entry",
		"Email support",
	}
	proPlanFeatures = []string{
		"Unlimited service tracking",
		"AI-powered diagnostics",
		"Smart maintenance reminders",
		"Advanced analytics",
		"Priority support",
		"Data export",
	}
	premiumPlanFeatures = []string{
		"Everything in Pro",
		"Multi-vehicle support",
		"Custom maintenance schedules",
		"Integration with service centers",
		"Dedicated account manager",
		"White-label options",
	}
)

func catalogue(c models.Currency, pro, premium float64) []Plan {
	return []Plan{
		{ID: models.TierBasic, Name: "Basic", Price: 0, Currency: c, Interval: "month", Features: basicPlanFeatures},
		{ID: models.TierPro, Name: "Pro", Price: pro, Currency: c, Interval: "month", Features: proPlanFeatures, Popular: true},
		{ID: models.TierPremium, Name: "Premium", Price: premium, Currency: c, Interval: "month", Features: premiumPlanFeatures},
	}
}

var plans = map[models.Currency][]Plan{
	models.CurrencyUSD: catalogue(models.CurrencyUSD, 9.99, 19.99),
	models.CurrencyEUR: catalogue(models.CurrencyEUR, 8.59, 17.19),
}

// Plans returns the plan catalogue priced in c, falling back to USD for
// currencies without their own price list.
func Plans(c models.Currency) []Plan {
	list, ok := plans[c]
	if !ok {
		list = plans[models.CurrencyUSD]
	}
	return append([]Plan(nil), list...)
}

// CurrentPlan returns the plan matching the user's tier in c.
func CurrentPlan(user models.User, c models.Currency) Plan {
	list := Plans(c)
	for _, p := range list {
		if p.ID == user.Tier() {
			return p
		}
	}
	return list[0]
}
