package subscription

import "github.com/ukydev/car-logbook/internal/models"

// Feature names a gated capability.
type Feature string

const (
	FeatureBasicTracking   Feature = "basic_tracking"
	FeatureManualEntry     Feature = "manual_entry"
	FeatureAIDiagnostics   Feature = "ai_diagnostics"
	FeatureSmartReminders  Feature = "smart_reminders"
	FeatureAnalytics       Feature = "analytics"
	FeatureExport          Feature = "export"
	FeatureMultiVehicle    Feature = "multi_vehicle"
	FeatureCustomSchedules Feature = "custom_schedules"
	FeatureIntegrations    Feature = "integrations"
)

// Unlimited marks a limit that does not apply.
const Unlimited = -1

// Limits caps what a tier may store.
type Limits struct {
	MaxServices int `json:"maxServices"`
	MaxVehicles int `json:"maxVehicles"`
}

type tierSpec struct {
	features []Feature
	limits   Limits
}

var (
	basicFeatures   = []Feature{FeatureBasicTracking, FeatureManualEntry}
	proFeatures     = append(append([]Feature{}, basicFeatures...), FeatureAIDiagnostics, FeatureSmartReminders, FeatureAnalytics, FeatureExport)
	premiumFeatures = append(append([]Feature{}, proFeatures...), FeatureMultiVehicle, FeatureCustomSchedules, FeatureIntegrations)
)

var tiers = map[models.Tier]tierSpec{
	models.TierBasic:   {features: basicFeatures, limits: Limits{MaxServices: 5, MaxVehicles: 1}},
	models.TierPro:     {features: proFeatures, limits: Limits{MaxServices: Unlimited, MaxVehicles: 1}},
	models.TierPremium: {features: premiumFeatures, limits: Limits{MaxServices: Unlimited, MaxVehicles: Unlimited}},
}

// HasFeatureAccess reports whether the user's tier includes feature. Users
// without a tier are treated as basic; unknown tiers have no access.
func HasFeatureAccess(user models.User, feature Feature) bool {
	spec, ok := tiers[user.Tier()]
	if !ok {
		return false
	}
	for _, f := range spec.features {
		if f == feature {
			return true
		}
	}
	return false
}

// Features returns the features of tier in ascending tier order.
func Features(tier models.Tier) []Feature {
	return append([]Feature(nil), tiers[tier].features...)
}

// UsageLimits returns the storage caps of the user's tier. Unknown tiers get
// the basic limits.
func UsageLimits(user models.User) Limits {
	if spec, ok := tiers[user.Tier()]; ok {
		return spec.limits
	}
	return tiers[models.TierBasic].limits
}

// CanAddService reports whether a user already holding count services may
// log another one.
func CanAddService(user models.User, count int) bool {
	limit := UsageLimits(user).MaxServices
	return limit == Unlimited || count < limit
}
