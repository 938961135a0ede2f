package models

// Plan is an account plan tier. Each tier carries two independent caps:
// the maximum number of own cards and the maximum number of saved
// references. The caps gate actions in the client only; the persistence
// layer does not enforce them.
type Plan string

const (
	PlanFree     Plan = "Free"
	PlanPro      Plan = "Pro"
	PlanPremium  Plan = "Premium"
	PlanUltimate Plan = "Ultimate"
)

type planLimits struct {
	maxCards     int
	maxSavedRefs int
}

var planCaps = map[Plan]planLimits{
	PlanFree:     {maxCards: 1, maxSavedRefs: 10},
	PlanPro:      {maxCards: 3, maxSavedRefs: 50},
	PlanPremium:  {maxCards: 10, maxSavedRefs: 200},
	PlanUltimate: {maxCards: 50, maxSavedRefs: 1000},
}

// Valid reports whether p is a known plan tier.
func (p Plan) Valid() bool { _, ok := planCaps[p]; return ok }

// MaxCards returns the maximum number of own cards for the tier.
// Unknown tiers fall back to the Free caps.
func (p Plan) MaxCards() int {
	if l, ok := planCaps[p]; ok {
		return l.maxCards
	}
	return planCaps[PlanFree].maxCards
}

// MaxSavedRefs returns the maximum number of saved references for the tier.
// Unknown tiers fall back to the Free caps.
func (p Plan) MaxSavedRefs() int {
	if l, ok := planCaps[p]; ok {
		return l.maxSavedRefs
	}
	return planCaps[PlanFree].maxSavedRefs
}
