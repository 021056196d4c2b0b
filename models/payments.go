package models

// StripeConfig is the publishable Stripe configuration
type StripeConfig struct {
	PublishableKey string `json:"publishableKey"`
	IsConfigured   bool   `json:"isConfigured"`
}

// Plan is a purchasable membership plan
type Plan struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Duration  *int     `json:"duration,omitempty"` // days, nil = lifetime
	Features  []string `json:"features,omitempty"`
	IsPopular bool     `json:"isPopular"`
}

// SubscriptionStatus is the viewer's current membership
type SubscriptionStatus struct {
	Status           string `json:"status"`
	PlanID           string `json:"planId,omitempty"`
	CurrentPeriodEnd string `json:"currentPeriodEnd,omitempty"`
	IsActive         bool   `json:"isActive"`
}

// ClientToken is a Braintree client token
type ClientToken struct {
	ClientToken string `json:"clientToken"`
}
