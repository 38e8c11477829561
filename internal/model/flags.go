package model

// Flag is a qualitative recommendation raised for a scenario.
type Flag string

// Recommendation flags, in evaluation order.
const (
	FlagCashFlowWarning Flag = "CASH_FLOW_WARNING"
	FlagHighHiringRate  Flag = "HIGH_HIRING_RATE"
	FlagPricingTooLow   Flag = "PRICING_TOO_LOW"
	FlagHealthyPosition Flag = "HEALTHY_POSITION"
)

// Title returns the short heading for a flag.
func (f Flag) Title() string {
	switch f {
	case FlagCashFlowWarning:
		return "Cash Flow Warning"
	case FlagHighHiringRate:
		return "High Hiring Rate"
	case FlagPricingTooLow:
		return "Pricing Opportunity"
	case FlagHealthyPosition:
		return "Healthy Position"
	}
	return string(f)
}

// Message returns the advice text for a flag.
func (f Flag) Message() string {
	switch f {
	case FlagCashFlowWarning:
		return "Current expenses exceed revenue. Consider reducing costs or increasing pricing."
	case FlagHighHiringRate:
		return "Rapid hiring may strain cash flow. Ensure adequate runway for new hires."
	case FlagPricingTooLow:
		return "Consider testing higher pricing tiers to improve profit margins."
	case FlagHealthyPosition:
		return "Strong profit margins provide flexibility for growth investments."
	}
	return ""
}

// Warning reports whether the flag signals a problem.
func (f Flag) Warning() bool {
	return f == FlagCashFlowWarning || f == FlagHighHiringRate
}

// Recommendation pairs a flag with its text for serialization.
type Recommendation struct {
	Code    Flag   `json:"code" yaml:"code"`
	Title   string `json:"title" yaml:"title"`
	Message string `json:"message" yaml:"message"`
}
