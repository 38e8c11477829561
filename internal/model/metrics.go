package model

// MonthLabels are the forecast month labels, January first.
var MonthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// RunwayInfinite is the runway sentinel reported for a profitable month.
const RunwayInfinite = 999

// MonthlyPoint holds the projection for one forecast month.
type MonthlyPoint struct {
	Month     string  `json:"month" yaml:"month"`
	Revenue   float64 `json:"revenue" yaml:"revenue"`
	Expenses  float64 `json:"expenses" yaml:"expenses"`
	NetIncome float64 `json:"netIncome" yaml:"net_income"`
	Runway    int     `json:"runway" yaml:"runway"`
}

// Profitable reports whether the month ends with positive net income.
func (p MonthlyPoint) Profitable() bool {
	return p.NetIncome > 0
}

// Breakdown is the profit and loss split of a scenario.
type Breakdown struct {
	Revenue       float64 `json:"revenue" yaml:"revenue"`
	FixedCosts    float64 `json:"fixedCosts" yaml:"fixed_costs"`
	VariableCosts float64 `json:"variableCosts" yaml:"variable_costs"`
}

// TotalCosts returns fixed plus variable costs.
func (b Breakdown) TotalCosts() float64 {
	return b.FixedCosts + b.VariableCosts
}

// Summary holds the headline figures shown next to a scenario.
type Summary struct {
	NetIncome   float64 `json:"netIncome" yaml:"net_income"`
	BurnRate    float64 `json:"burnRate" yaml:"burn_rate"`
	Profitable  bool    `json:"profitable" yaml:"profitable"`
	RunwayLabel string  `json:"runway" yaml:"runway"`
}

// ComparisonRow ranks one named scenario over the full forecast year.
type ComparisonRow struct {
	Name             string   `json:"name"`
	FilePath         string   `json:"filePath,omitempty"`
	Scenario         Scenario `json:"scenario"`
	AnnualRevenue    float64  `json:"annualRevenue"`
	AnnualExpenses   float64  `json:"annualExpenses"`
	AnnualNetIncome  float64  `json:"annualNetIncome"`
	ProfitableMonths int      `json:"profitableMonths"`
	// FirstLossMonth is -1 when every month is profitable.
	FirstLossMonth int `json:"firstLossMonth"`
}
