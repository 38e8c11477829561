package pipeline

import (
	"sort"

	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/model"
)

// Compare projects every scenario over the forecast year and ranks them by
// annual net income, best first. Ties are broken by name.
func Compare(scenarios []model.NamedScenario) []model.ComparisonRow {
	rows := make([]model.ComparisonRow, 0, len(scenarios))
	for _, ns := range scenarios {
		rows = append(rows, compareOne(ns))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].AnnualNetIncome != rows[j].AnnualNetIncome {
			return rows[i].AnnualNetIncome > rows[j].AnnualNetIncome
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

func compareOne(ns model.NamedScenario) model.ComparisonRow {
	row := model.ComparisonRow{
		Name:           ns.Name,
		FilePath:       ns.FilePath,
		Scenario:       ns.Scenario,
		FirstLossMonth: -1,
	}
	for i, p := range forecast.ProjectMonths(ns.Scenario) {
		row.AnnualRevenue += p.Revenue
		row.AnnualExpenses += p.Expenses
		row.AnnualNetIncome += p.NetIncome
		if p.Profitable() {
			row.ProfitableMonths++
		} else if row.FirstLossMonth < 0 {
			row.FirstLossMonth = i
		}
	}
	return row
}
