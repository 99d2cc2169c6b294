package core

// Summary aggregates all transactions of a date range in one pass.
type Summary struct {
	TotalIncome      Money `json:"total_income"`
	TotalExpenses    Money `json:"total_expenses"`
	Balance          Money `json:"balance"`
	TransactionCount int64 `json:"transaction_count"`
}

// CategoryTotal is the amount and count of matching transactions in one category.
type CategoryTotal struct {
	Category string `json:"category"`
	Color    string `json:"color"`
	Icon     string `json:"icon"`
	Total    Money  `json:"total"`
	Count    int64  `json:"count"`
}

// MonthTrend holds income and expense totals for a YYYY-MM bucket.
type MonthTrend struct {
	Month    string `json:"month"`
	Income   Money  `json:"income"`
	Expenses Money  `json:"expenses"`
}

// DefaultTrendMonths is the trailing window used when the caller gives none.
const DefaultTrendMonths = 6

// BudgetStatus compares a budget's limit with what has been spent against it.
type BudgetStatus struct {
	BudgetView
	Remaining Money `json:"remaining"`
	Over      bool  `json:"over"`
}

// StatusOf derives the remaining amount and over-limit flag of b.
func StatusOf(b BudgetView) BudgetStatus {
	remaining := b.Amount.Sub(b.Spent)
	return BudgetStatus{
		BudgetView: b,
		Remaining:  remaining,
		Over:       b.Spent.Cents > b.Amount.Cents,
	}
}

// UsedPercent is the share of the limit already spent, rounded to an integer.
func (b BudgetView) UsedPercent() int {
	if b.Amount.Cents <= 0 {
		return 0
	}
	return int((b.Spent.Cents*100 + b.Amount.Cents/2) / b.Amount.Cents)
}
