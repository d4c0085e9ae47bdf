package core

// WindowSummary is a trailing-window aggregate with its full row list.
type WindowSummary struct {
	Total        Money                   `json:"total"`
	Transactions []NormalizedTransaction `json:"transactions"`
}

// Dashboard is the per-user financial snapshot.
type Dashboard struct {
	TotalBalance       Money                   `json:"totalBalance"`
	TotalIncome        Money                   `json:"totalIncome"`
	TotalExpense       Money                   `json:"totalExpense"`
	Last30DaysExpenses WindowSummary           `json:"last30DaysExpenses"`
	Last60DaysIncome   WindowSummary           `json:"last60DaysIncome"`
	RecentTransactions []NormalizedTransaction `json:"recentTransactions"`
}
