package model

import "github.com/shopspring/decimal"

// Balance is the dashboard snapshot for one user at one instant.
type Balance struct {
	Total                    decimal.Decimal `json:"total"`
	Income                   decimal.Decimal `json:"income"`
	Expenses                 decimal.Decimal `json:"expenses"`
	Savings                  decimal.Decimal `json:"savings"`
	TotalIncome              decimal.Decimal `json:"totalIncome"`
	TotalExpenses            decimal.Decimal `json:"totalExpenses"`
	TotalSavings             decimal.Decimal `json:"totalSavings"`
	IncomePercentageChange   decimal.Decimal `json:"incomePercentageChange"`
	ExpensesPercentageChange decimal.Decimal `json:"expensesPercentageChange"`
	SavingsPercentageChange  decimal.Decimal `json:"savingsPercentageChange"`
	TransactionCount         int             `json:"transactionCount"`
}
