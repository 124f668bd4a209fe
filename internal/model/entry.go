package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryKindIncome  EntryKind = "income"
	EntryKindExpense EntryKind = "expense"
	EntryKindSavings EntryKind = "savings"
)

// Categories offered by the client. The backend stores any non-empty label.
var (
	IncomeCategories  = []string{"Salary", "Business Income", "Gift", "Freelancing", "Rental Income", "Other"}
	ExpenseCategories = []string{"Education", "Loan EMI", "Utilities", "Food", "Transportation", "Other"}
)

// Entry is one income or expense row. Both tables share this shape.
type Entry struct {
	ID        string          `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"user_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Source    string          `db:"source" json:"entity"`
	Category  string          `db:"category" json:"category"`
	Date      Date            `db:"transaction_date" json:"date"`
	Time      Clock           `db:"transaction_time" json:"time"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// LedgerRow is a row of the merged income/expense/savings feed.
type LedgerRow struct {
	ID        string          `db:"id" json:"id"`
	Type      EntryKind       `db:"type" json:"type"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Source    string          `db:"source" json:"entity"`
	Category  string          `db:"category" json:"category"`
	Date      Date            `db:"transaction_date" json:"date"`
	Time      Clock           `db:"transaction_time" json:"time"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

type CategoryTotal struct {
	Category string          `db:"category" json:"category"`
	Total    decimal.Decimal `db:"total_amount" json:"total_amount"`
}

type DateTotal struct {
	Date  Date            `db:"transaction_date" json:"date"`
	Total decimal.Decimal `db:"total_amount" json:"total_amount"`
}
