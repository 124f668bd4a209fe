package repository

import (
	"context"

	"github.com/budgify/budgify/internal/model"
	"github.com/jmoiron/sqlx"
)

// LedgerRepository reads across incomes, expenses and savings_transactions.
type LedgerRepository interface {
	Recent(ctx context.Context, userID string, limit int) ([]*model.LedgerRow, error)
	All(ctx context.Context, userID string) ([]*model.LedgerRow, error)
}

type ledgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

// Recent merges income and expense rows, newest first.
func (r *ledgerRepository) Recent(ctx context.Context, userID string, limit int) ([]*model.LedgerRow, error) {
	rows := []*model.LedgerRow{}
	query := `SELECT id, 'income' AS type, amount, source, category, transaction_date, transaction_time, created_at
	          FROM incomes WHERE user_id = $1
	          UNION ALL
	          SELECT id, 'expense' AS type, amount, source, category, transaction_date, transaction_time, created_at
	          FROM expenses WHERE user_id = $2
	          ORDER BY transaction_date DESC, transaction_time DESC, created_at DESC
	          LIMIT $3`

	err := r.db.SelectContext(ctx, &rows, query, userID, userID, limit)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// All returns every income, expense and savings row in chronological order.
func (r *ledgerRepository) All(ctx context.Context, userID string) ([]*model.LedgerRow, error) {
	rows := []*model.LedgerRow{}
	query := `SELECT id, 'income' AS type, amount, source, category, transaction_date, transaction_time, created_at
	          FROM incomes WHERE user_id = $1
	          UNION ALL
	          SELECT id, 'expense' AS type, amount, source, category, transaction_date, transaction_time, created_at
	          FROM expenses WHERE user_id = $2
	          UNION ALL
	          SELECT st.id, 'savings' AS type, st.amount, sg.goal_name AS source, 'Savings' AS category,
	                 st.transaction_date, st.transaction_time, st.created_at
	          FROM savings_transactions st
	          JOIN savings_goals sg ON sg.id = st.goal_id
	          WHERE st.user_id = $3
	          ORDER BY transaction_date ASC, transaction_time ASC, created_at ASC`

	err := r.db.SelectContext(ctx, &rows, query, userID, userID, userID)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
