package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/budgify/budgify/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var ErrSavingsGoalNotFound = errors.New("savings goal not found")

// TransactionFilter narrows a contribution listing. Zero values match everything.
type TransactionFilter struct {
	GoalID string
	Window *model.DateRange
}

type SavingsRepository interface {
	CreateGoal(ctx context.Context, goal *model.SavingsGoal) error
	GoalByID(ctx context.Context, userID, goalID string) (*model.SavingsGoal, error)
	Goals(ctx context.Context, userID string) ([]*model.SavingsGoal, error)
	UpdateGoal(ctx context.Context, goal *model.SavingsGoal) error
	DeleteGoal(ctx context.Context, userID, goalID string) (*model.SavingsGoal, error)
	ApplyContribution(ctx context.Context, txn *model.SavingsTransaction) (*model.Contribution, error)
	Transactions(ctx context.Context, userID string, filter TransactionFilter) ([]*model.SavingsTransaction, error)
	Total(ctx context.Context, userID string, window *model.DateRange) (model.PeriodTotal, error)
	DateTotals(ctx context.Context, userID string, window model.DateRange) ([]*model.DateTotal, error)
	Summary(ctx context.Context, userID string) (*model.SavingsSummary, error)
}

type savingsRepository struct {
	db *sqlx.DB
}

func NewSavingsRepository(db *sqlx.DB) SavingsRepository {
	return &savingsRepository{db: db}
}

func (r *savingsRepository) CreateGoal(ctx context.Context, goal *model.SavingsGoal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now().UTC()
	}
	goal.UpdatedAt = goal.CreatedAt

	query := `INSERT INTO savings_goals (id, user_id, goal_name, target_amount, current_amount, is_achieved, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.IsAchieved,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *savingsRepository) GoalByID(ctx context.Context, userID, goalID string) (*model.SavingsGoal, error) {
	goal := &model.SavingsGoal{}
	query := `SELECT * FROM savings_goals WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSavingsGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *savingsRepository) Goals(ctx context.Context, userID string) ([]*model.SavingsGoal, error) {
	goals := []*model.SavingsGoal{}
	query := `SELECT * FROM savings_goals WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// UpdateGoal changes name and target only. Progress columns belong to ApplyContribution.
func (r *savingsRepository) UpdateGoal(ctx context.Context, goal *model.SavingsGoal) error {
	query := `UPDATE savings_goals
	          SET goal_name = $1, target_amount = $2, updated_at = $3
	          WHERE id = $4 AND user_id = $5
	          RETURNING *`

	err := r.db.GetContext(ctx, goal, query,
		goal.Name,
		goal.TargetAmount,
		time.Now().UTC(),
		goal.ID,
		goal.UserID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSavingsGoalNotFound
	}

	return err
}

func (r *savingsRepository) DeleteGoal(ctx context.Context, userID, goalID string) (*model.SavingsGoal, error) {
	goal := &model.SavingsGoal{}
	query := `DELETE FROM savings_goals WHERE id = $1 AND user_id = $2 RETURNING *`

	err := r.db.GetContext(ctx, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSavingsGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// ApplyContribution records txn and advances its goal in one database transaction.
// The goal row is locked while the new amount is computed in decimal, so
// concurrent contributions never lose updates and the open to achieved
// transition is reported to exactly one caller.
func (r *savingsRepository) ApplyContribution(ctx context.Context, txn *model.SavingsTransaction) (*model.Contribution, error) {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	// Truncated so the stored value compares equal after a round trip.
	now := txn.CreatedAt.UTC().Truncate(time.Microsecond)
	txn.CreatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// SQLite runs on a single connection, so the transaction already serializes writers.
	lock := ""
	if r.db.DriverName() == "pgx" {
		lock = " FOR UPDATE"
	}

	goal := &model.SavingsGoal{}
	err = tx.GetContext(ctx, goal, `SELECT * FROM savings_goals WHERE id = $1 AND user_id = $2`+lock, txn.GoalID, txn.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSavingsGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}

	wasAchieved := goal.IsAchieved
	// Round what SQLite hands back as REAL before doing exact arithmetic.
	current := goal.CurrentAmount.Round(2).Add(txn.Amount)
	target := goal.TargetAmount.Round(2)

	achievedNow := !wasAchieved && current.GreaterThanOrEqual(target)
	achievedAt := goal.AchievedAt
	if achievedNow {
		achievedAt = &now
	}

	update := `UPDATE savings_goals
	           SET current_amount = $1, is_achieved = $2, achieved_at = $3, updated_at = $4
	           WHERE id = $5 AND user_id = $6
	           RETURNING *`

	err = tx.GetContext(ctx, goal, update,
		current,
		wasAchieved || achievedNow,
		achievedAt,
		now,
		txn.GoalID,
		txn.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	insert := `INSERT INTO savings_transactions (id, user_id, goal_id, amount, transaction_date, transaction_time, notes, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = tx.ExecContext(ctx, insert,
		txn.ID,
		txn.UserID,
		txn.GoalID,
		txn.Amount,
		txn.Date,
		txn.Time,
		txn.Notes,
		txn.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert savings transaction: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit contribution: %w", err)
	}

	goal.CurrentAmount = goal.CurrentAmount.Round(2)
	goal.TargetAmount = goal.TargetAmount.Round(2)
	txn.GoalName = goal.Name

	return &model.Contribution{
		Transaction:  txn,
		Goal:         goal,
		GoalAchieved: achievedNow,
	}, nil
}

func (r *savingsRepository) Transactions(ctx context.Context, userID string, filter TransactionFilter) ([]*model.SavingsTransaction, error) {
	txns := []*model.SavingsTransaction{}
	query := `SELECT st.*, sg.goal_name
	          FROM savings_transactions st
	          JOIN savings_goals sg ON sg.id = st.goal_id
	          WHERE st.user_id = $1`
	args := []any{userID}

	if filter.GoalID != "" {
		args = append(args, filter.GoalID)
		query += fmt.Sprintf(` AND st.goal_id = $%d`, len(args))
	}
	if filter.Window != nil {
		args = append(args, filter.Window.From, filter.Window.To)
		query += fmt.Sprintf(` AND st.transaction_date >= $%d AND st.transaction_date < $%d`, len(args)-1, len(args))
	}
	query += ` ORDER BY st.transaction_date DESC, st.transaction_time DESC, st.created_at DESC`

	err := r.db.SelectContext(ctx, &txns, query, args...)
	if err != nil {
		return nil, err
	}

	return txns, nil
}

func (r *savingsRepository) Total(ctx context.Context, userID string, window *model.DateRange) (model.PeriodTotal, error) {
	return sumAmounts(ctx, r.db, "savings_transactions", userID, window)
}

func (r *savingsRepository) DateTotals(ctx context.Context, userID string, window model.DateRange) ([]*model.DateTotal, error) {
	totals := []*model.DateTotal{}
	query := `SELECT transaction_date, SUM(amount) AS total_amount FROM savings_transactions
	          WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date < $3
	          GROUP BY transaction_date
	          ORDER BY transaction_date ASC`

	err := r.db.SelectContext(ctx, &totals, query, userID, window.From, window.To)
	if err != nil {
		return nil, err
	}

	for _, t := range totals {
		t.Total = t.Total.Round(2)
	}
	return totals, nil
}

// Summary aggregates in decimal; SQLite would average floating point values.
func (r *savingsRepository) Summary(ctx context.Context, userID string) (*model.SavingsSummary, error) {
	var goals []struct {
		TargetAmount  decimal.Decimal `db:"target_amount"`
		CurrentAmount decimal.Decimal `db:"current_amount"`
		IsAchieved    bool            `db:"is_achieved"`
	}
	query := `SELECT target_amount, current_amount, is_achieved FROM savings_goals WHERE user_id = $1`

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	summary := &model.SavingsSummary{}
	progressSum := decimal.Zero
	withTarget := 0

	for _, g := range goals {
		target := g.TargetAmount.Round(2)
		current := g.CurrentAmount.Round(2)

		summary.TotalGoals++
		if g.IsAchieved {
			summary.AchievedGoals++
		}
		summary.TotalTarget = summary.TotalTarget.Add(target)
		summary.TotalSaved = summary.TotalSaved.Add(current)

		// Zero targets are excluded from the mean, never divided by.
		if target.IsPositive() {
			progressSum = progressSum.Add(current.Mul(decimal.NewFromInt(100)).Div(target))
			withTarget++
		}
	}

	if withTarget > 0 {
		summary.AvgProgress = progressSum.Div(decimal.NewFromInt(int64(withTarget))).Round(2)
	}
	return summary, nil
}
