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
)

var ErrEntryNotFound = errors.New("entry not found")

// entryTables is the only source of table names interpolated into SQL.
var entryTables = map[model.EntryKind]string{
	model.EntryKindIncome:  "incomes",
	model.EntryKindExpense: "expenses",
}

// EntryRepository stores income or expense rows; both tables share a shape.
type EntryRepository interface {
	Kind() model.EntryKind
	Create(ctx context.Context, entry *model.Entry) error
	Update(ctx context.Context, entry *model.Entry) error
	Delete(ctx context.Context, userID, id string) (*model.Entry, error)
	Entries(ctx context.Context, userID string, window model.DateRange) ([]*model.Entry, error)
	Total(ctx context.Context, userID string, window *model.DateRange) (model.PeriodTotal, error)
	CategoryTotals(ctx context.Context, userID string, window model.DateRange) ([]*model.CategoryTotal, error)
	DateTotals(ctx context.Context, userID string, window model.DateRange) ([]*model.DateTotal, error)
}

type entryRepository struct {
	db    *sqlx.DB
	kind  model.EntryKind
	table string
}

func NewIncomeRepository(db *sqlx.DB) EntryRepository {
	return &entryRepository{db: db, kind: model.EntryKindIncome, table: entryTables[model.EntryKindIncome]}
}

func NewExpenseRepository(db *sqlx.DB) EntryRepository {
	return &entryRepository{db: db, kind: model.EntryKindExpense, table: entryTables[model.EntryKindExpense]}
}

func (r *entryRepository) Kind() model.EntryKind {
	return r.kind
}

func (r *entryRepository) Create(ctx context.Context, entry *model.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = entry.CreatedAt

	query := fmt.Sprintf(`INSERT INTO %s (id, user_id, amount, source, category, transaction_date, transaction_time, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Amount,
		entry.Source,
		entry.Category,
		entry.Date,
		entry.Time,
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	return err
}

// Update rewrites the editable columns and reloads the row into entry.
func (r *entryRepository) Update(ctx context.Context, entry *model.Entry) error {
	query := fmt.Sprintf(`UPDATE %s
	          SET amount = $1, source = $2, category = $3, transaction_date = $4, transaction_time = $5, updated_at = $6
	          WHERE id = $7 AND user_id = $8
	          RETURNING *`, r.table)

	err := r.db.GetContext(ctx, entry, query,
		entry.Amount,
		entry.Source,
		entry.Category,
		entry.Date,
		entry.Time,
		time.Now().UTC(),
		entry.ID,
		entry.UserID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEntryNotFound
	}

	return err
}

func (r *entryRepository) Delete(ctx context.Context, userID, id string) (*model.Entry, error) {
	entry := &model.Entry{}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2 RETURNING *`, r.table)

	err := r.db.GetContext(ctx, entry, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *entryRepository) Entries(ctx context.Context, userID string, window model.DateRange) ([]*model.Entry, error) {
	entries := []*model.Entry{}
	query := fmt.Sprintf(`SELECT * FROM %s
	          WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date < $3
	          ORDER BY transaction_date DESC, transaction_time DESC`, r.table)

	err := r.db.SelectContext(ctx, &entries, query, userID, window.From, window.To)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Total sums amounts in the window, or over all time when window is nil.
func (r *entryRepository) Total(ctx context.Context, userID string, window *model.DateRange) (model.PeriodTotal, error) {
	return sumAmounts(ctx, r.db, r.table, userID, window)
}

func (r *entryRepository) CategoryTotals(ctx context.Context, userID string, window model.DateRange) ([]*model.CategoryTotal, error) {
	totals := []*model.CategoryTotal{}
	query := fmt.Sprintf(`SELECT category, SUM(amount) AS total_amount FROM %s
	          WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date < $3
	          GROUP BY category
	          ORDER BY total_amount DESC, category ASC`, r.table)

	err := r.db.SelectContext(ctx, &totals, query, userID, window.From, window.To)
	if err != nil {
		return nil, err
	}

	for _, t := range totals {
		t.Total = t.Total.Round(2)
	}
	return totals, nil
}

func (r *entryRepository) DateTotals(ctx context.Context, userID string, window model.DateRange) ([]*model.DateTotal, error) {
	totals := []*model.DateTotal{}
	query := fmt.Sprintf(`SELECT transaction_date, SUM(amount) AS total_amount FROM %s
	          WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date < $3
	          GROUP BY transaction_date
	          ORDER BY transaction_date ASC`, r.table)

	err := r.db.SelectContext(ctx, &totals, query, userID, window.From, window.To)
	if err != nil {
		return nil, err
	}

	for _, t := range totals {
		t.Total = t.Total.Round(2)
	}
	return totals, nil
}

// sumAmounts is shared by every table with user_id, amount and transaction_date.
func sumAmounts(ctx context.Context, db *sqlx.DB, table, userID string, window *model.DateRange) (model.PeriodTotal, error) {
	var total model.PeriodTotal
	query := fmt.Sprintf(`SELECT COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count FROM %s WHERE user_id = $1`, table)
	args := []any{userID}

	if window != nil {
		query += ` AND transaction_date >= $2 AND transaction_date < $3`
		args = append(args, window.From, window.To)
	}

	err := db.GetContext(ctx, &total, query, args...)
	if err != nil {
		return total, fmt.Errorf("failed to sum %s: %w", table, err)
	}

	total.Total = total.Total.Round(2)
	return total, nil
}
