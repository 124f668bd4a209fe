package service

import (
	"context"
	"fmt"

	"github.com/budgify/budgify/internal/model"
	"github.com/budgify/budgify/internal/repository"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

type BalanceService struct {
	incomeRepository  repository.EntryRepository
	expenseRepository repository.EntryRepository
	savingsRepository repository.SavingsRepository
	ledgerRepository  repository.LedgerRepository
	now               Clock
}

func NewBalanceService(
	incomeRepository repository.EntryRepository,
	expenseRepository repository.EntryRepository,
	savingsRepository repository.SavingsRepository,
	ledgerRepository repository.LedgerRepository,
) *BalanceService {
	return &BalanceService{
		incomeRepository:  incomeRepository,
		expenseRepository: expenseRepository,
		savingsRepository: savingsRepository,
		ledgerRepository:  ledgerRepository,
		now:               systemClock,
	}
}

func (s *BalanceService) WithClock(now Clock) *BalanceService {
	s.now = now
	return s
}

// totaler is satisfied by every repository that can sum a user's amounts.
type totaler interface {
	Total(ctx context.Context, userID string, window *model.DateRange) (model.PeriodTotal, error)
}

// ledgerTotals holds one window's sums for the three ledgers.
type ledgerTotals struct {
	income   model.PeriodTotal
	expenses model.PeriodTotal
	savings  model.PeriodTotal
}

// Snapshot computes the dashboard balance. The nine sums run concurrently and
// any failure fails the whole snapshot.
func (s *BalanceService) Snapshot(ctx context.Context, userID string) (*model.Balance, error) {
	now := s.now()
	current := model.MonthRange(now.Year(), now.Month())
	previousStart := current.From.AddDate(0, -1, 0)
	previous := model.MonthRange(previousStart.Year(), previousStart.Month())

	var cur, prev, all ledgerTotals

	g, gctx := errgroup.WithContext(ctx)
	sum := func(dst *model.PeriodTotal, repo totaler, window *model.DateRange) {
		g.Go(func() error {
			total, err := repo.Total(gctx, userID, window)
			if err != nil {
				return err
			}
			*dst = total
			return nil
		})
	}

	sum(&cur.income, s.incomeRepository, &current)
	sum(&cur.expenses, s.expenseRepository, &current)
	sum(&cur.savings, s.savingsRepository, &current)
	sum(&all.income, s.incomeRepository, nil)
	sum(&all.expenses, s.expenseRepository, nil)
	sum(&all.savings, s.savingsRepository, nil)
	sum(&prev.income, s.incomeRepository, &previous)
	sum(&prev.expenses, s.expenseRepository, &previous)
	sum(&prev.savings, s.savingsRepository, &previous)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute balance: %w", err)
	}

	return newBalance(cur, prev, all), nil
}

func newBalance(cur, prev, all ledgerTotals) *model.Balance {
	return &model.Balance{
		Total:                    all.income.Total.Add(all.savings.Total).Sub(all.expenses.Total),
		Income:                   cur.income.Total,
		Expenses:                 cur.expenses.Total,
		Savings:                  cur.savings.Total,
		TotalIncome:              all.income.Total,
		TotalExpenses:            all.expenses.Total,
		TotalSavings:             all.savings.Total,
		IncomePercentageChange:   model.PercentChange(cur.income.Total, prev.income.Total),
		ExpensesPercentageChange: model.PercentChange(cur.expenses.Total, prev.expenses.Total),
		SavingsPercentageChange:  model.PercentChange(cur.savings.Total, prev.savings.Total),
		TransactionCount:         cur.income.Count + cur.expenses.Count + cur.savings.Count,
	}
}

// Recent merges income and expense rows, newest first. limit <= 0 uses the default.
func (s *BalanceService) Recent(ctx context.Context, userID string, limit int) ([]*model.LedgerRow, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}

	return s.ledgerRepository.Recent(ctx, userID, limit)
}
