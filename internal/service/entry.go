package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/budgify/budgify/internal/model"
	"github.com/budgify/budgify/internal/repository"
	"github.com/budgify/budgify/internal/validation"
	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodToday     Period = "today"
	PeriodThisWeek  Period = "thisWeek"
	PeriodThisMonth Period = "thisMonth"
	PeriodThisYear  Period = "thisYear"
)

// Window returns the date range the period covers around now.
// Weeks start on Monday.
func (p Period) Window(now time.Time) (model.DateRange, error) {
	today := model.DateOf(now)

	switch p {
	case PeriodToday:
		return model.InclusiveRange(today, today), nil
	case PeriodThisWeek:
		offset := (int(today.Weekday()) + 6) % 7
		monday := today.AddDays(-offset)
		return model.DateRange{From: monday, To: monday.AddDays(7)}, nil
	case PeriodThisMonth:
		return model.MonthRange(today.Year(), today.Month()), nil
	case PeriodThisYear:
		return model.YearRange(today.Year()), nil
	}

	return model.DateRange{}, invalid("invalid period %q: must be one of today, thisWeek, thisMonth, thisYear", string(p))
}

// EntryInput is the editable part of an income or expense row.
type EntryInput struct {
	Amount   decimal.Decimal
	Source   string
	Category string
	Date     string
	Time     string
}

type EntryService struct {
	repositories map[model.EntryKind]repository.EntryRepository
	now          Clock
}

func NewEntryService(incomeRepository, expenseRepository repository.EntryRepository) *EntryService {
	return &EntryService{
		repositories: map[model.EntryKind]repository.EntryRepository{
			model.EntryKindIncome:  incomeRepository,
			model.EntryKindExpense: expenseRepository,
		},
		now: systemClock,
	}
}

// WithClock replaces the time source used for "current" periods.
func (s *EntryService) WithClock(now Clock) *EntryService {
	s.now = now
	return s
}

func (s *EntryService) repository(kind model.EntryKind) (repository.EntryRepository, error) {
	repo, ok := s.repositories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown entry kind %q", kind)
	}
	return repo, nil
}

func (s *EntryService) Create(ctx context.Context, kind model.EntryKind, userID string, in EntryInput) (*model.Entry, error) {
	repo, err := s.repository(kind)
	if err != nil {
		return nil, err
	}

	entry, err := s.buildEntry(userID, in)
	if err != nil {
		return nil, err
	}

	err = repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", kind, err)
	}

	return entry, nil
}

func (s *EntryService) Update(ctx context.Context, kind model.EntryKind, userID, id string, in EntryInput) (*model.Entry, error) {
	repo, err := s.repository(kind)
	if err != nil {
		return nil, err
	}

	entry, err := s.buildEntry(userID, in)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	err = repo.Update(ctx, entry)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update %s: %w", kind, err)
	}

	return entry, nil
}

func (s *EntryService) Delete(ctx context.Context, kind model.EntryKind, userID, id string) (*model.Entry, error) {
	repo, err := s.repository(kind)
	if err != nil {
		return nil, err
	}

	entry, err := repo.Delete(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete %s: %w", kind, err)
	}

	return entry, nil
}

// MonthEntries lists this month's rows, newest first.
func (s *EntryService) MonthEntries(ctx context.Context, kind model.EntryKind, userID string) ([]*model.Entry, error) {
	repo, err := s.repository(kind)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return repo.Entries(ctx, userID, model.MonthRange(now.Year(), now.Month()))
}

func (s *EntryService) ByCategory(ctx context.Context, kind model.EntryKind, userID string, period Period) ([]*model.CategoryTotal, error) {
	repo, err := s.repository(kind)
	if err != nil {
		return nil, err
	}

	window, err := period.Window(s.now())
	if err != nil {
		return nil, err
	}

	return repo.CategoryTotals(ctx, userID, window)
}

// ByDate totals each active day of one month. A zero year or month means the current one.
func (s *EntryService) ByDate(ctx context.Context, kind model.EntryKind, userID string, year int, month time.Month) ([]*model.DateTotal, error) {
	repo, err := s.repository(kind)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = now.Month()
	}
	if month < time.January || month > time.December {
		return nil, invalid("month must be between 1 and 12")
	}
	if year < 1900 || year > 9999 {
		return nil, invalid("year is out of range")
	}

	return repo.DateTotals(ctx, userID, model.MonthRange(year, month))
}

func (s *EntryService) buildEntry(userID string, in EntryInput) (*model.Entry, error) {
	if err := validation.ValidateAmount("amount", in.Amount); err != nil {
		return nil, asValidation(err)
	}
	if err := validation.ValidateLabel("entity", in.Source, 100); err != nil {
		return nil, asValidation(err)
	}
	if err := validation.ValidateLabel("category", in.Category, 50); err != nil {
		return nil, asValidation(err)
	}

	date, clock, err := parseDateTime(in.Date, in.Time, s.now())
	if err != nil {
		return nil, err
	}

	return &model.Entry{
		UserID:   userID,
		Amount:   in.Amount,
		Source:   strings.TrimSpace(in.Source),
		Category: strings.TrimSpace(in.Category),
		Date:     date,
		Time:     clock,
	}, nil
}

// parseDateTime requires both values for entries; see parseOptionalDateTime for contributions.
func parseDateTime(date, clock string, now time.Time) (model.Date, model.Clock, error) {
	if strings.TrimSpace(date) == "" {
		return model.Date{}, model.Clock{}, invalid("date is required")
	}
	if strings.TrimSpace(clock) == "" {
		return model.Date{}, model.Clock{}, invalid("time is required")
	}
	return parseOptionalDateTime(date, clock, now)
}

// parseOptionalDateTime defaults missing values to now.
func parseOptionalDateTime(date, clock string, now time.Time) (model.Date, model.Clock, error) {
	d := model.DateOf(now)
	c := model.ClockOf(now)

	if strings.TrimSpace(date) != "" {
		parsed, err := model.ParseDate(date)
		if err != nil {
			return model.Date{}, model.Clock{}, asValidation(err)
		}
		d = parsed
	}

	if strings.TrimSpace(clock) != "" {
		parsed, err := model.ParseClock(clock)
		if err != nil {
			return model.Date{}, model.Clock{}, asValidation(err)
		}
		c = parsed
	}

	return d, c, nil
}
