package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/budgify/budgify/internal/model"
	"github.com/budgify/budgify/internal/repository"
)

// fakeEntryRepository keeps rows in memory; only what the services call is implemented.
type fakeEntryRepository struct {
	repository.EntryRepository

	mu      sync.Mutex
	kind    model.EntryKind
	entries []*model.Entry
	failSum error
}

func (f *fakeEntryRepository) Kind() model.EntryKind { return f.kind }

func (f *fakeEntryRepository) Create(_ context.Context, e *model.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = "entry-" + e.Date.String()
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeEntryRepository) Total(_ context.Context, userID string, window *model.DateRange) (model.PeriodTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSum != nil {
		return model.PeriodTotal{}, f.failSum
	}

	var total model.PeriodTotal
	for _, e := range f.entries {
		if e.UserID != userID || !inWindow(e.Date, window) {
			continue
		}
		total.Total = total.Total.Add(e.Amount)
		total.Count++
	}
	return total, nil
}

func (f *fakeEntryRepository) CategoryTotals(_ context.Context, userID string, window model.DateRange) ([]*model.CategoryTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	totals := []*model.CategoryTotal{}
	index := map[string]*model.CategoryTotal{}
	for _, e := range f.entries {
		if e.UserID != userID || !inWindow(e.Date, &window) {
			continue
		}
		t, ok := index[e.Category]
		if !ok {
			t = &model.CategoryTotal{Category: e.Category}
			index[e.Category] = t
			totals = append(totals, t)
		}
		t.Total = t.Total.Add(e.Amount)
	}
	return totals, nil
}

type fakeSavingsRepository struct {
	repository.SavingsRepository

	mu    sync.Mutex
	txns  []*model.SavingsTransaction
	goals map[string]*model.SavingsGoal
	daily []*model.DateTotal
}

func (f *fakeSavingsRepository) Total(_ context.Context, userID string, window *model.DateRange) (model.PeriodTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var total model.PeriodTotal
	for _, t := range f.txns {
		if t.UserID != userID || !inWindow(t.Date, window) {
			continue
		}
		total.Total = total.Total.Add(t.Amount)
		total.Count++
	}
	return total, nil
}

func (f *fakeSavingsRepository) DateTotals(_ context.Context, _ string, _ model.DateRange) ([]*model.DateTotal, error) {
	return f.daily, nil
}

func (f *fakeSavingsRepository) ApplyContribution(_ context.Context, txn *model.SavingsTransaction) (*model.Contribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	goal, ok := f.goals[txn.GoalID]
	if !ok || goal.UserID != txn.UserID {
		return nil, repository.ErrSavingsGoalNotFound
	}

	goal.CurrentAmount = goal.CurrentAmount.Add(txn.Amount)
	achieved := false
	if !goal.IsAchieved && goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
		goal.IsAchieved = true
		at := txn.CreatedAt
		goal.AchievedAt = &at
		achieved = true
	}
	f.txns = append(f.txns, txn)

	copied := *goal
	return &model.Contribution{Transaction: txn, Goal: &copied, GoalAchieved: achieved}, nil
}

type fakeLedgerRepository struct {
	rows      []*model.LedgerRow
	lastLimit int
}

func (f *fakeLedgerRepository) Recent(_ context.Context, _ string, limit int) ([]*model.LedgerRow, error) {
	f.lastLimit = limit
	if limit < len(f.rows) {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

func (f *fakeLedgerRepository) All(_ context.Context, _ string) ([]*model.LedgerRow, error) {
	return f.rows, nil
}

type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*model.User{}}
}

func (f *fakeUserRepository) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = "user-" + user.Email
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) ByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) ByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepository) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeStorage struct {
	saved   map[string][]byte
	failure error
}

func (f *fakeStorage) Save(_ context.Context, path string, body io.Reader, _ string) error {
	if f.failure != nil {
		return f.failure
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	if f.saved == nil {
		f.saved = map[string][]byte{}
	}
	f.saved[path] = buf.Bytes()
	return nil
}

func (f *fakeStorage) PresignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	if _, ok := f.saved[path]; !ok {
		return "", errors.New("not found")
	}
	return "https://storage.test/" + path + "?signed", nil
}

func inWindow(d model.Date, window *model.DateRange) bool {
	if window == nil {
		return true
	}
	return !d.Before(window.From) && d.Before(window.To)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
