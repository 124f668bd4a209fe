package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/budgify/budgify/internal/model"
	"github.com/budgify/budgify/internal/repository"
	"github.com/shopspring/decimal"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func entry(userID, amount string, date model.Date) *model.Entry {
	return &model.Entry{UserID: userID, Amount: money(amount), Source: "src", Category: "Other", Date: date}
}

func TestBalanceSnapshot(t *testing.T) {
	incomes := &fakeEntryRepository{kind: model.EntryKindIncome, entries: []*model.Entry{
		entry("u1", "1000", model.NewDate(2024, time.January, 20)),
		entry("u1", "2000", model.NewDate(2024, time.February, 5)),
		entry("u2", "9999", model.NewDate(2024, time.February, 5)),
	}}
	expenses := &fakeEntryRepository{kind: model.EntryKindExpense, entries: []*model.Entry{
		entry("u1", "500", model.NewDate(2024, time.February, 6)),
	}}
	savings := &fakeSavingsRepository{txns: []*model.SavingsTransaction{
		{UserID: "u1", Amount: money("200"), Date: model.NewDate(2024, time.February, 7)},
	}}

	svc := NewBalanceService(incomes, expenses, savings, &fakeLedgerRepository{}).
		WithClock(fixedClock(time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC)))

	balance, err := svc.Snapshot(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"income", balance.Income, "2000"},
		{"expenses", balance.Expenses, "500"},
		{"savings", balance.Savings, "200"},
		{"totalIncome", balance.TotalIncome, "3000"},
		{"totalExpenses", balance.TotalExpenses, "500"},
		{"totalSavings", balance.TotalSavings, "200"},
		{"total", balance.Total, "2700"},
		{"incomePercentageChange", balance.IncomePercentageChange, "100"},
		{"expensesPercentageChange", balance.ExpensesPercentageChange, "100"},
		{"savingsPercentageChange", balance.SavingsPercentageChange, "100"},
	}
	for _, c := range checks {
		if !c.got.Equal(money(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if balance.TransactionCount != 3 {
		t.Errorf("transactionCount = %d, want 3", balance.TransactionCount)
	}
}

func TestBalanceSnapshot_JanuaryComparesWithDecember(t *testing.T) {
	incomes := &fakeEntryRepository{entries: []*model.Entry{
		entry("u1", "100", model.NewDate(2023, time.December, 31)),
		entry("u1", "150", model.NewDate(2024, time.January, 1)),
	}}
	expenses := &fakeEntryRepository{entries: []*model.Entry{
		entry("u1", "100", model.NewDate(2023, time.December, 10)),
		entry("u1", "50", model.NewDate(2024, time.January, 10)),
	}}

	svc := NewBalanceService(incomes, expenses, &fakeSavingsRepository{}, &fakeLedgerRepository{}).
		WithClock(fixedClock(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)))

	balance, err := svc.Snapshot(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !balance.IncomePercentageChange.Equal(money("50")) {
		t.Errorf("income change = %s, want 50", balance.IncomePercentageChange)
	}
	if !balance.ExpensesPercentageChange.Equal(money("-50")) {
		t.Errorf("expenses change = %s, want -50", balance.ExpensesPercentageChange)
	}
	if !balance.SavingsPercentageChange.IsZero() {
		t.Errorf("savings change = %s, want 0", balance.SavingsPercentageChange)
	}
}

func TestBalanceSnapshot_IncomeOnlyAcrossTwoMonths(t *testing.T) {
	incomes := &fakeEntryRepository{entries: []*model.Entry{
		entry("u1", "100", model.NewDate(2024, time.January, 5)),
		entry("u1", "200", model.NewDate(2024, time.February, 10)),
	}}

	svc := NewBalanceService(incomes, &fakeEntryRepository{}, &fakeSavingsRepository{}, &fakeLedgerRepository{}).
		WithClock(fixedClock(time.Date(2024, time.February, 20, 9, 0, 0, 0, time.UTC)))

	balance, err := svc.Snapshot(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"income", balance.Income, "200"},
		{"totalIncome", balance.TotalIncome, "300"},
		{"incomePercentageChange", balance.IncomePercentageChange, "100"},
		{"total", balance.Total, "300"},
		{"expenses", balance.Expenses, "0"},
		{"expensesPercentageChange", balance.ExpensesPercentageChange, "0"},
	}
	for _, c := range checks {
		if !c.got.Equal(money(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
}

func TestBalanceSnapshot_EmptyUser(t *testing.T) {
	svc := NewBalanceService(&fakeEntryRepository{}, &fakeEntryRepository{}, &fakeSavingsRepository{}, &fakeLedgerRepository{})

	balance, err := svc.Snapshot(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !balance.Total.IsZero() || balance.TransactionCount != 0 || !balance.IncomePercentageChange.IsZero() {
		t.Fatalf("expected zero balance, got %+v", balance)
	}
}

func TestBalanceSnapshot_FailsWhole(t *testing.T) {
	boom := errors.New("connection reset")
	incomes := &fakeEntryRepository{failSum: boom}
	svc := NewBalanceService(incomes, &fakeEntryRepository{}, &fakeSavingsRepository{}, &fakeLedgerRepository{})

	balance, err := svc.Snapshot(context.Background(), "u1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
	if balance != nil {
		t.Fatalf("expected no partial balance, got %+v", balance)
	}
}

func TestBalanceRecentLimit(t *testing.T) {
	ledger := &fakeLedgerRepository{}
	svc := NewBalanceService(&fakeEntryRepository{}, &fakeEntryRepository{}, &fakeSavingsRepository{}, ledger)

	cases := []struct {
		in, want int
	}{
		{0, DefaultRecentLimit},
		{-3, DefaultRecentLimit},
		{25, 25},
		{1000, MaxRecentLimit},
	}
	for _, c := range cases {
		if _, err := svc.Recent(context.Background(), "u1", c.in); err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if ledger.lastLimit != c.want {
			t.Errorf("Recent(%d) used limit %d, want %d", c.in, ledger.lastLimit, c.want)
		}
	}
}

func TestPeriodWindow(t *testing.T) {
	// Wednesday
	now := time.Date(2024, time.May, 15, 22, 30, 0, 0, time.UTC)

	cases := []struct {
		period   Period
		from, to string
	}{
		{PeriodToday, "2024-05-15", "2024-05-16"},
		{PeriodThisWeek, "2024-05-13", "2024-05-20"},
		{PeriodThisMonth, "2024-05-01", "2024-06-01"},
		{PeriodThisYear, "2024-01-01", "2025-01-01"},
	}
	for _, c := range cases {
		window, err := c.period.Window(now)
		if err != nil {
			t.Fatalf("%s: %v", c.period, err)
		}
		if window.From.String() != c.from || window.To.String() != c.to {
			t.Errorf("%s = %s..%s, want %s..%s", c.period, window.From, window.To, c.from, c.to)
		}
	}

	sunday := time.Date(2024, time.May, 19, 8, 0, 0, 0, time.UTC)
	window, _ := PeriodThisWeek.Window(sunday)
	if window.From.String() != "2024-05-13" {
		t.Errorf("sunday week starts %s, want 2024-05-13", window.From)
	}

	if _, err := Period("lastDecade").Window(now); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for unknown period, got %v", err)
	}
}

func TestEntryService_CreateValidation(t *testing.T) {
	repo := &fakeEntryRepository{kind: model.EntryKindIncome}
	svc := NewEntryService(repo, &fakeEntryRepository{kind: model.EntryKindExpense})
	ctx := context.Background()

	valid := EntryInput{Amount: money("10"), Source: "ACME", Category: "Salary", Date: "2024-01-05", Time: "09:30"}

	cases := []struct {
		name    string
		mutate  func(in *EntryInput)
		wantMsg string
	}{
		{"zero amount", func(in *EntryInput) { in.Amount = decimal.Zero }, "amount must be greater than 0"},
		{"negative amount", func(in *EntryInput) { in.Amount = money("-1") }, "amount must be greater than 0"},
		{"blank source", func(in *EntryInput) { in.Source = " " }, "entity is required"},
		{"blank category", func(in *EntryInput) { in.Category = "" }, "category is required"},
		{"missing date", func(in *EntryInput) { in.Date = "" }, "date is required"},
		{"bad date", func(in *EntryInput) { in.Date = "05/01/2024" }, "invalid date"},
		{"bad time", func(in *EntryInput) { in.Time = "9am" }, "invalid time"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := valid
			c.mutate(&in)
			_, err := svc.Create(ctx, model.EntryKindIncome, "u1", in)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), c.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, c.wantMsg)
			}
		})
	}

	if len(repo.entries) != 0 {
		t.Fatalf("invalid input reached the store: %d rows", len(repo.entries))
	}

	created, err := svc.Create(ctx, model.EntryKindIncome, "u1", valid)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Time.String() != "09:30:00" || created.Date.String() != "2024-01-05" {
		t.Errorf("created = %s %s", created.Date, created.Time)
	}
}

func TestEntryService_ByCategoryEmpty(t *testing.T) {
	svc := NewEntryService(&fakeEntryRepository{}, &fakeEntryRepository{})

	totals, err := svc.ByCategory(context.Background(), model.EntryKindExpense, "u1", PeriodThisMonth)
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if totals == nil || len(totals) != 0 {
		t.Fatalf("expected empty slice, got %v", totals)
	}
}

func TestEntryService_ByDateRejectsBadMonth(t *testing.T) {
	svc := NewEntryService(&fakeEntryRepository{}, &fakeEntryRepository{})

	_, err := svc.ByDate(context.Background(), model.EntryKindIncome, "u1", 2024, 13)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSavingsService_Contribute(t *testing.T) {
	users := newFakeUserRepository()
	user := &model.User{Name: "Saver", Email: "saver@example.com"}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	repo := &fakeSavingsRepository{goals: map[string]*model.SavingsGoal{
		"g1": {ID: "g1", UserID: user.ID, Name: "Laptop", TargetAmount: money("1000")},
	}}
	email := NewEmailService("", "noreply@example.com", "http://localhost", "Budgify", true)
	now := time.Date(2024, time.March, 3, 10, 15, 0, 0, time.UTC)
	svc := NewSavingsService(repo, users, email).WithClock(fixedClock(now))
	ctx := context.Background()

	first, err := svc.Contribute(ctx, user.ID, ContributionInput{GoalID: "g1", Amount: money("400"), Notes: "  bonus "})
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if first.GoalAchieved {
		t.Fatal("goal should not be achieved yet")
	}
	if !first.Goal.Progress.Equal(money("40")) {
		t.Errorf("progress = %s, want 40", first.Goal.Progress)
	}
	if first.Transaction.Date.String() != "2024-03-03" || first.Transaction.Time.String() != "10:15:00" {
		t.Errorf("defaults = %s %s", first.Transaction.Date, first.Transaction.Time)
	}
	if first.Transaction.Notes == nil || *first.Transaction.Notes != "bonus" {
		t.Errorf("notes = %v", first.Transaction.Notes)
	}

	second, err := svc.Contribute(ctx, user.ID, ContributionInput{GoalID: "g1", Amount: money("600"), Date: "2024-03-01"})
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if !second.GoalAchieved || !second.Goal.Progress.Equal(money("100")) {
		t.Errorf("expected achievement at 100%%, got %+v", second.Goal)
	}

	_, err = svc.Contribute(ctx, "someone-else", ContributionInput{GoalID: "g1", Amount: money("1")})
	if !errors.Is(err, repository.ErrSavingsGoalNotFound) {
		t.Fatalf("expected not found for foreign goal, got %v", err)
	}

	_, err = svc.Contribute(ctx, user.ID, ContributionInput{GoalID: "g1", Amount: decimal.Zero})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for zero amount, got %v", err)
	}
}

func TestSavingsService_TransactionsInRangeRequiresBothDates(t *testing.T) {
	svc := NewSavingsService(&fakeSavingsRepository{}, newFakeUserRepository(), nil)

	cases := []struct{ start, end string }{
		{"", "2024-01-31"},
		{"2024-01-01", ""},
		{"2024-02-01", "2024-01-01"},
		{"yesterday", "2024-01-01"},
	}
	for _, c := range cases {
		_, err := svc.TransactionsInRange(context.Background(), "u1", c.start, c.end)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("TransactionsInRange(%q, %q) = %v, want validation error", c.start, c.end, err)
		}
	}
}

func TestFoldMonths(t *testing.T) {
	daily := []*model.DateTotal{
		{Date: model.NewDate(2024, time.January, 3), Total: money("10")},
		{Date: model.NewDate(2024, time.January, 20), Total: money("15.50")},
		{Date: model.NewDate(2024, time.March, 1), Total: money("7")},
	}

	months := foldMonths(daily)
	if len(months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(months))
	}
	if months[0].Month != "2024-01" || !months[0].Total.Equal(money("25.50")) {
		t.Errorf("january = %s %s", months[0].Month, months[0].Total)
	}
	if months[1].Month != "2024-03" || !months[1].Total.Equal(money("7")) {
		t.Errorf("march = %s %s", months[1].Month, months[1].Total)
	}

	if empty := foldMonths(nil); empty == nil || len(empty) != 0 {
		t.Errorf("expected empty slice, got %v", empty)
	}
}

func TestAuthService_SignupAndSignin(t *testing.T) {
	users := newFakeUserRepository()
	svc := NewAuthService(users, nil, "test-secret", time.Hour)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Ada", "Ada@Example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("email not normalized: %s", user.Email)
	}
	if user.PasswordHash == "correct horse battery" {
		t.Error("password stored in clear text")
	}

	_, err = svc.Signup(ctx, "Ada Again", "ada@example.com", "another long passphrase")
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	_, err = svc.Signup(ctx, "Bob", "bob@example.com", "short")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for weak password, got %v", err)
	}

	_, _, err = svc.Signin(ctx, "ada@example.com", "wrong password here")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	_, _, err = svc.Signin(ctx, "nobody@example.com", "correct horse battery")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	token, _, err := svc.Signin(ctx, "ADA@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Signin: %v", err)
	}

	subject, err := svc.VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if subject != user.ID {
		t.Errorf("subject = %s, want %s", subject, user.ID)
	}

	other := NewAuthService(users, nil, "different-secret", time.Hour)
	if _, err := other.VerifyJWT(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestAuthService_ExpiredToken(t *testing.T) {
	users := newFakeUserRepository()
	svc := NewAuthService(users, nil, "test-secret", time.Hour)
	svc.now = fixedClock(time.Now().Add(-2 * time.Hour))

	token, err := svc.GenerateJWT(&model.User{ID: "u1"})
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := svc.VerifyJWT(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestExportService(t *testing.T) {
	ledger := &fakeLedgerRepository{rows: []*model.LedgerRow{
		{ID: "i1", Type: model.EntryKindIncome, Amount: money("100.5"), Source: "ACME", Category: "Salary", Date: model.NewDate(2024, time.January, 1), Time: model.Clock{Hour: 9}},
		{ID: "s1", Type: model.EntryKindSavings, Amount: money("20"), Source: "Trip, summer", Category: "Savings", Date: model.NewDate(2024, time.January, 2)},
	}}
	now := time.Date(2024, time.January, 3, 4, 5, 6, 0, time.UTC)

	t.Run("inline without storage", func(t *testing.T) {
		svc := NewExportService(ledger, nil, time.Hour)
		svc.now = fixedClock(now)

		export, err := svc.Export(context.Background(), "u1")
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		if export.URL != "" {
			t.Errorf("unexpected URL %q", export.URL)
		}
		want := "id,type,date,time,amount,entity,category\n" +
			"i1,income,2024-01-01,09:00:00,100.50,ACME,Salary\n" +
			"s1,savings,2024-01-02,00:00:00,20.00,\"Trip, summer\",Savings\n"
		if string(export.Data) != want {
			t.Errorf("csv =\n%s\nwant\n%s", export.Data, want)
		}
		if export.Filename != "budgify-20240103-040506.csv" || export.Rows != 2 {
			t.Errorf("export = %s (%d rows)", export.Filename, export.Rows)
		}
	})

	t.Run("uploaded with storage", func(t *testing.T) {
		store := &fakeStorage{}
		svc := NewExportService(ledger, store, time.Hour)
		svc.now = fixedClock(now)

		export, err := svc.Export(context.Background(), "u1")
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		path := "exports/u1/budgify-20240103-040506.csv"
		if _, ok := store.saved[path]; !ok {
			t.Fatalf("expected upload at %s, got %v", path, store.saved)
		}
		if !strings.HasPrefix(export.URL, "https://storage.test/"+path) {
			t.Errorf("url = %s", export.URL)
		}
		if !export.ExpiresAt.Equal(now.Add(time.Hour)) {
			t.Errorf("expires = %s", export.ExpiresAt)
		}
		if export.Data != nil {
			t.Error("uploaded export should not carry data")
		}
	})

	t.Run("upload failure", func(t *testing.T) {
		store := &fakeStorage{failure: errors.New("bucket gone")}
		svc := NewExportService(ledger, store, time.Hour)

		if _, err := svc.Export(context.Background(), "u1"); err == nil {
			t.Fatal("expected error")
		}
	})
}
