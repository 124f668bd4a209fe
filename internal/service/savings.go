package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/budgify/budgify/internal/model"
	"github.com/budgify/budgify/internal/repository"
	"github.com/budgify/budgify/internal/validation"
	"github.com/shopspring/decimal"
)

type ContributionInput struct {
	GoalID string
	Amount decimal.Decimal
	Date   string
	Time   string
	Notes  string
}

type SavingsService struct {
	savingsRepository repository.SavingsRepository
	userRepository    repository.UserRepository
	emailService      *EmailService
	now               Clock
}

func NewSavingsService(
	savingsRepository repository.SavingsRepository,
	userRepository repository.UserRepository,
	emailService *EmailService,
) *SavingsService {
	return &SavingsService{
		savingsRepository: savingsRepository,
		userRepository:    userRepository,
		emailService:      emailService,
		now:               systemClock,
	}
}

func (s *SavingsService) WithClock(now Clock) *SavingsService {
	s.now = now
	return s
}

func (s *SavingsService) CreateGoal(ctx context.Context, userID, name string, target decimal.Decimal) (*model.SavingsGoal, error) {
	if err := validateGoal(name, target); err != nil {
		return nil, err
	}

	goal := &model.SavingsGoal{
		UserID:        userID,
		Name:          strings.TrimSpace(name),
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		CreatedAt:     s.now().UTC(),
	}

	err := s.savingsRepository.CreateGoal(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	goal.ComputeProgress()
	return goal, nil
}

// UpdateGoal renames or retargets a goal. Achievement state is left as is.
func (s *SavingsService) UpdateGoal(ctx context.Context, userID, goalID, name string, target decimal.Decimal) (*model.SavingsGoal, error) {
	if err := validateGoal(name, target); err != nil {
		return nil, err
	}

	goal := &model.SavingsGoal{
		ID:           goalID,
		UserID:       userID,
		Name:         strings.TrimSpace(name),
		TargetAmount: target,
	}

	err := s.savingsRepository.UpdateGoal(ctx, goal)
	if err != nil {
		return nil, err
	}

	goal.ComputeProgress()
	return goal, nil
}

func (s *SavingsService) DeleteGoal(ctx context.Context, userID, goalID string) (*model.SavingsGoal, error) {
	goal, err := s.savingsRepository.DeleteGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.ComputeProgress()
	return goal, nil
}

// Goals lists a user's goals, newest first, with progress filled in.
func (s *SavingsService) Goals(ctx context.Context, userID string) ([]*model.SavingsGoal, error) {
	goals, err := s.savingsRepository.Goals(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, goal := range goals {
		goal.ComputeProgress()
	}
	return goals, nil
}

// Contribute adds money to a goal. The goal must belong to userID.
func (s *SavingsService) Contribute(ctx context.Context, userID string, in ContributionInput) (*model.Contribution, error) {
	if strings.TrimSpace(in.GoalID) == "" {
		return nil, invalid("goal_id is required")
	}
	if err := validation.ValidateAmount("amount", in.Amount); err != nil {
		return nil, asValidation(err)
	}

	now := s.now()
	date, clock, err := parseOptionalDateTime(in.Date, in.Time, now)
	if err != nil {
		return nil, err
	}

	txn := &model.SavingsTransaction{
		UserID:    userID,
		GoalID:    in.GoalID,
		Amount:    in.Amount,
		Date:      date,
		Time:      clock,
		CreatedAt: now.UTC(),
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		txn.Notes = &notes
	}

	contribution, err := s.savingsRepository.ApplyContribution(ctx, txn)
	if err != nil {
		return nil, err
	}
	contribution.Goal.ComputeProgress()

	if contribution.GoalAchieved {
		slog.Info("savings goal achieved", "user_id", userID, "goal_id", contribution.Goal.ID)
		s.notifyGoalAchieved(ctx, userID, contribution.Goal)
	}

	return contribution, nil
}

func (s *SavingsService) notifyGoalAchieved(ctx context.Context, userID string, goal *model.SavingsGoal) {
	if s.emailService == nil {
		return
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		slog.Warn("failed to load user for goal email", "error", err, "user_id", userID)
		return
	}

	err = s.emailService.SendGoalAchievedEmail(ctx, user.Email, user.Name, goal)
	if err != nil {
		slog.Warn("failed to send goal achieved email", "error", err, "user_id", userID, "goal_id", goal.ID)
	}
}

// GoalTransactions lists contributions to one goal, newest first.
func (s *SavingsService) GoalTransactions(ctx context.Context, userID, goalID string) ([]*model.SavingsTransaction, error) {
	_, err := s.savingsRepository.GoalByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	return s.savingsRepository.Transactions(ctx, userID, repository.TransactionFilter{GoalID: goalID})
}

// Transactions lists all contributions, optionally for one goal.
func (s *SavingsService) Transactions(ctx context.Context, userID, goalID string) ([]*model.SavingsTransaction, error) {
	return s.savingsRepository.Transactions(ctx, userID, repository.TransactionFilter{GoalID: goalID})
}

// TransactionsInRange lists contributions dated from start through end.
func (s *SavingsService) TransactionsInRange(ctx context.Context, userID, start, end string) ([]*model.SavingsTransaction, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return nil, invalid("startDate and endDate are required")
	}

	from, err := model.ParseDate(start)
	if err != nil {
		return nil, asValidation(err)
	}
	to, err := model.ParseDate(end)
	if err != nil {
		return nil, asValidation(err)
	}
	if to.Before(from) {
		return nil, invalid("endDate must not be before startDate")
	}

	window := model.InclusiveRange(from, to)
	return s.savingsRepository.Transactions(ctx, userID, repository.TransactionFilter{Window: &window})
}

func (s *SavingsService) Summary(ctx context.Context, userID string) (*model.SavingsSummary, error) {
	return s.savingsRepository.Summary(ctx, userID)
}

// Monthly totals contributions per calendar month of the current year.
func (s *SavingsService) Monthly(ctx context.Context, userID string) ([]*model.MonthTotal, error) {
	year := s.now().Year()

	daily, err := s.savingsRepository.DateTotals(ctx, userID, model.YearRange(year))
	if err != nil {
		return nil, err
	}

	return foldMonths(daily), nil
}

// foldMonths collapses ascending daily totals into ascending monthly totals.
func foldMonths(daily []*model.DateTotal) []*model.MonthTotal {
	months := []*model.MonthTotal{}

	for _, day := range daily {
		key := day.Date.Format("2006-01")
		if n := len(months); n > 0 && months[n-1].Month == key {
			months[n-1].Total = months[n-1].Total.Add(day.Total)
			continue
		}
		months = append(months, &model.MonthTotal{Month: key, Total: day.Total})
	}

	return months
}

func validateGoal(name string, target decimal.Decimal) error {
	if err := validation.ValidateLabel("goal_name", name, 100); err != nil {
		return asValidation(err)
	}
	if err := validation.ValidateAmount("target_amount", target); err != nil {
		return asValidation(err)
	}
	return nil
}
