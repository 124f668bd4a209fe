package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal moves from open to achieved exactly once.
// CurrentAmount only changes through contributions.
type SavingsGoal struct {
	ID            string          `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"user_id"`
	Name          string          `db:"goal_name" json:"goal_name"`
	TargetAmount  decimal.Decimal `db:"target_amount" json:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount" json:"current_amount"`
	IsAchieved    bool            `db:"is_achieved" json:"is_achieved"`
	AchievedAt    *time.Time      `db:"achieved_at" json:"achieved_at"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`

	// Computed fields (not in database)
	Progress decimal.Decimal `db:"-" json:"progress_percentage"`
}

func (g *SavingsGoal) ComputeProgress() {
	g.Progress = Percent(g.CurrentAmount, g.TargetAmount)
}

type SavingsTransaction struct {
	ID        string          `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"user_id"`
	GoalID    string          `db:"goal_id" json:"goal_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Date      Date            `db:"transaction_date" json:"date"`
	Time      Clock           `db:"transaction_time" json:"time"`
	Notes     *string         `db:"notes" json:"notes"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`

	// Joined from savings_goals when listing
	GoalName string `db:"goal_name" json:"goal_name,omitempty"`
}

// Contribution is the outcome of applying one savings transaction.
type Contribution struct {
	Transaction *SavingsTransaction `json:"transaction"`
	Goal        *SavingsGoal        `json:"goal"`
	// GoalAchieved is true only for the contribution that completed the goal.
	GoalAchieved bool `json:"goal_achieved"`
}

type SavingsSummary struct {
	TotalGoals    int             `db:"total_goals" json:"total_goals"`
	AchievedGoals int             `db:"achieved_goals" json:"achieved_goals"`
	TotalTarget   decimal.Decimal `db:"total_target" json:"total_target"`
	TotalSaved    decimal.Decimal `db:"total_saved" json:"total_saved"`
	AvgProgress   decimal.Decimal `db:"avg_progress" json:"avg_progress"`
}

type MonthTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total_amount"`
}
