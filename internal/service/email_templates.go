package service

import (
	"fmt"

	"github.com/budgify/budgify/internal/model"
)

func welcomeEmailTemplate(name, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Start by recording this month's income and expenses,
then set up a savings goal to track what you put aside.

Open %s: %s

Best,
The %s Team`, name, appName, appURL, appName)

	return subject, body
}

func goalAchievedEmailTemplate(name string, goal *model.SavingsGoal, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("You reached your savings goal: %s", goal.Name)
	body := fmt.Sprintf(`Hi %s,

Congratulations! Your savings goal "%s" is complete.

Target: %s
Saved:  %s

Set your next goal at %s

Best,
The %s Team`, name, goal.Name, goal.TargetAmount.StringFixed(2), goal.CurrentAmount.StringFixed(2), appURL, appName)

	return subject, body
}
