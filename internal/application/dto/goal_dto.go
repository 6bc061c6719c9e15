package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateGoalRequest entrada de POST /api/goals. Deadline en formato YYYY-MM-DD o RFC3339.
type CreateGoalRequest struct {
	Title        string          `json:"title"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	Deadline     string          `json:"deadline"`
}

// GoalResponse meta con su progreso proyectado.
type GoalResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	Deadline      time.Time       `json:"deadline"`
	CreatedAt     time.Time       `json:"created_at"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Percent       decimal.Decimal `json:"percent"`
	DaysRemaining int             `json:"days_remaining"`
	Status        string          `json:"status"`
}
