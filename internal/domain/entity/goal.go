package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal meta de comisión de un usuario. El progreso se proyecta desde el libro de ventas, nunca se persiste.
type Goal struct {
	ID           string
	UserID       string
	Title        string
	TargetAmount decimal.Decimal
	Deadline     time.Time
	CreatedAt    time.Time
}
