package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item entrada del catálogo. Quantity nunca es negativa (CHECK en la tabla y UPDATE condicional).
type Item struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	Emoji       string // etiqueta visual, sin semántica
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
