// Package goal proyecta el avance de una meta a partir de la comisión acumulada.
package goal

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vendas-api/internal/domain/entity"
)

// Status estado derivado de la meta.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

var hundred = decimal.NewFromInt(100)

// Progress vista calculada de una meta.
type Progress struct {
	Current       decimal.Decimal
	Target        decimal.Decimal
	Percent       decimal.Decimal // 0..100, limitado para mostrar
	DaysRemaining int             // negativo si el plazo ya venció
	Status        Status
}

// Project calcula el progreso de g dado el acumulado current en el instante now.
// Completed tiene prioridad sobre Expired.
func Project(g *entity.Goal, current decimal.Decimal, now time.Time) Progress {
	raw := decimal.Zero
	if g.TargetAmount.IsPositive() {
		raw = current.Div(g.TargetAmount).Mul(hundred)
	}
	pct := raw
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	if pct.IsNegative() {
		pct = decimal.Zero
	}

	status := StatusActive
	switch {
	case raw.GreaterThanOrEqual(hundred):
		status = StatusCompleted
	case g.Deadline.Before(now):
		status = StatusExpired
	}

	return Progress{
		Current:       current,
		Target:        g.TargetAmount,
		Percent:       pct.Round(2),
		DaysRemaining: daysUntil(g.Deadline, now),
		Status:        status,
	}
}

// daysUntil redondea hacia arriba los días restantes (0 = vence hoy).
func daysUntil(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}
