package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Períodos aceptados por los reportes.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

// TotalsDTO totales del libro en un período.
type TotalsDTO struct {
	SalesCount   int             `json:"sales_count"`
	UnitsSold    int             `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	SellerProfit decimal.Decimal `json:"seller_profit"`
	OwnerProfit  decimal.Decimal `json:"owner_profit"`
}

// SellerTotalsDTO totales por vendedor.
type SellerTotalsDTO struct {
	SellerID string `json:"seller_id"`
	Username string `json:"username"`
	TotalsDTO
}

// TopItemDTO ítem más vendido del período.
type TopItemDTO struct {
	ItemID   string `json:"item_id,omitempty"`
	ItemName string `json:"item_name"`
	Emoji    string `json:"emoji,omitempty"`
	TotalsDTO
}

// SummaryDTO respuesta de GET /api/reports/summary.
type SummaryDTO struct {
	Period      string            `json:"period"`
	Since       *time.Time        `json:"since,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
	Totals      TotalsDTO         `json:"totals"`
	BySeller    []SellerTotalsDTO `json:"by_seller"`
	TopItems    []TopItemDTO      `json:"top_items"`
}

// MySummaryDTO respuesta de GET /api/reports/me.
type MySummaryDTO struct {
	Period string    `json:"period"`
	Totals TotalsDTO `json:"totals"`
}
