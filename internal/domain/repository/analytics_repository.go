package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter acota las consultas de agregados. SellerID vacío = toda la organización;
// Since nil = todo el historial.
type ReportFilter struct {
	SellerID string
	Since    *time.Time
}

// LedgerTotals resultado crudo de los totales del libro.
type LedgerTotals struct {
	SalesCount   int
	UnitsSold    int
	Revenue      decimal.Decimal // SUM(total_price)
	SellerProfit decimal.Decimal // SUM(seller_profit)
	OwnerProfit  decimal.Decimal // SUM(owner_profit)
}

// SellerTotalsResult totales por vendedor.
type SellerTotalsResult struct {
	SellerID string
	Username string
	LedgerTotals
}

// ItemTotalsResult totales por ítem. Las ventas de ítems eliminados se agrupan con ItemID vacío.
type ItemTotalsResult struct {
	ItemID   string
	ItemName string
	Emoji    string
	LedgerTotals
}

// AnalyticsRepository define las consultas de lectura sobre el libro de ventas.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// GetTotals usa COALESCE para devolver cero si no hay ventas en el período.
	GetTotals(ctx context.Context, f ReportFilter) (LedgerTotals, error)

	// GetTotalsBySeller ordena por ingreso descendente y omite vendedores sin ventas.
	GetTotalsBySeller(ctx context.Context, f ReportFilter) ([]SellerTotalsResult, error)

	// GetTopItems devuelve los `limit` ítems con más unidades vendidas.
	GetTopItems(ctx context.Context, f ReportFilter, limit int) ([]ItemTotalsResult, error)
}
