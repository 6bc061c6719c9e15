package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vendas-api/internal/domain/entity"
)

// SaleCommitted se emite por cada venta confirmada, después del commit.
type SaleCommitted struct {
	Sale           entity.Sale
	ItemName       string
	SellerUsername string
}

// LowStock se emite cuando una venta deja el stock de un ítem por debajo del umbral.
type LowStock struct {
	ItemID    string
	ItemName  string
	Remaining int
	Threshold int
	At        time.Time
}

// EventPublisher sumidero de notificaciones push (fire-and-forget).
// Un error nunca revierte la venta; el llamador solo lo registra.
type EventPublisher interface {
	PublishSaleCommitted(ctx context.Context, ev SaleCommitted) error
	PublishLowStock(ctx context.Context, ev LowStock) error
}

// NopPublisher descarta los eventos (Redis desactivado).
type NopPublisher struct{}

func (NopPublisher) PublishSaleCommitted(context.Context, SaleCommitted) error { return nil }
func (NopPublisher) PublishLowStock(context.Context, LowStock) error           { return nil }

// SummaryLine línea del resumen de un checkout.
type SummaryLine struct {
	Emoji    string
	Name     string
	Quantity int
	Total    decimal.Decimal
}

// CheckoutSummary resumen de un checkout para el webhook saliente.
type CheckoutSummary struct {
	SellerUsername string
	BuyerName      string
	BuyerID        string
	Lines          []SummaryLine
	Total          decimal.Decimal
	SellerProfit   decimal.Decimal
	OwnerProfit    decimal.Decimal
	CommissionRate decimal.Decimal
	At             time.Time
}

// SummarySender publica el resumen en un webhook (best-effort).
type SummarySender interface {
	Send(ctx context.Context, webhookURL string, s CheckoutSummary) error
}
