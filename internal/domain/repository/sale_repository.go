package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vendas-api/internal/domain/entity"
)

// SaleFilter criterios de listado del libro de ventas. Campos vacíos no filtran.
type SaleFilter struct {
	SellerID  string
	BuyerName string
	Since     *time.Time
	Limit     int
	Offset    int
}

// SaleRepository puerto del libro de ventas (append-only).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, f SaleFilter) ([]*entity.SaleView, error)
	CountBySeller(ctx context.Context, sellerID string) (int, error)
	// SumSellerProfitSince suma seller_profit de las ventas del vendedor con created_at >= since.
	SumSellerProfitSince(ctx context.Context, sellerID string, since time.Time) (decimal.Decimal, error)
}
