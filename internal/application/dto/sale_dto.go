package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vendas-api/internal/domain/entity"
)

// CheckoutLineRequest línea del carrito.
type CheckoutLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// CheckoutRequest entrada de POST /api/sales/checkout.
type CheckoutRequest struct {
	BuyerName string                `json:"buyer_name"`
	BuyerID   string                `json:"buyer_id"`
	Items     []CheckoutLineRequest `json:"items"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id,omitempty"`
	ItemName       string          `json:"item_name,omitempty"`
	ItemEmoji      string          `json:"item_emoji,omitempty"`
	SellerID       string          `json:"seller_id"`
	SellerUsername string          `json:"seller_username,omitempty"`
	BuyerName      string          `json:"buyer_name"`
	Quantity       int             `json:"quantity"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	SellerProfit   decimal.Decimal `json:"seller_profit"`
	OwnerProfit    decimal.Decimal `json:"owner_profit"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CheckoutResponse ventas confirmadas y totales del carrito.
type CheckoutResponse struct {
	Sales          []SaleResponse  `json:"sales"`
	Total          decimal.Decimal `json:"total"`
	SellerProfit   decimal.Decimal `json:"seller_profit"`
	OwnerProfit    decimal.Decimal `json:"owner_profit"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ToSaleResponse mapea una venta (con o sin datos de catálogo).
func ToSaleResponse(s *entity.Sale) SaleResponse {
	return SaleResponse{
		ID:           s.ID,
		ItemID:       s.ItemID,
		SellerID:     s.SellerID,
		BuyerName:    s.BuyerName,
		Quantity:     s.Quantity,
		TotalPrice:   s.TotalPrice,
		SellerProfit: s.SellerProfit,
		OwnerProfit:  s.OwnerProfit,
		CreatedAt:    s.CreatedAt,
	}
}

// ToSaleViewResponse incluye nombre de ítem y vendedor.
func ToSaleViewResponse(v *entity.SaleView) SaleResponse {
	r := ToSaleResponse(&v.Sale)
	r.ItemName = v.ItemName
	r.ItemEmoji = v.ItemEmoji
	r.SellerUsername = v.SellerUsername
	return r
}
