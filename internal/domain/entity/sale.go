package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnonymousBuyer etiqueta usada cuando el comprador no se identifica.
const AnonymousBuyer = "Cliente Anônimo"

// Sale registro inmutable del libro de ventas.
// SellerProfit + OwnerProfit == TotalPrice siempre (OwnerProfit se obtiene por resta).
type Sale struct {
	ID           string
	ItemID       string // puede quedar vacío si el ítem se eliminó después
	SellerID     string
	BuyerName    string
	Quantity     int
	TotalPrice   decimal.Decimal
	SellerProfit decimal.Decimal
	OwnerProfit  decimal.Decimal
	CreatedAt    time.Time
}

// SaleView venta con los datos de catálogo y vendedor para listados.
type SaleView struct {
	Sale
	ItemName       string
	ItemEmoji      string
	SellerUsername string
}
