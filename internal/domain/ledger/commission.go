package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vendas-api/internal/domain"
)

// moneyPlaces decimales con los que se persisten los importes (NUMERIC(14,2)).
const moneyPlaces = 2

// Split reparto de una línea de venta entre vendedor y organización.
type Split struct {
	Total        decimal.Decimal
	SellerProfit decimal.Decimal
	OwnerProfit  decimal.Decimal
}

// ValidateRate verifica que la comisión esté en [0, 1].
func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return domain.Invalid("commission_rate", "debe estar entre 0 y 1")
	}
	return nil
}

// SplitLine calcula el reparto (servicio de dominio):
//
//	Total        = Precio * Cantidad
//	SellerProfit = round(Total * Comisión, 2)
//	OwnerProfit  = Total - SellerProfit
//
// OwnerProfit se obtiene por resta para que la suma sea exacta tras el redondeo.
func SplitLine(price decimal.Decimal, quantity int, rate decimal.Decimal) Split {
	total := price.Mul(decimal.NewFromInt(int64(quantity))).Round(moneyPlaces)
	seller := total.Mul(rate).Round(moneyPlaces)
	return Split{
		Total:        total,
		SellerProfit: seller,
		OwnerProfit:  total.Sub(seller),
	}
}

// Add acumula otro reparto (totales del carrito).
func (s Split) Add(o Split) Split {
	return Split{
		Total:        s.Total.Add(o.Total),
		SellerProfit: s.SellerProfit.Add(o.SellerProfit),
		OwnerProfit:  s.OwnerProfit.Add(o.OwnerProfit),
	}
}
