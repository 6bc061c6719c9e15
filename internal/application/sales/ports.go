package sales

import (
	"context"

	"github.com/jhoicas/Vendas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que las ventas y los descuentos de stock de un carrito se confirman juntos o no se confirman.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
