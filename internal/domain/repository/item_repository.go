package repository

import (
	"context"

	"github.com/jhoicas/Vendas-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia del catálogo (usable con pool o tx).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); solo tiene efecto dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// ListAvailable ítems con quantity > 0 ordenados por nombre.
	ListAvailable(ctx context.Context) ([]*entity.Item, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
	// Update reescribe solo los metadatos; nunca toca quantity. Refresca item.Quantity con el valor vigente.
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id string) error
	// DecrementStock resta amount solo si quantity >= amount (check-and-set) y devuelve el stock restante.
	// Si la condición falla devuelve *domain.InsufficientStockError con el stock actual.
	DecrementStock(ctx context.Context, id string, amount int) (int, error)
	// IncrementStock suma amount de forma atómica (reposición) y devuelve el stock resultante.
	IncrementStock(ctx context.Context, id string, amount int) (int, error)
	// SetStock fija la cantidad en una sola sentencia (ajuste de inventario) y devuelve el valor guardado.
	SetStock(ctx context.Context, id string, quantity int) (int, error)
}
