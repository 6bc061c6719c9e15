package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, description, price, quantity, emoji, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un ítem.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.Name, it.Description, it.Price, it.Quantity, it.Emoji, it.CreatedAt, it.UpdatedAt,
	)
	return wrap("insert item", err)
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.one(ctx, "get item", `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetForUpdate obtiene el ítem y bloquea la fila hasta el fin de la transacción.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.one(ctx, "get item for update", `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

// ListAvailable ítems con stock, ordenados por nombre.
func (r *ItemRepo) ListAvailable(ctx context.Context) ([]*entity.Item, error) {
	return r.many(ctx, "list available items",
		`SELECT `+itemColumns+` FROM items WHERE quantity > 0 ORDER BY name, id`)
}

// List todos los ítems.
func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	return r.many(ctx, "list items",
		`SELECT `+itemColumns+` FROM items ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
}

// Update reescribe los metadatos. quantity queda fuera: solo la mueven el libro y los ajustes atómicos.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items
		SET name = $2, description = $3, price = $4, emoji = $5, updated_at = $6
		WHERE id = $1
		RETURNING quantity`
	err := r.q.QueryRow(ctx, query, it.ID, it.Name, it.Description, it.Price, it.Emoji, it.UpdatedAt).Scan(&it.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("ítem %s: %w", it.ID, domain.ErrNotFound)
		}
		return wrap("update item", err)
	}
	return nil
}

// Delete elimina el ítem; las ventas quedan con item_id NULL.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return wrap("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ítem %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DecrementStock check-and-set: el UPDATE solo afecta la fila si hay stock suficiente.
// Si no afecta ninguna fila se relee la cantidad para informar el disponible.
func (r *ItemRepo) DecrementStock(ctx context.Context, id string, amount int) (int, error) {
	query := `
		UPDATE items SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2
		RETURNING quantity`
	var remaining int
	err := r.q.QueryRow(ctx, query, id, amount).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, wrap("decrement stock", err)
	}
	var available int
	if err := r.q.QueryRow(ctx, `SELECT quantity FROM items WHERE id = $1`, id).Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("ítem %s: %w", id, domain.ErrNotFound)
		}
		return 0, wrap("read stock", err)
	}
	return 0, &domain.InsufficientStockError{ItemID: id, Requested: amount, Available: available}
}

// IncrementStock suma unidades de forma atómica.
func (r *ItemRepo) IncrementStock(ctx context.Context, id string, amount int) (int, error) {
	var qty int
	err := r.q.QueryRow(ctx,
		`UPDATE items SET quantity = quantity + $2, updated_at = now() WHERE id = $1 RETURNING quantity`,
		id, amount).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("ítem %s: %w", id, domain.ErrNotFound)
		}
		return 0, wrap("increment stock", err)
	}
	return qty, nil
}

// SetStock fija la cantidad. El UPDATE toma el lock de la fila y espera a cualquier checkout en curso.
func (r *ItemRepo) SetStock(ctx context.Context, id string, quantity int) (int, error) {
	var qty int
	err := r.q.QueryRow(ctx,
		`UPDATE items SET quantity = $2, updated_at = now() WHERE id = $1 RETURNING quantity`,
		id, quantity).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("ítem %s: %w", id, domain.ErrNotFound)
		}
		return 0, wrap("set stock", err)
	}
	return qty, nil
}

func (r *ItemRepo) one(ctx context.Context, op, query string, args ...any) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return it, nil
}

func (r *ItemRepo) many(ctx context.Context, op, query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		list = append(list, it)
	}
	return list, wrap(op, rows.Err())
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	if err := row.Scan(
		&it.ID, &it.Name, &it.Description, &it.Price, &it.Quantity, &it.Emoji, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &it, nil
}
