package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo libro de ventas sobre PostgreSQL (usable con pool o tx). Solo inserta, nunca actualiza.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador del libro.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta una venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, item_id, seller_id, buyer_name, quantity, total_price, seller_profit, owner_profit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, nullIfEmpty(s.ItemID), s.SellerID, s.BuyerName, s.Quantity,
		s.TotalPrice, s.SellerProfit, s.OwnerProfit, s.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ConflictError{Entity: "sale", ID: s.ID, Reason: "missing_reference"}
		}
		return wrap("insert sale", err)
	}
	return nil
}

// List ventas más recientes primero, con nombre de ítem y vendedor.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.SaleView, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.SellerID != "" {
		add("s.seller_id = $%d", f.SellerID)
	}
	if f.BuyerName != "" {
		add("lower(s.buyer_name) = lower($%d)", f.BuyerName)
	}
	if f.Since != nil {
		add("s.created_at >= $%d", *f.Since)
	}

	var b strings.Builder
	b.WriteString(`
		SELECT s.id, COALESCE(s.item_id::text, ''), s.seller_id, s.buyer_name, s.quantity,
		       s.total_price, s.seller_profit, s.owner_profit, s.created_at,
		       COALESCE(i.name, ''), COALESCE(i.emoji, ''), COALESCE(u.username, '')
		FROM sales s
		LEFT JOIN items i ON i.id = s.item_id
		LEFT JOIN users u ON u.id = s.seller_id`)
	if len(where) > 0 {
		b.WriteString("\n\t\tWHERE " + strings.Join(where, " AND "))
	}
	args = append(args, f.Limit, f.Offset)
	fmt.Fprintf(&b, "\n\t\tORDER BY s.created_at DESC, s.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, wrap("list sales", err)
	}
	defer rows.Close()
	var list []*entity.SaleView
	for rows.Next() {
		var v entity.SaleView
		if err := rows.Scan(
			&v.ID, &v.ItemID, &v.SellerID, &v.BuyerName, &v.Quantity,
			&v.TotalPrice, &v.SellerProfit, &v.OwnerProfit, &v.CreatedAt,
			&v.ItemName, &v.ItemEmoji, &v.SellerUsername,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &v)
	}
	return list, wrap("list sales", rows.Err())
}

// CountBySeller número de ventas registradas por el vendedor.
func (r *SaleRepo) CountBySeller(ctx context.Context, sellerID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE seller_id = $1`, sellerID).Scan(&n); err != nil {
		return 0, wrap("count sales", err)
	}
	return n, nil
}

// SumSellerProfitSince acumulado de comisión del vendedor desde since (inclusive).
func (r *SaleRepo) SumSellerProfitSince(ctx context.Context, sellerID string, since time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(seller_profit), 0) FROM sales WHERE seller_id = $1 AND created_at >= $2`,
		sellerID, since).Scan(&sum)
	if err != nil {
		return decimal.Zero, wrap("sum seller profit", err)
	}
	return sum, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
