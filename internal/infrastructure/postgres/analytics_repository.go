package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Vendas-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre el libro de ventas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// filtro común: $1 vendedor ('' = todos), $2 desde (NULL = todo el historial).
const ledgerFilter = `
	WHERE ($1 = '' OR s.seller_id::text = $1)
	  AND ($2::timestamptz IS NULL OR s.created_at >= $2)`

const ledgerAggregates = `
	    COUNT(*)                             AS sales_count,
	    COALESCE(SUM(s.quantity),      0)    AS units_sold,
	    COALESCE(SUM(s.total_price),   0)    AS revenue,
	    COALESCE(SUM(s.seller_profit), 0)    AS seller_profit,
	    COALESCE(SUM(s.owner_profit),  0)    AS owner_profit`

// GetTotals totales del período. COALESCE devuelve cero si no hay ventas.
func (r *AnalyticsRepo) GetTotals(ctx context.Context, f repository.ReportFilter) (repository.LedgerTotals, error) {
	query := `SELECT` + ledgerAggregates + `
	FROM sales s` + ledgerFilter

	var t repository.LedgerTotals
	err := r.q.QueryRow(ctx, query, f.SellerID, f.Since).
		Scan(&t.SalesCount, &t.UnitsSold, &t.Revenue, &t.SellerProfit, &t.OwnerProfit)
	if err != nil {
		return repository.LedgerTotals{}, wrap("analytics.GetTotals", err)
	}
	return t, nil
}

// GetTotalsBySeller desglose por vendedor, mayor ingreso primero.
func (r *AnalyticsRepo) GetTotalsBySeller(ctx context.Context, f repository.ReportFilter) ([]repository.SellerTotalsResult, error) {
	query := `
	SELECT
	    s.seller_id::text,
	    COALESCE(u.username, ''),` + ledgerAggregates + `
	FROM sales s
	LEFT JOIN users u ON u.id = s.seller_id` + ledgerFilter + `
	GROUP BY s.seller_id, u.username
	ORDER BY revenue DESC, u.username`

	rows, err := r.q.Query(ctx, query, f.SellerID, f.Since)
	if err != nil {
		return nil, wrap("analytics.GetTotalsBySeller", err)
	}
	defer rows.Close()

	results := []repository.SellerTotalsResult{}
	for rows.Next() {
		var row repository.SellerTotalsResult
		if err := rows.Scan(
			&row.SellerID,
			&row.Username,
			&row.SalesCount,
			&row.UnitsSold,
			&row.Revenue,
			&row.SellerProfit,
			&row.OwnerProfit,
		); err != nil {
			return nil, fmt.Errorf("analytics.GetTotalsBySeller scan: %w", err)
		}
		results = append(results, row)
	}
	return results, wrap("analytics.GetTotalsBySeller rows", rows.Err())
}

// GetTopItems ítems con más unidades vendidas. Las ventas de ítems eliminados se agrupan con item_id vacío.
func (r *AnalyticsRepo) GetTopItems(ctx context.Context, f repository.ReportFilter, limit int) ([]repository.ItemTotalsResult, error) {
	query := `
	SELECT
	    COALESCE(s.item_id::text, ''),
	    COALESCE(i.name,  ''),
	    COALESCE(i.emoji, ''),` + ledgerAggregates + `
	FROM sales s
	LEFT JOIN items i ON i.id = s.item_id` + ledgerFilter + `
	GROUP BY s.item_id, i.name, i.emoji
	ORDER BY units_sold DESC, revenue DESC
	LIMIT $3`

	rows, err := r.q.Query(ctx, query, f.SellerID, f.Since, limit)
	if err != nil {
		return nil, wrap("analytics.GetTopItems", err)
	}
	defer rows.Close()

	results := []repository.ItemTotalsResult{}
	for rows.Next() {
		var row repository.ItemTotalsResult
		if err := rows.Scan(
			&row.ItemID,
			&row.ItemName,
			&row.Emoji,
			&row.SalesCount,
			&row.UnitsSold,
			&row.Revenue,
			&row.SellerProfit,
			&row.OwnerProfit,
		); err != nil {
			return nil, fmt.Errorf("analytics.GetTopItems scan: %w", err)
		}
		results = append(results, row)
	}
	return results, wrap("analytics.GetTopItems rows", rows.Err())
}
