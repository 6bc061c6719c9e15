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

var _ repository.GoalRepository = (*GoalRepo)(nil)

// GoalRepo metas sobre PostgreSQL.
type GoalRepo struct {
	q Querier
}

// NewGoalRepository construye el adaptador.
func NewGoalRepository(q Querier) *GoalRepo {
	return &GoalRepo{q: q}
}

func (r *GoalRepo) Create(ctx context.Context, g *entity.Goal) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO goals (id, user_id, title, target_amount, deadline, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		g.ID, g.UserID, g.Title, g.TargetAmount, g.Deadline, g.CreatedAt)
	return wrap("insert goal", err)
}

func (r *GoalRepo) GetByID(ctx context.Context, id string) (*entity.Goal, error) {
	var g entity.Goal
	err := r.q.QueryRow(ctx,
		`SELECT id, user_id, title, target_amount, deadline, created_at FROM goals WHERE id = $1`, id,
	).Scan(&g.ID, &g.UserID, &g.Title, &g.TargetAmount, &g.Deadline, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get goal", err)
	}
	return &g, nil
}

func (r *GoalRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Goal, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, user_id, title, target_amount, deadline, created_at
		 FROM goals WHERE user_id = $1 ORDER BY deadline, created_at`, userID)
	if err != nil {
		return nil, wrap("list goals", err)
	}
	defer rows.Close()
	var list []*entity.Goal
	for rows.Next() {
		var g entity.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetAmount, &g.Deadline, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		list = append(list, &g)
	}
	return list, wrap("list goals", rows.Err())
}

func (r *GoalRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return wrap("delete goal", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("meta %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
