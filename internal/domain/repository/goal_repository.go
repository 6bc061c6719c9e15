package repository

import (
	"context"

	"github.com/jhoicas/Vendas-api/internal/domain/entity"
)

// GoalRepository puerto de persistencia de metas.
type GoalRepository interface {
	Create(ctx context.Context, g *entity.Goal) error
	GetByID(ctx context.Context, id string) (*entity.Goal, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Goal, error)
	Delete(ctx context.Context, id string) error
}
