package repository

import (
	"context"

	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get devuelven (nil, nil) cuando no existe la fila.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	ListOnline(ctx context.Context) ([]*entity.User, error)
	// UpdateRole es exclusivo de la puerta de autorización.
	UpdateRole(ctx context.Context, id string, r role.Role) error
	UpdateStatus(ctx context.Context, id, status string) error
	UpdatePassword(ctx context.Context, id, passwordHash string, mustChange bool) error
	SetOnline(ctx context.Context, id string, online bool) error
	Delete(ctx context.Context, id string) error
}
