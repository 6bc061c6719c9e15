// Package actor resuelve el principal que ejecuta una operación.
// El rol se lee siempre desde la base, nunca desde el token.
package actor

import (
	"context"

	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
)

// Loader subconjunto de UserRepository que necesita Load.
type Loader interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

var _ Loader = (repository.UserRepository)(nil)

// Load devuelve el usuario activo con ese ID.
// ErrUnauthorized si no existe; ErrForbidden si la cuenta está inactiva.
func Load(ctx context.Context, users Loader, id string) (*entity.User, error) {
	if id == "" {
		return nil, domain.ErrUnauthorized
	}
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	if !u.Active() {
		return nil, domain.ErrForbidden
	}
	return u, nil
}
