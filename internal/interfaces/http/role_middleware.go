package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vendas-api/internal/application/actor"
	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
)

// RoleSource devuelve el rol persistido de un usuario.
type RoleSource interface {
	CurrentRole(ctx context.Context, userID string) (role.Role, error)
}

// StoredRoles lee el rol vigente desde el repositorio de usuarios.
type StoredRoles struct {
	Users actor.Loader
}

// CurrentRole rol de un usuario activo.
func (s StoredRoles) CurrentRole(ctx context.Context, userID string) (role.Role, error) {
	u, err := actor.Load(ctx, s.Users, userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// RequireMinRole rechaza con 403 si el rol no alcanza min.
// Debe usarse DESPUÉS de AuthMiddleware. Si el rol del token se queda corto se
// consulta roles, de modo que un ascenso posterior al login vale sin nuevo token.
// Los casos de uso vuelven a comprobar con el rol persistido, así que un token con
// un rol ya revocado no pasa de ahí.
func RequireMinRole(min role.Role, roles RoleSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if r, err := role.Parse(GetRole(c)); err == nil && role.AtLeast(r, min) {
			return c.Next()
		}
		if roles != nil {
			cur, err := roles.CurrentRole(c.UserContext(), GetUserID(c))
			if err == nil && role.AtLeast(cur, min) {
				c.Locals(LocalRole, cur.String())
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "se requiere rol " + min.String() + " o superior",
		})
	}
}
