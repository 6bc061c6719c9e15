package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/pkg/jwt"
)

// Locals keys de la identidad extraída del token.
const (
	LocalUserID             = "user_id"
	LocalRole               = "role"
	LocalMustChangePassword = "must_change_password"
)

// AuthMiddleware valida el Bearer Token JWT y carga la identidad en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || id.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalRole, id.Role)
		c.Locals(LocalMustChangePassword, id.MustChangePassword)
		return c.Next()
	}
}

// RequirePasswordRotated bloquea con 403 MUST_CHANGE_PASSWORD a las cuentas que aún usan
// la contraseña temporal, salvo en las rutas indicadas. Debe usarse DESPUÉS de AuthMiddleware.
func RequirePasswordRotated(allowedPaths ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(allowedPaths))
	for _, p := range allowedPaths {
		allowed[strings.TrimRight(p, "/")] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		if !MustChangePassword(c) {
			return c.Next()
		}
		if _, ok := allowed[strings.TrimRight(c.Path(), "/")]; ok {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "MUST_CHANGE_PASSWORD",
			Message: "debe cambiar la contraseña temporal antes de continuar",
		})
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol declarado en el token. Solo sirve de pre-filtro.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// MustChangePassword indica si el token pertenece a una cuenta con contraseña temporal.
func MustChangePassword(c *fiber.Ctx) bool {
	b, _ := c.Locals(LocalMustChangePassword).(bool)
	return b
}
