package entity

import (
	"time"

	"github.com/jhoicas/Vendas-api/internal/domain/role"
)

// Estados de la cuenta. Inactive es la baja reversible que preserva el historial de ventas.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un miembro de la organización.
type User struct {
	ID                 string
	Email              string
	Username           string
	PasswordHash       string // bcrypt hash, nunca plano en dominio después de persistir
	Role               role.Role
	Status             string
	MustChangePassword bool // cuentas creadas por un superior deben rotar la contraseña
	IsOnline           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Active indica si la cuenta puede operar.
func (u *User) Active() bool { return u.Status == UserStatusActive }
