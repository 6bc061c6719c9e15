package dto

import (
	"time"

	"github.com/jhoicas/Vendas-api/internal/domain/entity"
)

// CreateUserRequest alta de un usuario por un superior. Password vacío genera una temporal.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// RegisterRequest auto-registro; el rol siempre es membro.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangeRoleRequest entrada de PUT /api/users/:id/role.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// ChangePasswordRequest entrada de POST /api/me/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PresenceRequest entrada de PUT /api/me/presence.
type PresenceRequest struct {
	Online bool `json:"online"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Username           string    `json:"username"`
	Role               string    `json:"role"`
	Status             string    `json:"status"`
	MustChangePassword bool      `json:"must_change_password"`
	IsOnline           bool      `json:"is_online"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CreatedUserResponse incluye la contraseña temporal generada (solo se devuelve una vez).
type CreatedUserResponse struct {
	User              UserResponse `json:"user"`
	TemporaryPassword string       `json:"temporary_password,omitempty"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token JWT más el usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MeResponse perfil del usuario autenticado con los roles que puede asignar.
type MeResponse struct {
	User            UserResponse `json:"user"`
	AssignableRoles []string     `json:"assignable_roles"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ToUserResponse mapea la entidad a la salida pública.
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Username:           u.Username,
		Role:               u.Role.String(),
		Status:             u.Status,
		MustChangePassword: u.MustChangePassword,
		IsOnline:           u.IsOnline,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
