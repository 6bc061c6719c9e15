package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Vendas-api/internal/application/actor"
	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/internal/application/users"
	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
	"github.com/jhoicas/Vendas-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login, contraseña y presencia.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register auto-registro. El rol es siempre membro; los ascensos pasan por la puerta de autorización.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !govalidator.IsEmail(email) {
		return nil, domain.Invalid("email", "formato inválido")
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	if len(in.Password) < users.MinPasswordLength {
		return nil, domain.Invalid("password", fmt.Sprintf("mínimo %d caracteres", users.MinPasswordLength))
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role.Membro,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	out := dto.ToUserResponse(user)
	return &out, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y contraseña incorrecta devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active() {
		return nil, domain.ErrForbidden
	}
	return uc.issue(user)
}

// Me perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	u, err := actor.Load(ctx, uc.userRepo, userID)
	if err != nil {
		return nil, err
	}
	assignable := role.Assignable(u.Role)
	names := make([]string, 0, len(assignable))
	for _, r := range assignable {
		names = append(names, r.String())
	}
	return &dto.MeResponse{User: dto.ToUserResponse(u), AssignableRoles: names}, nil
}

// ChangePassword rota la contraseña y limpia must_change_password.
// Devuelve un token nuevo sin la marca de rotación pendiente.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) (*dto.LoginResponse, error) {
	u, err := actor.Load(ctx, uc.userRepo, userID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return nil, domain.Invalid("current_password", "incorrecta")
	}
	if len(in.NewPassword) < users.MinPasswordLength {
		return nil, domain.Invalid("new_password", fmt.Sprintf("mínimo %d caracteres", users.MinPasswordLength))
	}
	if in.NewPassword == in.CurrentPassword {
		return nil, domain.Invalid("new_password", "debe ser distinta de la actual")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.UpdatePassword(ctx, u.ID, string(hash), false); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	u.PasswordHash = string(hash)
	u.MustChangePassword = false
	return uc.issue(u)
}

// SetPresence marca al usuario como en línea o desconectado.
func (uc *AuthUseCase) SetPresence(ctx context.Context, userID string, online bool) error {
	u, err := actor.Load(ctx, uc.userRepo, userID)
	if err != nil {
		return err
	}
	if u.IsOnline == online {
		return nil
	}
	return uc.userRepo.SetOnline(ctx, u.ID, online)
}

func (uc *AuthUseCase) issue(u *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, jwt.Identity{
		UserID:             u.ID,
		Role:               u.Role.String(),
		MustChangePassword: u.MustChangePassword,
	}, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: dto.ToUserResponse(u)}, nil
}
