// Package users implementa la puerta de autorización: toda mutación de cuentas
// (alta, cambio de rol, baja) se decide aquí contra la jerarquía de roles.
package users

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Vendas-api/internal/application/actor"
	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
	"github.com/jhoicas/Vendas-api/pkg/logger"
)

// MinPasswordLength longitud mínima de cualquier contraseña.
const MinPasswordLength = 8

const (
	tempPasswordLength   = 12
	tempPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
)

// Gate casos de uso de gestión de usuarios.
type Gate struct {
	userRepo repository.UserRepository
	saleRepo repository.SaleRepository
	log      *logger.Logger
}

// NewGate construye la puerta de autorización.
func NewGate(userRepo repository.UserRepository, saleRepo repository.SaleRepository, log *logger.Logger) *Gate {
	return &Gate{userRepo: userRepo, saleRepo: saleRepo, log: log.Component("gate")}
}

// CreateUser da de alta una cuenta con un rol estrictamente inferior al del actor.
// La cuenta queda marcada para rotar la contraseña en el primer acceso.
func (g *Gate) CreateUser(ctx context.Context, actorID string, in dto.CreateUserRequest) (*dto.CreatedUserResponse, error) {
	p, err := actor.Load(ctx, g.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !govalidator.IsEmail(email) {
		return nil, domain.Invalid("email", "formato inválido")
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, domain.Invalid("username", "requerido")
	}
	r, err := role.Parse(in.Role)
	if err != nil {
		return nil, domain.Invalid("role", err.Error())
	}
	if !role.CanManage(p.Role, r) {
		return nil, domain.ErrForbidden
	}

	password, temporary := in.Password, ""
	if password == "" {
		if password, err = TemporaryPassword(); err != nil {
			return nil, err
		}
		temporary = password
	} else if len(password) < MinPasswordLength {
		return nil, domain.Invalid("password", fmt.Sprintf("mínimo %d caracteres", MinPasswordLength))
	}

	existing, err := g.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, emailConflict(email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	u := &entity.User{
		ID:                 uuid.New().String(),
		Email:              email,
		Username:           username,
		PasswordHash:       string(hash),
		Role:               r,
		Status:             entity.UserStatusActive,
		MustChangePassword: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := g.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, emailConflict(email)
		}
		return nil, err
	}
	g.log.Info().Str("actor_id", p.ID).Str("user_id", u.ID).Str("role", r.String()).Msg("usuario creado")
	return &dto.CreatedUserResponse{User: dto.ToUserResponse(u), TemporaryPassword: temporary}, nil
}

// ChangeRole exige poder gestionar tanto el rol actual del objetivo como el nuevo.
func (g *Gate) ChangeRole(ctx context.Context, actorID, targetID, newRole string) (*dto.UserResponse, error) {
	r, err := role.Parse(newRole)
	if err != nil {
		return nil, domain.Invalid("role", err.Error())
	}
	p, target, err := g.managed(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if !role.CanManage(p.Role, r) {
		return nil, domain.ErrForbidden
	}
	if target.Role == r {
		out := dto.ToUserResponse(target)
		return &out, nil
	}
	if err := g.userRepo.UpdateRole(ctx, target.ID, r); err != nil {
		return nil, err
	}
	g.log.Info().Str("actor_id", p.ID).Str("user_id", target.ID).
		Str("from", target.Role.String()).Str("to", r.String()).Msg("rol cambiado")
	target.Role = r
	out := dto.ToUserResponse(target)
	return &out, nil
}

// DeleteUser elimina la cuenta solo si no tiene ventas; en caso contrario
// devuelve ConflictError y la baja debe hacerse con DeactivateUser.
func (g *Gate) DeleteUser(ctx context.Context, actorID, targetID string) error {
	p, target, err := g.managed(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	n, err := g.saleRepo.CountBySeller(ctx, target.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return &domain.ConflictError{Entity: "user", ID: target.ID, Reason: "has_sales"}
	}
	if err := g.userRepo.Delete(ctx, target.ID); err != nil {
		return err
	}
	g.log.Info().Str("actor_id", p.ID).Str("user_id", target.ID).Msg("usuario eliminado")
	return nil
}

// DeactivateUser baja reversible que conserva el historial de ventas.
func (g *Gate) DeactivateUser(ctx context.Context, actorID, targetID string) (*dto.UserResponse, error) {
	return g.setStatus(ctx, actorID, targetID, entity.UserStatusInactive)
}

// ReactivateUser revierte DeactivateUser.
func (g *Gate) ReactivateUser(ctx context.Context, actorID, targetID string) (*dto.UserResponse, error) {
	return g.setStatus(ctx, actorID, targetID, entity.UserStatusActive)
}

// List usuarios de la organización (admin o superior).
func (g *Gate) List(ctx context.Context, actorID string, page dto.PageRequest) (*dto.UserListResponse, error) {
	p, err := actor.Load(ctx, g.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !role.AtLeast(p.Role, role.Admin) {
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	list, err := g.userRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, dto.ToUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// ListOnline usuarios activos con presencia marcada; visible para cualquier miembro.
func (g *Gate) ListOnline(ctx context.Context, actorID string) ([]dto.UserResponse, error) {
	if _, err := actor.Load(ctx, g.userRepo, actorID); err != nil {
		return nil, err
	}
	list, err := g.userRepo.ListOnline(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.ToUserResponse(u))
	}
	return out, nil
}

func (g *Gate) setStatus(ctx context.Context, actorID, targetID, status string) (*dto.UserResponse, error) {
	p, target, err := g.managed(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if target.Status != status {
		if err := g.userRepo.UpdateStatus(ctx, target.ID, status); err != nil {
			return nil, err
		}
		if status == entity.UserStatusInactive && target.IsOnline {
			if err := g.userRepo.SetOnline(ctx, target.ID, false); err != nil {
				return nil, err
			}
			target.IsOnline = false
		}
		g.log.Info().Str("actor_id", p.ID).Str("user_id", target.ID).Str("status", status).Msg("estado cambiado")
		target.Status = status
	}
	out := dto.ToUserResponse(target)
	return &out, nil
}

// managed carga actor y objetivo y verifica que el actor puede gestionarlo.
// Nadie se gestiona a sí mismo, aunque su rango lo permitiera.
func (g *Gate) managed(ctx context.Context, actorID, targetID string) (*entity.User, *entity.User, error) {
	p, err := actor.Load(ctx, g.userRepo, actorID)
	if err != nil {
		return nil, nil, err
	}
	if targetID == p.ID {
		return nil, nil, domain.ErrForbidden
	}
	target, err := g.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	if target == nil {
		return nil, nil, domain.ErrUserNotFound
	}
	if !role.CanManage(p.Role, target.Role) {
		return nil, nil, domain.ErrForbidden
	}
	return p, target, nil
}

func emailConflict(email string) error {
	return &domain.ConflictError{Entity: "user", ID: email, Reason: "email_exists"}
}

// TemporaryPassword genera una contraseña aleatoria sin caracteres ambiguos.
func TemporaryPassword() (string, error) {
	b := make([]byte, tempPasswordLength)
	size := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("generar contraseña temporal: %w", err)
		}
		b[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(b), nil
}
