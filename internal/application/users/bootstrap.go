package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
)

// ErrOwnerExists ya hay un dono activo; los siguientes se crean desde la aplicación.
var ErrOwnerExists = errors.New("ya existe un usuario dono")

const bootstrapPageSize = 200

// BootstrapOwner crea el primer dono. Ningún actor puede crearlo desde la puerta
// porque nadie tiene rango mayor, así que solo se usa desde la CLI operativa.
// Con password vacío se genera una temporal y la cuenta queda marcada para rotarla.
func BootstrapOwner(ctx context.Context, userRepo repository.UserRepository, email, username, password string) (*dto.CreatedUserResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !govalidator.IsEmail(email) {
		return nil, domain.Invalid("email", "formato inválido")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	for offset := 0; ; offset += bootstrapPageSize {
		page, err := userRepo.List(ctx, bootstrapPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, u := range page {
			if u.Role == role.Dono && u.Active() {
				return nil, ErrOwnerExists
			}
		}
		if len(page) < bootstrapPageSize {
			break
		}
	}

	temporary := ""
	if password == "" {
		p, err := TemporaryPassword()
		if err != nil {
			return nil, err
		}
		password, temporary = p, p
	} else if len(password) < MinPasswordLength {
		return nil, domain.Invalid("password", fmt.Sprintf("mínimo %d caracteres", MinPasswordLength))
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
		Role:               role.Dono,
		Status:             entity.UserStatusActive,
		MustChangePassword: temporary != "",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, emailConflict(email)
		}
		return nil, err
	}
	return &dto.CreatedUserResponse{User: dto.ToUserResponse(u), TemporaryPassword: temporary}, nil
}
