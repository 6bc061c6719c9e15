// Package catalog contiene los casos de uso del catálogo de ítems.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vendas-api/internal/application/actor"
	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
)

// UseCase CRUD del catálogo. Las ventas no pasan por aquí: el stock se descuenta en el libro.
type UseCase struct {
	repo     repository.ItemRepository
	userRepo repository.UserRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ItemRepository, userRepo repository.UserRepository) *UseCase {
	return &UseCase{repo: repo, userRepo: userRepo}
}

// ListAvailable ítems con stock, visibles para cualquier usuario activo.
func (uc *UseCase) ListAvailable(ctx context.Context, actorID string) (*dto.ItemListResponse, error) {
	if _, err := actor.Load(ctx, uc.userRepo, actorID); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	return toList(list, nil), nil
}

// List todos los ítems, incluidos los agotados.
func (uc *UseCase) List(ctx context.Context, actorID string, page dto.PageRequest) (*dto.ItemListResponse, error) {
	if _, err := actor.Load(ctx, uc.userRepo, actorID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toList(list, &dto.PageResponse{Limit: page.Limit, Offset: page.Offset}), nil
}

// Get obtiene un ítem por ID.
func (uc *UseCase) Get(ctx context.Context, actorID, id string) (*dto.ItemResponse, error) {
	if _, err := actor.Load(ctx, uc.userRepo, actorID); err != nil {
		return nil, err
	}
	it, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToItemResponse(it)
	return &out, nil
}

// Create da de alta un ítem.
func (uc *UseCase) Create(ctx context.Context, actorID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := uc.authorize(ctx, actorID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "requerido")
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	if in.Quantity < 0 {
		return nil, domain.Invalid("quantity", "no puede ser negativa")
	}
	now := time.Now()
	it := &entity.Item{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round(2),
		Quantity:    in.Quantity,
		Emoji:       strings.TrimSpace(in.Emoji),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	out := dto.ToItemResponse(it)
	return &out, nil
}

// Update modifica los metadatos presentes. quantity, si viene, es un ajuste de inventario
// absoluto aplicado en una sola sentencia; nunca se reescribe el stock leído al inicio.
func (uc *UseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := uc.authorize(ctx, actorID); err != nil {
		return nil, err
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.Invalid("quantity", "no puede ser negativa")
	}
	it, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name", "requerido")
		}
		it.Name = name
	}
	if in.Description != nil {
		it.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
		it.Price = in.Price.Round(2)
	}
	if in.Emoji != nil {
		it.Emoji = strings.TrimSpace(*in.Emoji)
	}
	it.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	if in.Quantity != nil {
		qty, err := uc.repo.SetStock(ctx, it.ID, *in.Quantity)
		if err != nil {
			return nil, err
		}
		it.Quantity = qty
	}
	out := dto.ToItemResponse(it)
	return &out, nil
}

// Restock suma unidades con un UPDATE aditivo, sin pisar ventas concurrentes.
func (uc *UseCase) Restock(ctx context.Context, actorID, id string, quantity int) (*dto.ItemResponse, error) {
	if err := uc.authorize(ctx, actorID); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	it, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	remaining, err := uc.repo.IncrementStock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	it.Quantity = remaining
	out := dto.ToItemResponse(it)
	return &out, nil
}

// Delete elimina el ítem. Las ventas históricas conservan sus importes.
func (uc *UseCase) Delete(ctx context.Context, actorID, id string) error {
	if err := uc.authorize(ctx, actorID); err != nil {
		return err
	}
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *UseCase) authorize(ctx context.Context, actorID string) error {
	a, err := actor.Load(ctx, uc.userRepo, actorID)
	if err != nil {
		return err
	}
	if !role.CanManageCatalog(a.Role) {
		return domain.ErrForbidden
	}
	return nil
}

func (uc *UseCase) find(ctx context.Context, id string) (*entity.Item, error) {
	it, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("ítem %s: %w", id, domain.ErrNotFound)
	}
	return it, nil
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.Invalid("price", "no puede ser negativo")
	}
	return nil
}

func toList(list []*entity.Item, page *dto.PageResponse) *dto.ItemListResponse {
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, dto.ToItemResponse(it))
	}
	return &dto.ItemListResponse{Items: items, Page: page}
}
