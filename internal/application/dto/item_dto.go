package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vendas-api/internal/domain/entity"
)

// CreateItemRequest entrada para crear un ítem.
type CreateItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Emoji       string          `json:"emoji"`
}

// UpdateItemRequest actualización parcial; los campos nil no cambian.
type UpdateItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"`
	Emoji       *string          `json:"emoji"`
}

// RestockRequest entrada de POST /api/items/:id/restock.
type RestockRequest struct {
	Quantity int `json:"quantity"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Emoji       string          `json:"emoji"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemListResponse lista de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  *PageResponse  `json:"page,omitempty"`
}

// ToItemResponse mapea la entidad a la salida.
func ToItemResponse(it *entity.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		Quantity:    it.Quantity,
		Emoji:       it.Emoji,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}
