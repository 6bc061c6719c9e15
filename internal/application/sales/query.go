package sales

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Vendas-api/internal/application/actor"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
)

// ListInput filtros del listado de ventas.
type ListInput struct {
	SellerID  string // ignorado para quien solo puede ver sus ventas
	BuyerName string
	Since     *time.Time
	Limit     int
	Offset    int
}

// QueryUseCase lecturas del libro de ventas.
type QueryUseCase struct {
	saleRepo repository.SaleRepository
	userRepo repository.UserRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(saleRepo repository.SaleRepository, userRepo repository.UserRepository) *QueryUseCase {
	return &QueryUseCase{saleRepo: saleRepo, userRepo: userRepo}
}

// List devuelve ventas recientes. Quien no tiene CanViewAllSales solo ve las propias.
// Filtrar por comprador permite re-consultar el libro tras un checkout con timeout antes de reintentar.
func (uc *QueryUseCase) List(ctx context.Context, actorID string, in ListInput) ([]*entity.SaleView, error) {
	a, err := actor.Load(ctx, uc.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	f := repository.SaleFilter{
		SellerID:  strings.TrimSpace(in.SellerID),
		BuyerName: strings.TrimSpace(in.BuyerName),
		Since:     in.Since,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if !role.CanViewAllSales(a.Role) {
		f.SellerID = a.ID
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.saleRepo.List(ctx, f)
}
