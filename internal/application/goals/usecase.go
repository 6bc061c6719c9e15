// Package goals gestiona las metas de comisión y proyecta su avance sobre el libro de ventas.
package goals

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Vendas-api/internal/application/actor"
	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/goal"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
)

// UseCase metas de un usuario. Solo el dueño ve y elimina sus metas.
type UseCase struct {
	goalRepo repository.GoalRepository
	saleRepo repository.SaleRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(goalRepo repository.GoalRepository, saleRepo repository.SaleRepository, userRepo repository.UserRepository) *UseCase {
	return &UseCase{goalRepo: goalRepo, saleRepo: saleRepo, userRepo: userRepo, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Create registra una meta. Solo cuentan las ventas posteriores a su creación.
func (uc *UseCase) Create(ctx context.Context, ownerID string, in dto.CreateGoalRequest) (*dto.GoalResponse, error) {
	owner, err := actor.Load(ctx, uc.userRepo, ownerID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Invalid("title", "requerido")
	}
	target := in.TargetAmount.Round(2)
	if !target.IsPositive() {
		return nil, domain.Invalid("target_amount", "debe ser mayor que cero")
	}
	deadline, err := ParseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if deadline.Before(now) {
		return nil, domain.Invalid("deadline", "ya venció")
	}
	g := &entity.Goal{
		ID:           uuid.New().String(),
		UserID:       owner.ID,
		Title:        title,
		TargetAmount: target,
		Deadline:     deadline,
		CreatedAt:    now,
	}
	if err := uc.goalRepo.Create(ctx, g); err != nil {
		return nil, err
	}
	return uc.project(ctx, g, now)
}

// ListMine metas del usuario con su progreso.
func (uc *UseCase) ListMine(ctx context.Context, ownerID string) ([]dto.GoalResponse, error) {
	owner, err := actor.Load(ctx, uc.userRepo, ownerID)
	if err != nil {
		return nil, err
	}
	list, err := uc.goalRepo.ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := make([]dto.GoalResponse, 0, len(list))
	for _, g := range list {
		r, err := uc.project(ctx, g, now)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// Progress proyección de una meta propia.
func (uc *UseCase) Progress(ctx context.Context, ownerID, goalID string) (*dto.GoalResponse, error) {
	g, err := uc.owned(ctx, ownerID, goalID)
	if err != nil {
		return nil, err
	}
	return uc.project(ctx, g, uc.now())
}

// Delete elimina una meta propia.
func (uc *UseCase) Delete(ctx context.Context, ownerID, goalID string) error {
	g, err := uc.owned(ctx, ownerID, goalID)
	if err != nil {
		return err
	}
	return uc.goalRepo.Delete(ctx, g.ID)
}

// owned devuelve NotFound también para metas ajenas, sin revelar su existencia.
func (uc *UseCase) owned(ctx context.Context, ownerID, goalID string) (*entity.Goal, error) {
	owner, err := actor.Load(ctx, uc.userRepo, ownerID)
	if err != nil {
		return nil, err
	}
	g, err := uc.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if g == nil || g.UserID != owner.ID {
		return nil, fmt.Errorf("meta %s: %w", goalID, domain.ErrNotFound)
	}
	return g, nil
}

func (uc *UseCase) project(ctx context.Context, g *entity.Goal, now time.Time) (*dto.GoalResponse, error) {
	current, err := uc.saleRepo.SumSellerProfitSince(ctx, g.UserID, g.CreatedAt)
	if err != nil {
		return nil, err
	}
	p := goal.Project(g, current, now)
	return &dto.GoalResponse{
		ID:            g.ID,
		Title:         g.Title,
		TargetAmount:  g.TargetAmount,
		Deadline:      g.Deadline,
		CreatedAt:     g.CreatedAt,
		CurrentAmount: p.Current,
		Percent:       p.Percent,
		DaysRemaining: p.DaysRemaining,
		Status:        string(p.Status),
	}, nil
}

// ParseDeadline acepta YYYY-MM-DD (fin de ese día, UTC) o RFC3339.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.Add(24*time.Hour - time.Second), nil
	}
	return time.Time{}, domain.Invalid("deadline", "formato esperado YYYY-MM-DD o RFC3339")
}
