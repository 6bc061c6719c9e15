// Package reports contiene los agregados contables derivados del libro de ventas.
package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Vendas-api/internal/application/actor"
	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/internal/application/ports"
	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
)

const topItems = 5 // ítems en el ranking del resumen

// ErrNoRenderer el servidor no tiene generador de PDF configurado.
var ErrNoRenderer = errors.New("reports: generador de PDF no configurado")

// UseCase resúmenes del libro. Solo lectura.
type UseCase struct {
	analyticsRepo repository.AnalyticsRepository
	userRepo      repository.UserRepository
	renderer      ports.ReportRenderer
	now           func() time.Time
}

// NewUseCase construye el caso de uso. renderer puede ser nil.
func NewUseCase(analyticsRepo repository.AnalyticsRepository, userRepo repository.UserRepository, renderer ports.ReportRenderer) *UseCase {
	return &UseCase{analyticsRepo: analyticsRepo, userRepo: userRepo, renderer: renderer, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Since inicio del período: today = medianoche local, week = 7 días, month = 30 días, all = nil.
func Since(period string, now time.Time) (*time.Time, error) {
	var t time.Time
	switch strings.ToLower(strings.TrimSpace(period)) {
	case dto.PeriodToday:
		t = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case dto.PeriodWeek:
		t = now.AddDate(0, 0, -7)
	case dto.PeriodMonth:
		t = now.AddDate(0, 0, -30)
	case dto.PeriodAll, "":
		return nil, nil
	default:
		return nil, domain.Invalid("period", "valores: today, week, month, all")
	}
	return &t, nil
}

// Summary resumen de toda la organización (CanViewFinancials).
//
// Tres consultas en paralelo:
//  1. GetTotals          → totales del período
//  2. GetTotalsBySeller  → desglose por vendedor
//  3. GetTopItems        → ranking de ítems
func (uc *UseCase) Summary(ctx context.Context, actorID, period string) (*dto.SummaryDTO, error) {
	a, err := actor.Load(ctx, uc.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !role.CanViewFinancials(a.Role) {
		return nil, domain.ErrForbidden
	}
	now := uc.now()
	since, err := Since(period, now)
	if err != nil {
		return nil, err
	}
	f := repository.ReportFilter{Since: since}

	type totalsResult struct {
		t   repository.LedgerTotals
		err error
	}
	type sellersResult struct {
		rows []repository.SellerTotalsResult
		err  error
	}
	type itemsResult struct {
		rows []repository.ItemTotalsResult
		err  error
	}
	totalsCh := make(chan totalsResult, 1)
	sellersCh := make(chan sellersResult, 1)
	itemsCh := make(chan itemsResult, 1)

	go func() {
		t, err := uc.analyticsRepo.GetTotals(ctx, f)
		totalsCh <- totalsResult{t, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetTotalsBySeller(ctx, f)
		sellersCh <- sellersResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetTopItems(ctx, f, topItems)
		itemsCh <- itemsResult{rows, err}
	}()

	totals := <-totalsCh
	sellers := <-sellersCh
	items := <-itemsCh

	if totals.err != nil {
		return nil, fmt.Errorf("reports: totales: %w", totals.err)
	}
	if sellers.err != nil {
		return nil, fmt.Errorf("reports: por vendedor: %w", sellers.err)
	}
	if items.err != nil {
		return nil, fmt.Errorf("reports: top ítems: %w", items.err)
	}

	out := &dto.SummaryDTO{
		Period:      normalize(period),
		Since:       since,
		GeneratedAt: now,
		Totals:      toTotals(totals.t),
		BySeller:    make([]dto.SellerTotalsDTO, 0, len(sellers.rows)),
		TopItems:    make([]dto.TopItemDTO, 0, len(items.rows)),
	}
	for _, r := range sellers.rows {
		out.BySeller = append(out.BySeller, dto.SellerTotalsDTO{SellerID: r.SellerID, Username: r.Username, TotalsDTO: toTotals(r.LedgerTotals)})
	}
	for _, r := range items.rows {
		name := r.ItemName
		if r.ItemID == "" {
			name = "(ítem eliminado)"
		}
		out.TopItems = append(out.TopItems, dto.TopItemDTO{ItemID: r.ItemID, ItemName: name, Emoji: r.Emoji, TotalsDTO: toTotals(r.LedgerTotals)})
	}
	return out, nil
}

// MySummary totales del propio actor; disponible para cualquier rol.
func (uc *UseCase) MySummary(ctx context.Context, actorID, period string) (*dto.MySummaryDTO, error) {
	a, err := actor.Load(ctx, uc.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	since, err := Since(period, uc.now())
	if err != nil {
		return nil, err
	}
	t, err := uc.analyticsRepo.GetTotals(ctx, repository.ReportFilter{SellerID: a.ID, Since: since})
	if err != nil {
		return nil, err
	}
	return &dto.MySummaryDTO{Period: normalize(period), Totals: toTotals(t)}, nil
}

// SummaryPDF renderiza Summary como PDF.
func (uc *UseCase) SummaryPDF(ctx context.Context, actorID, period string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, ErrNoRenderer
	}
	s, err := uc.Summary(ctx, actorID, period)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderSummary(s)
}

func normalize(period string) string {
	p := strings.ToLower(strings.TrimSpace(period))
	if p == "" {
		return dto.PeriodAll
	}
	return p
}

func toTotals(t repository.LedgerTotals) dto.TotalsDTO {
	return dto.TotalsDTO{
		SalesCount:   t.SalesCount,
		UnitsSold:    t.UnitsSold,
		Revenue:      t.Revenue.Round(2),
		SellerProfit: t.SellerProfit.Round(2),
		OwnerProfit:  t.OwnerProfit.Round(2),
	}
}
