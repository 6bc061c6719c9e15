package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vendas-api/internal/application/actor"
	"github.com/jhoicas/Vendas-api/internal/application/ports"
	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/ledger"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
	"github.com/jhoicas/Vendas-api/pkg/logger"
)

// Config parámetros del libro de ventas.
type Config struct {
	DefaultCommissionRate decimal.Decimal
	LowStockThreshold     int
	NotifyTimeout         time.Duration
}

// CartLine línea del carrito. Los ItemID no se repiten: el llamador fusiona duplicados.
type CartLine struct {
	ItemID   string
	Quantity int
}

// CheckoutInput entrada de un checkout.
type CheckoutInput struct {
	SellerID  string
	BuyerName string
	BuyerID   string // identificador libre del comprador, solo para el resumen
	Lines     []CartLine
}

// CheckoutResult ventas confirmadas (en el orden del carrito) y totales.
type CheckoutResult struct {
	Sales          []*entity.Sale
	Items          map[string]*entity.Item // estado del ítem tras el descuento
	Totals         ledger.Split
	CommissionRate decimal.Decimal
}

// CheckoutUseCase es el único escritor de ventas y el único que descuenta stock por venta.
type CheckoutUseCase struct {
	txRunner  TxRunner
	userRepo  repository.UserRepository
	settings  repository.SettingsRepository
	publisher ports.EventPublisher
	webhook   ports.SummarySender
	cfg       Config
	log       *logger.Logger
	now       func() time.Time

	wg sync.WaitGroup
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	settings repository.SettingsRepository,
	publisher ports.EventPublisher,
	webhook ports.SummarySender,
	cfg Config,
	log *logger.Logger,
) *CheckoutUseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 5 * time.Second
	}
	return &CheckoutUseCase{
		txRunner:  txRunner,
		userRepo:  userRepo,
		settings:  settings,
		publisher: publisher,
		webhook:   webhook,
		cfg:       cfg,
		log:       log.Component("ledger"),
		now:       time.Now,
	}
}

// Checkout valida el carrito, relee precio y stock de cada ítem dentro de una transacción,
// calcula el reparto de comisión, descuenta stock con check-and-set y registra una venta por línea.
// Cualquier línea inválida aborta todo el carrito (sin confirmaciones parciales).
// Repetir el mismo carrito genera ventas nuevas: el checkout no es idempotente.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if err := validateCart(in.Lines); err != nil {
		return nil, err
	}
	seller, err := actor.Load(ctx, uc.userRepo, in.SellerID)
	if err != nil {
		return nil, err
	}
	rate, err := uc.commissionRate(ctx)
	if err != nil {
		return nil, err
	}

	buyer := strings.TrimSpace(in.BuyerName)
	if buyer == "" {
		buyer = entity.AnonymousBuyer
	}

	// Orden de bloqueo determinista para que dos carritos con los mismos ítems no se bloqueen mutuamente.
	ordered := make([]CartLine, len(in.Lines))
	copy(ordered, in.Lines)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ItemID < ordered[j].ItemID })

	now := uc.now()
	byItem := make(map[string]*entity.Sale, len(ordered))
	items := make(map[string]*entity.Item, len(ordered))
	var lowStock []ports.LowStock
	var totals ledger.Split

	err = uc.txRunner.RunLedger(ctx, func(itemRepo repository.ItemRepository, saleRepo repository.SaleRepository) error {
		for _, line := range ordered {
			item, err := itemRepo.GetForUpdate(ctx, line.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("ítem %s: %w", line.ItemID, domain.ErrNotFound)
			}
			if line.Quantity > item.Quantity {
				return &domain.InsufficientStockError{ItemID: item.ID, Requested: line.Quantity, Available: item.Quantity}
			}

			split := ledger.SplitLine(item.Price, line.Quantity, rate)
			before := item.Quantity
			remaining, err := itemRepo.DecrementStock(ctx, item.ID, line.Quantity)
			if err != nil {
				return err
			}

			sale := &entity.Sale{
				ID:           uuid.New().String(),
				ItemID:       item.ID,
				SellerID:     seller.ID,
				BuyerName:    buyer,
				Quantity:     line.Quantity,
				TotalPrice:   split.Total,
				SellerProfit: split.SellerProfit,
				OwnerProfit:  split.OwnerProfit,
				CreatedAt:    now,
			}
			if err := saleRepo.Create(ctx, sale); err != nil {
				return err
			}

			item.Quantity = remaining
			items[item.ID] = item
			byItem[item.ID] = sale
			totals = totals.Add(split)
			if before >= uc.cfg.LowStockThreshold && remaining < uc.cfg.LowStockThreshold {
				lowStock = append(lowStock, ports.LowStock{
					ItemID: item.ID, ItemName: item.Name, Remaining: remaining,
					Threshold: uc.cfg.LowStockThreshold, At: now,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &CheckoutResult{
		Sales:          make([]*entity.Sale, 0, len(in.Lines)),
		Items:          items,
		Totals:         totals,
		CommissionRate: rate,
	}
	for _, line := range in.Lines {
		res.Sales = append(res.Sales, byItem[line.ItemID])
	}

	uc.dispatch(seller, in.BuyerID, res, lowStock)
	return res, nil
}

// Wait bloquea hasta que terminen las notificaciones en curso (apagado ordenado, tests).
func (uc *CheckoutUseCase) Wait() {
	uc.wg.Wait()
}

func validateCart(lines []CartLine) error {
	if len(lines) == 0 {
		return domain.Invalid("items", "el carrito está vacío")
	}
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if l.ItemID == "" {
			return domain.Invalid("item_id", "requerido")
		}
		if l.Quantity <= 0 {
			return domain.Invalid("quantity", "debe ser mayor que cero")
		}
		if _, dup := seen[l.ItemID]; dup {
			return domain.Invalid("items", "ítem repetido: "+l.ItemID)
		}
		seen[l.ItemID] = struct{}{}
	}
	return nil
}

// commissionRate lee system_settings.commission_rate; si no existe usa el valor de configuración.
func (uc *CheckoutUseCase) commissionRate(ctx context.Context) (decimal.Decimal, error) {
	rate := uc.cfg.DefaultCommissionRate
	if uc.settings != nil {
		v, ok, err := uc.settings.Get(ctx, entity.SettingCommissionRate)
		if err != nil {
			return decimal.Zero, err
		}
		if ok && strings.TrimSpace(v) != "" {
			parsed, err := decimal.NewFromString(strings.TrimSpace(v))
			if err != nil {
				return decimal.Zero, fmt.Errorf("system_settings.commission_rate inválido %q: %w", v, err)
			}
			rate = parsed
		}
	}
	if err := ledger.ValidateRate(rate); err != nil {
		return decimal.Zero, err
	}
	return rate, nil
}

// dispatch emite eventos y el webhook fuera de la petición; los fallos solo se registran.
func (uc *CheckoutUseCase) dispatch(seller *entity.User, buyerID string, res *CheckoutResult, lowStock []ports.LowStock) {
	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), uc.cfg.NotifyTimeout)
		defer cancel()

		for _, s := range res.Sales {
			ev := ports.SaleCommitted{Sale: *s, SellerUsername: seller.Username}
			if it := res.Items[s.ItemID]; it != nil {
				ev.ItemName = it.Name
			}
			if err := uc.publisher.PublishSaleCommitted(ctx, ev); err != nil {
				uc.log.Warn().Err(err).Str("sale_id", s.ID).Msg("publicar SaleCommitted")
			}
		}
		for _, ev := range lowStock {
			if err := uc.publisher.PublishLowStock(ctx, ev); err != nil {
				uc.log.Warn().Err(err).Str("item_id", ev.ItemID).Msg("publicar LowStock")
			}
		}

		if uc.webhook == nil || uc.settings == nil {
			return
		}
		url, ok, err := uc.settings.Get(ctx, entity.SettingDiscordWebhook)
		if err != nil {
			uc.log.Warn().Err(err).Msg("leer webhook")
			return
		}
		url = strings.TrimSpace(url)
		if !ok || url == "" {
			return
		}
		if err := uc.webhook.Send(ctx, url, buildSummary(seller, buyerID, res)); err != nil {
			uc.log.Warn().Err(err).Msg("enviar resumen al webhook")
		}
	}()
}

func buildSummary(seller *entity.User, buyerID string, res *CheckoutResult) ports.CheckoutSummary {
	s := ports.CheckoutSummary{
		SellerUsername: seller.Username,
		BuyerID:        buyerID,
		Total:          res.Totals.Total,
		SellerProfit:   res.Totals.SellerProfit,
		OwnerProfit:    res.Totals.OwnerProfit,
		CommissionRate: res.CommissionRate,
	}
	for _, sale := range res.Sales {
		s.BuyerName = sale.BuyerName
		s.At = sale.CreatedAt
		line := ports.SummaryLine{Quantity: sale.Quantity, Total: sale.TotalPrice}
		if it := res.Items[sale.ItemID]; it != nil {
			line.Name, line.Emoji = it.Name, it.Emoji
		}
		s.Lines = append(s.Lines, line)
	}
	return s
}
