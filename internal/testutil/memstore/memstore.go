// Package memstore implementa los puertos de repositorio en memoria para los tests de casos de uso.
//
// Las transacciones del libro se serializan (equivalente al bloqueo de fila) y se revierten
// restaurando una instantánea de ítems y ventas si la función devuelve error.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users    map[string]*entity.User
	items    map[string]*entity.Item
	sales    []*entity.Sale
	goals    map[string]*entity.Goal
	settings map[string]string

	// Errores inyectables.
	FailSaleCreate error
	FailSettings   error
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		users:    map[string]*entity.User{},
		items:    map[string]*entity.Item{},
		goals:    map[string]*entity.Goal{},
		settings: map[string]string{},
	}
}

// ── Helpers de preparación ──────────────────────────────────────────────────

// PutUser inserta o reemplaza un usuario.
func (s *Store) PutUser(u *entity.User) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Status == "" {
		u.Status = entity.UserStatusActive
	}
	cp := *u
	s.users[u.ID] = &cp
	return u
}

// PutItem inserta o reemplaza un ítem.
func (s *Store) PutItem(it *entity.Item) *entity.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *it
	s.items[it.ID] = &cp
	return it
}

// PutSale agrega una venta sin pasar por el libro.
func (s *Store) PutSale(sale *entity.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sale
	s.sales = append(s.sales, &cp)
}

// SetSetting fija una clave de system_settings.
func (s *Store) SetSetting(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
}

// Item devuelve una copia del ítem (o nil).
func (s *Store) Item(id string) *entity.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[id]; ok {
		cp := *it
		return &cp
	}
	return nil
}

// User devuelve una copia del usuario (o nil).
func (s *Store) User(id string) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

// Sales devuelve copias de todas las ventas.
func (s *Store) Sales() []entity.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		out = append(out, *sale)
	}
	return out
}

// ── Repositorios ────────────────────────────────────────────────────────────

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// Items repositorio del catálogo.
func (s *Store) Items() repository.ItemRepository { return &itemRepo{s} }

// SalesRepo repositorio del libro.
func (s *Store) SalesRepo() repository.SaleRepository { return &saleRepo{s} }

// Goals repositorio de metas.
func (s *Store) Goals() repository.GoalRepository { return &goalRepo{s} }

// Settings repositorio de system_settings.
func (s *Store) Settings() repository.SettingsRepository { return &settingsRepo{s} }

// Analytics repositorio de agregados.
func (s *Store) Analytics() repository.AnalyticsRepository { return &analyticsRepo{s} }

// RunLedger serializa las transacciones del libro y revierte ítems y ventas si fn falla.
func (s *Store) RunLedger(ctx context.Context, fn func(repository.ItemRepository, repository.SaleRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := make(map[string]*entity.Item, len(s.items))
	for id, it := range s.items {
		cp := *it
		snapshot[id] = &cp
	}
	salesLen := len(s.sales)
	s.mu.Unlock()

	if err := fn(s.Items(), s.SalesRepo()); err != nil {
		s.mu.Lock()
		s.items = snapshot
		s.sales = s.sales[:salesLen]
		s.mu.Unlock()
		return err
	}
	return nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.s.User(id), nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.User
	for _, u := range r.s.users {
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return page(all, limit, offset), nil
}

func (r *userRepo) ListOnline(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if u.IsOnline && u.Active() {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *userRepo) mutate(id string, fn func(u *entity.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

func (r *userRepo) UpdateRole(_ context.Context, id string, rl role.Role) error {
	return r.mutate(id, func(u *entity.User) { u.Role = rl })
}

func (r *userRepo) UpdateStatus(_ context.Context, id, status string) error {
	return r.mutate(id, func(u *entity.User) { u.Status = status })
}

func (r *userRepo) UpdatePassword(_ context.Context, id, hash string, mustChange bool) error {
	return r.mutate(id, func(u *entity.User) { u.PasswordHash = hash; u.MustChangePassword = mustChange })
}

func (r *userRepo) SetOnline(_ context.Context, id string, online bool) error {
	return r.mutate(id, func(u *entity.User) { u.IsOnline = online })
}

// Delete respeta la FK sales.seller_id ON DELETE RESTRICT.
func (r *userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sale := range r.s.sales {
		if sale.SellerID == id {
			return &domain.ConflictError{Entity: "user", ID: id, Reason: "has_sales"}
		}
	}
	delete(r.s.users, id)
	for gid, g := range r.s.goals {
		if g.UserID == id {
			delete(r.s.goals, gid)
		}
	}
	return nil
}

type itemRepo struct{ s *Store }

func (r *itemRepo) Create(_ context.Context, it *entity.Item) error {
	r.s.PutItem(it)
	return nil
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	return r.s.Item(id), nil
}

func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepo) ListAvailable(_ context.Context) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Item
	for _, it := range r.s.items {
		if it.Quantity > 0 {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *itemRepo) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Item
	for _, it := range r.s.items {
		cp := *it
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

func (r *itemRepo) Update(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.items[it.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name, cur.Description, cur.Price, cur.Emoji, cur.UpdatedAt = it.Name, it.Description, it.Price, it.Emoji, it.UpdatedAt
	it.Quantity = cur.Quantity
	return nil
}

func (r *itemRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.items, id)
	for _, sale := range r.s.sales {
		if sale.ItemID == id {
			sale.ItemID = "" // ON DELETE SET NULL
		}
	}
	return nil
}

func (r *itemRepo) DecrementStock(_ context.Context, id string, amount int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if it.Quantity < amount {
		return 0, &domain.InsufficientStockError{ItemID: id, Requested: amount, Available: it.Quantity}
	}
	it.Quantity -= amount
	it.UpdatedAt = time.Now()
	return it.Quantity, nil
}

func (r *itemRepo) IncrementStock(_ context.Context, id string, amount int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	it.Quantity += amount
	it.UpdatedAt = time.Now()
	return it.Quantity, nil
}

func (r *itemRepo) SetStock(_ context.Context, id string, quantity int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	it.Quantity = quantity
	it.UpdatedAt = time.Now()
	return it.Quantity, nil
}

type saleRepo struct{ s *Store }

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if r.s.FailSaleCreate != nil {
		return r.s.FailSaleCreate
	}
	r.s.PutSale(sale)
	return nil
}

func (r *saleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.SaleView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SaleView
	for i := len(r.s.sales) - 1; i >= 0; i-- {
		sale := r.s.sales[i]
		if !matches(sale, f.SellerID, f.Since) {
			continue
		}
		if f.BuyerName != "" && !strings.EqualFold(sale.BuyerName, f.BuyerName) {
			continue
		}
		v := &entity.SaleView{Sale: *sale}
		if it, ok := r.s.items[sale.ItemID]; ok {
			v.ItemName, v.ItemEmoji = it.Name, it.Emoji
		}
		if u, ok := r.s.users[sale.SellerID]; ok {
			v.SellerUsername = u.Username
		}
		out = append(out, v)
	}
	return page(out, f.Limit, f.Offset), nil
}

func (r *saleRepo) CountBySeller(_ context.Context, sellerID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, sale := range r.s.sales {
		if sale.SellerID == sellerID {
			n++
		}
	}
	return n, nil
}

func (r *saleRepo) SumSellerProfitSince(_ context.Context, sellerID string, since time.Time) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := decimal.Zero
	for _, sale := range r.s.sales {
		if matches(sale, sellerID, &since) {
			sum = sum.Add(sale.SellerProfit)
		}
	}
	return sum, nil
}

type goalRepo struct{ s *Store }

func (r *goalRepo) Create(_ context.Context, g *entity.Goal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *g
	r.s.goals[g.ID] = &cp
	return nil
}

func (r *goalRepo) GetByID(_ context.Context, id string) (*entity.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g, ok := r.s.goals[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, nil
}

func (r *goalRepo) ListByUser(_ context.Context, userID string) ([]*entity.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Goal
	for _, g := range r.s.goals {
		if g.UserID == userID {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(out[j].Deadline) })
	return out, nil
}

func (r *goalRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.goals, id)
	return nil
}

type settingsRepo struct{ s *Store }

func (r *settingsRepo) Get(_ context.Context, key string) (string, bool, error) {
	if r.s.FailSettings != nil {
		return "", false, r.s.FailSettings
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.settings[key]
	return v, ok, nil
}

type analyticsRepo struct{ s *Store }

func (r *analyticsRepo) GetTotals(_ context.Context, f repository.ReportFilter) (repository.LedgerTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var t repository.LedgerTotals
	zero(&t)
	for _, sale := range r.s.sales {
		if matches(sale, f.SellerID, f.Since) {
			accumulate(&t, sale)
		}
	}
	return t, nil
}

func (r *analyticsRepo) GetTotalsBySeller(_ context.Context, f repository.ReportFilter) ([]repository.SellerTotalsResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	by := map[string]*repository.SellerTotalsResult{}
	for _, sale := range r.s.sales {
		if !matches(sale, f.SellerID, f.Since) {
			continue
		}
		row, ok := by[sale.SellerID]
		if !ok {
			row = &repository.SellerTotalsResult{SellerID: sale.SellerID}
			zero(&row.LedgerTotals)
			if u, ok := r.s.users[sale.SellerID]; ok {
				row.Username = u.Username
			}
			by[sale.SellerID] = row
		}
		accumulate(&row.LedgerTotals, sale)
	}
	out := make([]repository.SellerTotalsResult, 0, len(by))
	for _, row := range by {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	return out, nil
}

func (r *analyticsRepo) GetTopItems(_ context.Context, f repository.ReportFilter, limit int) ([]repository.ItemTotalsResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	by := map[string]*repository.ItemTotalsResult{}
	for _, sale := range r.s.sales {
		if !matches(sale, f.SellerID, f.Since) {
			continue
		}
		row, ok := by[sale.ItemID]
		if !ok {
			row = &repository.ItemTotalsResult{ItemID: sale.ItemID}
			zero(&row.LedgerTotals)
			if it, ok := r.s.items[sale.ItemID]; ok {
				row.ItemName, row.Emoji = it.Name, it.Emoji
			}
			by[sale.ItemID] = row
		}
		accumulate(&row.LedgerTotals, sale)
	}
	out := make([]repository.ItemTotalsResult, 0, len(by))
	for _, row := range by {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitsSold > out[j].UnitsSold })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func matches(sale *entity.Sale, sellerID string, since *time.Time) bool {
	if sellerID != "" && sale.SellerID != sellerID {
		return false
	}
	if since != nil && sale.CreatedAt.Before(*since) {
		return false
	}
	return true
}

func zero(t *repository.LedgerTotals) {
	t.Revenue, t.SellerProfit, t.OwnerProfit = decimal.Zero, decimal.Zero, decimal.Zero
}

func accumulate(t *repository.LedgerTotals, sale *entity.Sale) {
	t.SalesCount++
	t.UnitsSold += sale.Quantity
	t.Revenue = t.Revenue.Add(sale.TotalPrice)
	t.SellerProfit = t.SellerProfit.Add(sale.SellerProfit)
	t.OwnerProfit = t.OwnerProfit.Add(sale.OwnerProfit)
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}
