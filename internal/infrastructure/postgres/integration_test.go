package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vendas-api/internal/application/sales"
	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
	"github.com/jhoicas/Vendas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Vendas-api/pkg/config"
	"github.com/jhoicas/Vendas-api/pkg/logger"
)

// Requiere una base descartable: VENDAS_TEST_DATABASE_URL=postgres://...
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("VENDAS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("VENDAS_TEST_DATABASE_URL no definido")
	}
	cfg := config.DBConfig{DatabaseURL: url}
	mg, err := postgres.NewMigrator(cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, mg.Up())
	require.NoError(t, mg.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedSeller(t *testing.T, users repository.UserRepository) *entity.User {
	t.Helper()
	now := time.Now()
	u := &entity.User{
		ID: uuid.New().String(), Email: uuid.New().String() + "@test.local", Username: "seller",
		PasswordHash: "x", Role: role.Membro, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func seedItem(t *testing.T, items repository.ItemRepository, price string, qty int) *entity.Item {
	t.Helper()
	now := time.Now()
	it := &entity.Item{
		ID: uuid.New().String(), Name: "item-" + uuid.New().String()[:8],
		Price: decimal.RequireFromString(price), Quantity: qty, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, items.Create(context.Background(), it))
	return it
}

func TestDecrementStock_CheckAndSet(t *testing.T) {
	pool := testPool(t)
	items := postgres.NewItemRepository(pool)
	it := seedItem(t, items, "1.00", 2)

	left, err := items.DecrementStock(context.Background(), it.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, left)

	_, err = items.DecrementStock(context.Background(), it.ID, 1)
	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 0, ise.Available)
}

func TestCheckout_ConcurrenciaSobreLaBase(t *testing.T) {
	pool := testPool(t)
	users := postgres.NewUserRepository(pool)
	items := postgres.NewItemRepository(pool)
	seller := seedSeller(t, users)
	it := seedItem(t, items, "100.00", 5)

	uc := sales.NewCheckoutUseCase(postgres.NewTxRunner(pool), users, postgres.NewSettingsRepository(pool), nil, nil,
		sales.Config{DefaultCommissionRate: decimal.RequireFromString("0.20"), LowStockThreshold: 1}, logger.Nop())

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Checkout(context.Background(), sales.CheckoutInput{
				SellerID: seller.ID,
				Lines:    []sales.CartLine{{ItemID: it.ID, Quantity: 3}},
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				fail++
			}
		}()
	}
	wg.Wait()
	uc.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, fail)
	got, err := items.GetByID(context.Background(), it.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	list, err := postgres.NewSaleRepository(pool).List(context.Background(), repository.SaleFilter{SellerID: seller.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].TotalPrice.Equal(decimal.NewFromInt(300)))
	assert.True(t, list[0].SellerProfit.Equal(decimal.NewFromInt(60)))
	assert.True(t, list[0].OwnerProfit.Equal(decimal.NewFromInt(240)))
	assert.Equal(t, it.Name, list[0].ItemName)
}

func TestDeleteUser_ConVentasEsConflicto(t *testing.T) {
	pool := testPool(t)
	users := postgres.NewUserRepository(pool)
	seller := seedSeller(t, users)
	it := seedItem(t, postgres.NewItemRepository(pool), "10.00", 1)

	require.NoError(t, postgres.NewSaleRepository(pool).Create(context.Background(), &entity.Sale{
		ID: uuid.New().String(), ItemID: it.ID, SellerID: seller.ID, BuyerName: entity.AnonymousBuyer, Quantity: 1,
		TotalPrice: decimal.NewFromInt(10), SellerProfit: decimal.NewFromInt(2), OwnerProfit: decimal.NewFromInt(8),
		CreatedAt: time.Now(),
	}))

	err := users.Delete(context.Background(), seller.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateItem_NoReescribeCantidad(t *testing.T) {
	pool := testPool(t)
	items := postgres.NewItemRepository(pool)
	it := seedItem(t, items, "100.00", 5)

	_, err := items.DecrementStock(context.Background(), it.ID, 2)
	require.NoError(t, err)

	// it conserva quantity=5 leído antes de la venta.
	it.Name = "renombrado-" + uuid.New().String()[:8]
	it.UpdatedAt = time.Now()
	require.NoError(t, items.Update(context.Background(), it))
	assert.Equal(t, 3, it.Quantity)

	got, err := items.GetByID(context.Background(), it.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, it.Name, got.Name)

	qty, err := items.SetStock(context.Background(), it.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, qty)
}

func TestIDMalformado_EsValidacion(t *testing.T) {
	pool := testPool(t)
	_, err := postgres.NewItemRepository(pool).GetByID(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = postgres.NewUserRepository(pool).Delete(context.Background(), "xyz")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
