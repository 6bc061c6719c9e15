package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vendas-api/internal/application/catalog"
	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/internal/application/sales"
	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
	"github.com/jhoicas/Vendas-api/internal/testutil/memstore"
	"github.com/jhoicas/Vendas-api/pkg/logger"
)

func setup(t *testing.T) (*memstore.Store, *catalog.UseCase) {
	t.Helper()
	st := memstore.New()
	st.PutUser(&entity.User{ID: "adm", Username: "admin", Role: role.Admin})
	st.PutUser(&entity.User{ID: "mem", Username: "membro", Role: role.Membro})
	return st, catalog.NewUseCase(st.Items(), st.Users())
}

func TestCreate_SoloAdminOSuperior(t *testing.T) {
	_, uc := setup(t)
	in := dto.CreateItemRequest{Name: "Anel", Price: decimal.RequireFromString("10.555"), Quantity: 3, Emoji: "💍"}

	_, err := uc.Create(context.Background(), "mem", in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.Create(context.Background(), "adm", in)
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.True(t, out.Price.Equal(decimal.RequireFromString("10.56")))
}

func TestCreate_Validacion(t *testing.T) {
	_, uc := setup(t)
	cases := map[string]dto.CreateItemRequest{
		"sin nombre":        {Name: "  ", Price: decimal.NewFromInt(1)},
		"precio negativo":   {Name: "x", Price: decimal.NewFromInt(-1)},
		"cantidad negativa": {Name: "x", Price: decimal.NewFromInt(1), Quantity: -1},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), "adm", in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestListAvailable_OcultaAgotados(t *testing.T) {
	st, uc := setup(t)
	st.PutItem(&entity.Item{ID: "1", Name: "B", Quantity: 1})
	st.PutItem(&entity.Item{ID: "2", Name: "A", Quantity: 0})
	st.PutItem(&entity.Item{ID: "3", Name: "C", Quantity: 4})

	out, err := uc.ListAvailable(context.Background(), "mem")
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "B", out.Items[0].Name)
	assert.Equal(t, "C", out.Items[1].Name)

	all, err := uc.List(context.Background(), "mem", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
	assert.Equal(t, 50, all.Page.Limit)
}

func TestUpdate_Parcial(t *testing.T) {
	st, uc := setup(t)
	st.PutItem(&entity.Item{ID: "1", Name: "Anel", Price: decimal.NewFromInt(10), Quantity: 2})

	price := decimal.NewFromInt(12)
	out, err := uc.Update(context.Background(), "adm", "1", dto.UpdateItemRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Anel", out.Name)
	assert.True(t, out.Price.Equal(price))
	assert.Equal(t, 2, st.Item("1").Quantity)

	neg := -3
	_, err = uc.Update(context.Background(), "adm", "1", dto.UpdateItemRequest{Quantity: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(context.Background(), "adm", "nope", dto.UpdateItemRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_AjusteDeStock(t *testing.T) {
	st, uc := setup(t)
	st.PutItem(&entity.Item{ID: "1", Name: "Anel", Price: decimal.NewFromInt(10), Quantity: 2})

	qty := 9
	out, err := uc.Update(context.Background(), "adm", "1", dto.UpdateItemRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 9, out.Quantity)
	assert.Equal(t, 9, st.Item("1").Quantity)
	assert.Equal(t, "Anel", st.Item("1").Name)
}

// ventaTrasLectura confirma un checkout entre la lectura del ítem y la escritura del catálogo.
type ventaTrasLectura struct {
	repository.ItemRepository
	vender func()
	hecho  bool
}

func (r *ventaTrasLectura) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	it, err := r.ItemRepository.GetByID(ctx, id)
	if !r.hecho {
		r.hecho = true
		r.vender()
	}
	return it, err
}

func TestUpdate_NoPisaVentaIntercalada(t *testing.T) {
	st := memstore.New()
	st.PutUser(&entity.User{ID: "adm", Username: "admin", Role: role.Admin})
	st.PutUser(&entity.User{ID: "mem", Username: "membro", Role: role.Membro})
	st.PutItem(&entity.Item{ID: "1", Name: "Rifa", Price: decimal.NewFromInt(100), Quantity: 5})

	checkout := sales.NewCheckoutUseCase(st, st.Users(), st.Settings(), nil, nil, sales.Config{
		DefaultCommissionRate: decimal.RequireFromString("0.20"),
		NotifyTimeout:         time.Second,
	}, logger.Nop())
	t.Cleanup(checkout.Wait)

	items := &ventaTrasLectura{ItemRepository: st.Items(), vender: func() {
		_, err := checkout.Checkout(context.Background(), sales.CheckoutInput{
			SellerID: "mem",
			Lines:    []sales.CartLine{{ItemID: "1", Quantity: 2}},
		})
		require.NoError(t, err)
	}}
	uc := catalog.NewUseCase(items, st.Users())

	name := "Rifa premium"
	out, err := uc.Update(context.Background(), "adm", "1", dto.UpdateItemRequest{Name: &name})
	require.NoError(t, err)
	require.True(t, items.hecho)

	assert.Len(t, st.Sales(), 1)
	assert.Equal(t, 3, st.Item("1").Quantity, "la venta confirmada no se revierte")
	assert.Equal(t, 3, out.Quantity)
	assert.Equal(t, "Rifa premium", st.Item("1").Name)
}

func TestRestock(t *testing.T) {
	st, uc := setup(t)
	st.PutItem(&entity.Item{ID: "1", Name: "Anel", Quantity: 2})

	out, err := uc.Restock(context.Background(), "adm", "1", 5)
	require.NoError(t, err)
	assert.Equal(t, 7, out.Quantity)
	assert.Equal(t, 7, st.Item("1").Quantity)

	_, err = uc.Restock(context.Background(), "adm", "1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Restock(context.Background(), "mem", "1", 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDelete(t *testing.T) {
	st, uc := setup(t)
	st.PutItem(&entity.Item{ID: "1", Name: "Anel"})
	st.PutSale(&entity.Sale{ID: "s1", ItemID: "1", SellerID: "mem", TotalPrice: decimal.NewFromInt(5)})

	require.ErrorIs(t, uc.Delete(context.Background(), "mem", "1"), domain.ErrForbidden)
	require.NoError(t, uc.Delete(context.Background(), "adm", "1"))
	assert.Nil(t, st.Item("1"))

	sales := st.Sales()
	require.Len(t, sales, 1)
	assert.Empty(t, sales[0].ItemID)
	assert.True(t, sales[0].TotalPrice.Equal(decimal.NewFromInt(5)))

	assert.ErrorIs(t, uc.Delete(context.Background(), "adm", "1"), domain.ErrNotFound)
}
