package goals_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/internal/application/goals"
	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
	"github.com/jhoicas/Vendas-api/internal/testutil/memstore"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*memstore.Store, *goals.UseCase) {
	t.Helper()
	st := memstore.New()
	st.PutUser(&entity.User{ID: "u1", Username: "ana", Role: role.Membro})
	st.PutUser(&entity.User{ID: "u2", Username: "bia", Role: role.Dono})
	uc := goals.NewUseCase(st.Goals(), st.SalesRepo(), st.Users()).WithClock(func() time.Time { return now })
	return st, uc
}

func sale(st *memstore.Store, id, seller string, profit string, at time.Time) {
	p := decimal.RequireFromString(profit)
	st.PutSale(&entity.Sale{ID: id, SellerID: seller, SellerProfit: p, TotalPrice: p.Mul(decimal.NewFromInt(5)), CreatedAt: at})
}

func TestCreateYProgreso_SoloVentasPosteriores(t *testing.T) {
	st, uc := setup(t)
	sale(st, "antes", "u1", "500", now.Add(-time.Hour))

	g, err := uc.Create(context.Background(), "u1", dto.CreateGoalRequest{
		Title: "Março", TargetAmount: decimal.NewFromInt(200), Deadline: "2026-03-20",
	})
	require.NoError(t, err)
	assert.True(t, g.CurrentAmount.IsZero())
	assert.Equal(t, "active", g.Status)
	assert.Equal(t, 11, g.DaysRemaining)

	sale(st, "depois", "u1", "50", now.Add(time.Minute))
	sale(st, "outro", "u2", "999", now.Add(time.Minute))

	p, err := uc.Progress(context.Background(), "u1", g.ID)
	require.NoError(t, err)
	assert.True(t, p.CurrentAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, p.Percent.Equal(decimal.NewFromInt(25)))
}

func TestProgreso_CompletadaConTope(t *testing.T) {
	st, uc := setup(t)
	g, err := uc.Create(context.Background(), "u1", dto.CreateGoalRequest{
		Title: "x", TargetAmount: decimal.NewFromInt(100), Deadline: "2026-03-11T00:00:00Z",
	})
	require.NoError(t, err)
	sale(st, "s", "u1", "150", now.Add(time.Second))

	list, err := uc.ListMine(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, g.ID, list[0].ID)
	assert.Equal(t, "completed", list[0].Status)
	assert.True(t, list[0].Percent.Equal(decimal.NewFromInt(100)))
}

func TestCreate_Validacion(t *testing.T) {
	_, uc := setup(t)
	cases := map[string]dto.CreateGoalRequest{
		"sin título":     {TargetAmount: decimal.NewFromInt(1), Deadline: "2026-04-01"},
		"objetivo cero":  {Title: "x", Deadline: "2026-04-01"},
		"redondea a 0":   {Title: "x", TargetAmount: decimal.RequireFromString("0.004"), Deadline: "2026-04-01"},
		"fecha inválida": {Title: "x", TargetAmount: decimal.NewFromInt(1), Deadline: "amanhã"},
		"fecha pasada":   {Title: "x", TargetAmount: decimal.NewFromInt(1), Deadline: "2026-03-01"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), "u1", in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestMetaAjenaNoExiste(t *testing.T) {
	_, uc := setup(t)
	g, err := uc.Create(context.Background(), "u1", dto.CreateGoalRequest{
		Title: "x", TargetAmount: decimal.NewFromInt(1), Deadline: "2026-04-01",
	})
	require.NoError(t, err)

	_, err = uc.Progress(context.Background(), "u2", g.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(context.Background(), "u2", g.ID), domain.ErrNotFound)

	require.NoError(t, uc.Delete(context.Background(), "u1", g.ID))
	list, err := uc.ListMine(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestParseDeadline(t *testing.T) {
	d, err := goals.ParseDeadline("2026-03-20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 20, 23, 59, 59, 0, time.UTC), d)

	_, err = goals.ParseDeadline("20/03/2026")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
