package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/ledger"
)

var rate20 = decimal.RequireFromString("0.20")

// Ítem {price: 100}, cantidad 2, comisión 0.20 → 200 / 40 / 160.
func TestSplitLine_EjemploBase(t *testing.T) {
	s := ledger.SplitLine(decimal.NewFromInt(100), 2, rate20)

	assert.True(t, s.Total.Equal(decimal.NewFromInt(200)), "total: %s", s.Total)
	assert.True(t, s.SellerProfit.Equal(decimal.NewFromInt(40)), "vendedor: %s", s.SellerProfit)
	assert.True(t, s.OwnerProfit.Equal(decimal.NewFromInt(160)), "organización: %s", s.OwnerProfit)
}

// La suma vendedor + organización es exacta aun cuando la comisión requiere redondeo.
func TestSplitLine_SumaExactaConRedondeo(t *testing.T) {
	prices := []string{"0.01", "0.03", "9.99", "33.33", "1234.57", "0.07"}
	rates := []string{"0.20", "0.333", "0.125", "0", "1"}
	for _, p := range prices {
		for _, r := range rates {
			for qty := 1; qty <= 7; qty++ {
				s := ledger.SplitLine(decimal.RequireFromString(p), qty, decimal.RequireFromString(r))
				assert.True(t, s.SellerProfit.Add(s.OwnerProfit).Equal(s.Total),
					"precio %s qty %d rate %s", p, qty, r)
				assert.LessOrEqual(t, s.SellerProfit.Exponent()*-1, int32(2))
			}
		}
	}
}

func TestSplitLine_ComisionRedondeada(t *testing.T) {
	s := ledger.SplitLine(decimal.RequireFromString("0.03"), 1, rate20)
	assert.True(t, s.SellerProfit.Equal(decimal.RequireFromString("0.01")), "vendedor: %s", s.SellerProfit)
	assert.True(t, s.OwnerProfit.Equal(decimal.RequireFromString("0.02")), "organización: %s", s.OwnerProfit)
}

func TestSplit_Add(t *testing.T) {
	a := ledger.SplitLine(decimal.NewFromInt(100), 2, rate20)
	b := ledger.SplitLine(decimal.NewFromInt(50), 1, rate20)
	sum := a.Add(b)
	assert.True(t, sum.Total.Equal(decimal.NewFromInt(250)))
	assert.True(t, sum.SellerProfit.Equal(decimal.NewFromInt(50)))
	assert.True(t, sum.OwnerProfit.Equal(decimal.NewFromInt(200)))
}

func TestValidateRate(t *testing.T) {
	assert.NoError(t, ledger.ValidateRate(decimal.Zero))
	assert.NoError(t, ledger.ValidateRate(decimal.NewFromInt(1)))
	assert.ErrorIs(t, ledger.ValidateRate(decimal.RequireFromString("-0.1")), domain.ErrInvalidInput)
	assert.ErrorIs(t, ledger.ValidateRate(decimal.RequireFromString("1.01")), domain.ErrInvalidInput)
}
