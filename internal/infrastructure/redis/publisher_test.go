package redis_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vendas-api/internal/application/ports"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/infrastructure/redis"
)

type fakeClient struct {
	channel string
	msgs    [][]byte
	err     error
}

func (f *fakeClient) Publish(_ context.Context, channel string, message interface{}) *goRedis.IntCmd {
	f.channel = channel
	f.msgs = append(f.msgs, message.([]byte))
	return goRedis.NewIntResult(1, f.err)
}

func TestPublishSaleCommitted(t *testing.T) {
	c := &fakeClient{}
	p := redis.NewPublisher(c, "vendas:events")
	at := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	err := p.PublishSaleCommitted(context.Background(), ports.SaleCommitted{
		Sale: entity.Sale{
			ID: "s1", ItemID: "i1", SellerID: "u1", BuyerName: "Zé", Quantity: 2,
			TotalPrice: decimal.NewFromInt(200), SellerProfit: decimal.NewFromInt(40), OwnerProfit: decimal.NewFromInt(160),
			CreatedAt: at,
		},
		ItemName: "Anel", SellerUsername: "ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "vendas:events", c.channel)
	require.Len(t, c.msgs, 1)

	var env redis.Envelope
	require.NoError(t, json.Unmarshal(c.msgs[0], &env))
	assert.Equal(t, redis.EventSaleCommitted, env.Type)
	assert.True(t, env.At.Equal(at))

	var body redis.SaleCommittedPayload
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "Anel", body.ItemName)
	assert.True(t, body.SellerProfit.Equal(decimal.NewFromInt(40)))
}

func TestPublishLowStock_PropagaError(t *testing.T) {
	c := &fakeClient{err: errors.New("conexión rechazada")}
	p := redis.NewPublisher(c, "ch")

	err := p.PublishLowStock(context.Background(), ports.LowStock{ItemID: "i1", Remaining: 1, Threshold: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), redis.EventLowStock)
}
