// Package redis publica los eventos del libro de ventas en un canal Pub/Sub.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vendas-api/internal/application/ports"
)

// Tipos de evento publicados.
const (
	EventSaleCommitted = "sale.committed"
	EventLowStock      = "item.low_stock"
)

// Envelope mensaje publicado en el canal.
type Envelope struct {
	Type string          `json:"type"`
	At   time.Time       `json:"at"`
	Data json.RawMessage `json:"data"`
}

// SaleCommittedPayload cuerpo de sale.committed.
type SaleCommittedPayload struct {
	SaleID         string          `json:"sale_id"`
	ItemID         string          `json:"item_id"`
	ItemName       string          `json:"item_name"`
	SellerID       string          `json:"seller_id"`
	SellerUsername string          `json:"seller_username"`
	BuyerName      string          `json:"buyer_name"`
	Quantity       int             `json:"quantity"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	SellerProfit   decimal.Decimal `json:"seller_profit"`
	OwnerProfit    decimal.Decimal `json:"owner_profit"`
}

// LowStockPayload cuerpo de item.low_stock.
type LowStockPayload struct {
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	Remaining int    `json:"remaining"`
	Threshold int    `json:"threshold"`
}

// publishClient subconjunto de *goRedis.Client usado por el publicador.
type publishClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *goRedis.IntCmd
}

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher implementa ports.EventPublisher sobre Redis Pub/Sub.
type Publisher struct {
	client  publishClient
	channel string
}

// NewPublisher construye el publicador sobre un cliente ya conectado.
func NewPublisher(client publishClient, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

// PublishSaleCommitted publica sale.committed.
func (p *Publisher) PublishSaleCommitted(ctx context.Context, ev ports.SaleCommitted) error {
	return p.publish(ctx, EventSaleCommitted, ev.Sale.CreatedAt, SaleCommittedPayload{
		SaleID:         ev.Sale.ID,
		ItemID:         ev.Sale.ItemID,
		ItemName:       ev.ItemName,
		SellerID:       ev.Sale.SellerID,
		SellerUsername: ev.SellerUsername,
		BuyerName:      ev.Sale.BuyerName,
		Quantity:       ev.Sale.Quantity,
		TotalPrice:     ev.Sale.TotalPrice,
		SellerProfit:   ev.Sale.SellerProfit,
		OwnerProfit:    ev.Sale.OwnerProfit,
	})
}

// PublishLowStock publica item.low_stock.
func (p *Publisher) PublishLowStock(ctx context.Context, ev ports.LowStock) error {
	return p.publish(ctx, EventLowStock, ev.At, LowStockPayload{
		ItemID:    ev.ItemID,
		ItemName:  ev.ItemName,
		Remaining: ev.Remaining,
		Threshold: ev.Threshold,
	})
}

func (p *Publisher) publish(ctx context.Context, typ string, at time.Time, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("redis: serializar %s: %w", typ, err)
	}
	msg, err := json.Marshal(Envelope{Type: typ, At: at.UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("redis: serializar envelope: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, msg).Err(); err != nil {
		return fmt.Errorf("redis: publish %s: %w", typ, err)
	}
	return nil
}
