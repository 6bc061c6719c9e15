package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/jhoicas/Vendas-api/internal/application/ports"
)

var _ ports.SummarySender = (*Sender)(nil)

// Config identidad del mensaje y plazo por envío.
type Config struct {
	Username  string
	AvatarURL string
	Timeout   time.Duration
}

type payload struct {
	Content   string `json:"content"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Sender envía el resumen con fasthttp.
type Sender struct {
	client    *fasthttp.Client
	formatter *Formatter
	cfg       Config
}

// NewSender construye el emisor. dial permite inyectar la conexión (tests); nil usa la red.
func NewSender(cfg Config, formatter *Formatter, dial func(addr string) (net.Conn, error)) *Sender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	client := &fasthttp.Client{
		Name:                "vendas-api",
		ReadTimeout:         cfg.Timeout,
		WriteTimeout:        cfg.Timeout,
		MaxIdleConnDuration: time.Minute,
	}
	if dial != nil {
		client.Dial = dial
	}
	return &Sender{client: client, formatter: formatter, cfg: cfg}
}

// Send publica el resumen. Respuestas fuera de 2xx se devuelven como error.
func (s *Sender) Send(ctx context.Context, webhookURL string, sum ports.CheckoutSummary) error {
	body, err := json.Marshal(payload{
		Content:   s.formatter.Format(sum),
		Username:  s.cfg.Username,
		AvatarURL: s.cfg.AvatarURL,
	})
	if err != nil {
		return fmt.Errorf("webhook: serializar: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(webhookURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	timeout := s.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return fmt.Errorf("webhook: %w", context.DeadlineExceeded)
	}
	if err := s.client.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return fmt.Errorf("webhook: respuesta %d", code)
	}
	return nil
}
