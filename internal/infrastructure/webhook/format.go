// Package webhook publica el resumen de cada checkout en un webhook estilo Discord.
package webhook

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Vendas-api/internal/application/ports"
)

const (
	maxContentRunes = 2000 // límite de Discord para content
	separator       = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
)

var hundred = decimal.NewFromInt(100)

// Formatter arma el texto del resumen en pt-BR.
type Formatter struct {
	printer *message.Printer
	loc     *time.Location
}

// NewFormatter usa la zona horaria dada para la fecha del resumen (nil = UTC).
func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{printer: message.NewPrinter(language.BrazilianPortuguese), loc: loc}
}

// Money formatea un importe como "R$ 1.234,56".
func (f *Formatter) Money(d decimal.Decimal) string {
	return f.printer.Sprintf("R$ %.2f", d.Round(2).InexactFloat64())
}

// Format texto del resumen de un checkout.
func (f *Formatter) Format(s ports.CheckoutSummary) string {
	var b strings.Builder
	b.WriteString("💰 **VENDA REALIZADA** 💰\n\n")
	fmt.Fprintf(&b, "👤 **VENDEDOR:** %s\n", strings.ToUpper(clean(s.SellerUsername)))
	fmt.Fprintf(&b, "💼 **CLIENTE:** %s\n", clean(s.BuyerName))
	if id := clean(s.BuyerID); id != "" {
		fmt.Fprintf(&b, "🆔 **ID CLIENTE:** %s\n", id)
	}
	b.WriteString("\n📦 **ITENS VENDIDOS:**\n")
	for _, l := range s.Lines {
		name := clean(l.Name)
		if name == "" {
			name = "(item removido)"
		}
		prefix := "  "
		if l.Emoji != "" {
			prefix += l.Emoji + " "
		}
		fmt.Fprintf(&b, "%s**%s** x%d - %s\n", prefix, name, l.Quantity, f.Money(l.Total))
	}
	sellerPct := s.CommissionRate.Mul(hundred)
	ownerPct := hundred.Sub(sellerPct)
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "💰 **VALOR TOTAL:** %s\n", f.Money(s.Total))
	fmt.Fprintf(&b, "💵 **COMISSÃO VENDEDOR:** %s (%s%%)\n", f.Money(s.SellerProfit), percent(sellerPct))
	fmt.Fprintf(&b, "💎 **LUCRO ORGANIZAÇÃO:** %s (%s%%)\n", f.Money(s.OwnerProfit), percent(ownerPct))
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "📅 **DATA:** %s\n", s.At.In(f.loc).Format("02/01/2006 15:04"))
	b.WriteString("✅ **STATUS:** Confirmado")
	return truncate(b.String(), maxContentRunes)
}

// clean normaliza a NFC y recorta espacios.
func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func percent(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
