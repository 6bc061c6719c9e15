package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/internal/application/sales"
	"github.com/jhoicas/Vendas-api/internal/domain"
)

// SaleHandler checkout y consulta del libro de ventas.
type SaleHandler struct {
	checkout *sales.CheckoutUseCase
	query    *sales.QueryUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(checkout *sales.CheckoutUseCase, query *sales.QueryUseCase) *SaleHandler {
	return &SaleHandler{checkout: checkout, query: query}
}

// Checkout godoc
// @Summary      Confirmar un carrito (todo o nada)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Comprador e ítems"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales/checkout [post]
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	for i := range in.Items {
		id, err := parseID("item_id", in.Items[i].ItemID)
		if err != nil {
			return writeError(c, err)
		}
		in.Items[i].ItemID = id
	}
	res, err := h.checkout.Checkout(c.UserContext(), sales.CheckoutInput{
		SellerID:  GetUserID(c),
		BuyerName: in.BuyerName,
		BuyerID:   in.BuyerID,
		Lines:     mergeLines(in.Items),
	})
	if err != nil {
		return writeError(c, err)
	}

	out := dto.CheckoutResponse{
		Sales:          make([]dto.SaleResponse, 0, len(res.Sales)),
		Total:          res.Totals.Total,
		SellerProfit:   res.Totals.SellerProfit,
		OwnerProfit:    res.Totals.OwnerProfit,
		CommissionRate: res.CommissionRate,
	}
	for _, s := range res.Sales {
		r := dto.ToSaleResponse(s)
		if it := res.Items[s.ItemID]; it != nil {
			r.ItemName, r.ItemEmoji = it.Name, it.Emoji
		}
		out.Sales = append(out.Sales, r)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Ventas recientes (membro solo ve las propias)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        seller_id  query  string  false  "Filtrar por vendedor"
// @Param        buyer      query  string  false  "Filtrar por comprador"
// @Param        since      query  string  false  "RFC3339"
// @Param        limit      query  int     false  "Límite"  default(50)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	in := sales.ListInput{
		BuyerName: c.Query("buyer"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	if raw := c.Query("seller_id"); raw != "" {
		id, err := parseID("seller_id", raw)
		if err != nil {
			return writeError(c, err)
		}
		in.SellerID = id
	}
	if raw := strings.TrimSpace(c.Query("since")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return writeError(c, domain.Invalid("since", "formato RFC3339 esperado"))
		}
		in.Since = &t
	}
	list, err := h.query.List(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, v := range list {
		out.Items = append(out.Items, dto.ToSaleViewResponse(v))
	}
	return c.JSON(out)
}

// mergeLines fusiona líneas repetidas del mismo ítem conservando el orden de la primera aparición.
func mergeLines(in []dto.CheckoutLineRequest) []sales.CartLine {
	out := make([]sales.CartLine, 0, len(in))
	idx := make(map[string]int, len(in))
	for _, l := range in {
		id := strings.TrimSpace(l.ItemID)
		if i, ok := idx[id]; ok && id != "" && l.Quantity > 0 && out[i].Quantity > 0 {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[id] = len(out)
		out = append(out, sales.CartLine{ItemID: id, Quantity: l.Quantity})
	}
	return out
}
