package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/internal/application/reports"
)

// ReportHandler agregados contables del libro de ventas.
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen contable de la organización
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        period  query  string  false  "today | week | month | all"  default(all)
// @Success      200     {object}  dto.SummaryDTO
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), GetUserID(c), c.Query("period", dto.PeriodAll))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Mine totales de las ventas propias.
func (h *ReportHandler) Mine(c *fiber.Ctx) error {
	out, err := h.uc.MySummary(c.UserContext(), GetUserID(c), c.Query("period", dto.PeriodAll))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SummaryPDF godoc
// @Summary      Resumen contable en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        period  query  string  false  "today | week | month | all"  default(all)
// @Success      200
// @Router       /api/reports/summary.pdf [get]
func (h *ReportHandler) SummaryPDF(c *fiber.Ctx) error {
	period := c.Query("period", dto.PeriodAll)
	doc, err := h.uc.SummaryPDF(c.UserContext(), GetUserID(c), period)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="resumo-%s.pdf"`, period))
	return c.Send(doc)
}
