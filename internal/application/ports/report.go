package ports

import "github.com/jhoicas/Vendas-api/internal/application/dto"

// ReportRenderer genera documentos a partir de un resumen contable.
type ReportRenderer interface {
	RenderSummary(s *dto.SummaryDTO) ([]byte, error)
}
