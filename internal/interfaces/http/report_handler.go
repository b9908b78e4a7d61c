package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/l10n-ch-billing/internal/application/dto"
)

type reportRenderer interface {
	RenderMerged(ctx context.Context, companyID, reportName string, resIDs []string) ([]byte, string, error)
}

// ReportHandler impresión de los reportes PDF (factura con QR, sección de pago, recordatorio).
type ReportHandler struct {
	reports reportRenderer
}

// NewReportHandler construye el handler.
func NewReportHandler(reports reportRenderer) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Render godoc
// @Summary      Imprimir un reporte
// @Description  report_name: l10n_ch_invoice_reports.account_move_payment_report, l10n_ch.l10n_ch_qr_report o account_followup.report_followup_print_all.
// @Tags         reports
// @Accept       json
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        body  body  dto.RenderReportRequest  true  "reporte y registros"
// @Success      200   {file}    binary
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reports/render [post]
func (h *ReportHandler) Render(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.RenderReportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	pdf, filename, err := h.reports.RenderMerged(c.Context(), companyID, in.ReportName, in.ResIDs)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
