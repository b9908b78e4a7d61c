package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/l10n-ch-billing/internal/application/dto"
)

type paymentRegistrar interface {
	PreviewPayments(ctx context.Context, companyID string, in dto.RegisterPaymentsRequest) ([]dto.PaymentValues, error)
	RegisterPayments(ctx context.Context, companyID, userID string, in dto.RegisterPaymentsRequest) ([]dto.PaymentResponse, error)
}

type paymentExporter interface {
	ListPayments(ctx context.Context, companyID, state string, page dto.PageRequest) (*dto.PaymentListResponse, error)
	ExportPayments(ctx context.Context, companyID string, paymentIDs []string) (*dto.ExportPaymentsResponse, error)
}

// PaymentHandler agrupación y registro de pagos de facturas, y exportación pain.001.
type PaymentHandler struct {
	register paymentRegistrar
	export   paymentExporter
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(register paymentRegistrar, export paymentExporter) *PaymentHandler {
	return &PaymentHandler{register: register, export: export}
}

// Preview godoc
// @Summary      Vista previa de los pagos agrupados
// @Description  Agrupa las partidas abiertas seleccionadas por partner comercial, moneda, cuenta y referencia QR/ISR.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.RegisterPaymentsRequest  true  "selección de facturas"
// @Success      200   {array}   dto.PaymentValues
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/payments/preview [post]
func (h *PaymentHandler) Preview(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.RegisterPaymentsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.register.PreviewPayments(c.Context(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Register godoc
// @Summary      Registrar pagos
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.RegisterPaymentsRequest  true  "selección de facturas"
// @Success      201   {array}   dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) Register(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.RegisterPaymentsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.register.RegisterPayments(c.Context(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Pagos registrados de mi empresa
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        state   query  string  false  "posted | exported"
// @Param        limit   query  int     false  "límite (20, máx. 100)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200     {object}  dto.PaymentListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.export.ListPayments(c.Context(), companyID, c.Query("state"), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar pagos salientes a pain.001
// @Description  Con ?format=xml devuelve el XML directamente; por defecto JSON con XML y huella.
// @Tags         payments
// @Accept       json
// @Produce      json,xml
// @Security     BearerAuth
// @Param        body    body   dto.ExportPaymentsRequest  true   "payment_ids"
// @Param        format  query  string                     false  "json | xml"
// @Success      200     {object}  dto.ExportPaymentsResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/payments/export [post]
func (h *PaymentHandler) Export(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.ExportPaymentsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.export.ExportPayments(c.Context(), companyID, in.PaymentIDs)
	if err != nil {
		return writeError(c, err)
	}
	if c.Query("format") == "xml" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+out.MessageID+`.xml"`)
		c.Set("X-Content-Digest", "sha-256="+out.Digest)
		return c.SendString(out.XML)
	}
	return c.JSON(out)
}
