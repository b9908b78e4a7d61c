package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/l10n-ch-billing/internal/application/dto"
)

type mailService interface {
	GenerateEmail(ctx context.Context, companyID, templateID string, resIDs []string) (map[string]dto.EmailValues, error)
	Send(ctx context.Context, companyID, templateID string, resIDs []string) (*dto.SendEmailResponse, error)
}

// MailHandler generación y envío de correos de facturas con su PDF adjunto.
type MailHandler struct {
	mail mailService
}

// NewMailHandler construye el handler.
func NewMailHandler(mail mailService) *MailHandler {
	return &MailHandler{mail: mail}
}

// Generate godoc
// @Summary      Generar correos desde una plantilla
// @Tags         mail
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.GenerateEmailRequest  true  "plantilla y registros"
// @Success      200   {object}  map[string]dto.EmailValues
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/mail/generate [post]
func (h *MailHandler) Generate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.GenerateEmailRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.mail.GenerateEmail(c.Context(), companyID, in.TemplateID, in.ResIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Send godoc
// @Summary      Generar y enviar correos
// @Tags         mail
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.GenerateEmailRequest  true  "plantilla y registros"
// @Success      200   {object}  dto.SendEmailResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/mail/send [post]
func (h *MailHandler) Send(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.GenerateEmailRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.mail.Send(c.Context(), companyID, in.TemplateID, in.ResIDs)
	if err != nil {
		if out != nil && out.Sent > 0 {
			// envío parcial: informar qué registros salieron
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"code": "PARTIAL_SEND", "message": err.Error(), "sent": out.Sent, "res_ids": out.ResIDs,
			})
		}
		return writeError(c, err)
	}
	return c.JSON(out)
}
