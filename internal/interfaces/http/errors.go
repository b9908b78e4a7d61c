package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/l10n-ch-billing/internal/application/currency"
	"github.com/jhoicas/l10n-ch-billing/internal/application/dto"
	"github.com/jhoicas/l10n-ch-billing/internal/application/report"
	"github.com/jhoicas/l10n-ch-billing/internal/domain"
	dompay "github.com/jhoicas/l10n-ch-billing/internal/domain/payment"
)

// writeError traduce los errores de dominio y de aplicación a HTTP + dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, dompay.ErrUnsupportedDocumentType):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, report.ErrReportNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrNothingToPay):
		status, code = fiber.StatusUnprocessableEntity, "NOTHING_TO_PAY"
	case errors.Is(err, currency.ErrRateNotFound):
		status, code = fiber.StatusUnprocessableEntity, "RATE_NOT_FOUND"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
