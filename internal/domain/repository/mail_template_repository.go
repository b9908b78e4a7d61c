package repository

import (
	"context"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
)

// MailTemplateRepository puerto de lectura de plantillas de correo.
type MailTemplateRepository interface {
	GetByID(ctx context.Context, id string) (*entity.MailTemplate, error)
}
