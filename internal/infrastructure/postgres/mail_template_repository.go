package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/repository"
)

var _ repository.MailTemplateRepository = (*MailTemplateRepo)(nil)

// MailTemplateRepo lectura de plantillas de correo.
type MailTemplateRepo struct {
	q Querier
}

// NewMailTemplateRepository construye el adaptador.
func NewMailTemplateRepository(q Querier) *MailTemplateRepo {
	return &MailTemplateRepo{q: q}
}

// GetByID obtiene una plantilla; nil si no existe.
func (r *MailTemplateRepo) GetByID(ctx context.Context, id string) (*entity.MailTemplate, error) {
	var t entity.MailTemplate
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, name, model, subject, body, COALESCE(email_from, ''),
		       COALESCE(report_name, ''), COALESCE(report_file_name, '')
		  FROM mail_templates WHERE id = $1`, id).
		Scan(&t.ID, &t.CompanyID, &t.Name, &t.Model, &t.Subject, &t.Body, &t.EmailFrom, &t.ReportName, &t.ReportFileName)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mail template: %w", err)
	}
	return &t, nil
}
