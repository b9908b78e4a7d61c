// Package mailing genera y envía los correos de plantillas sobre facturas y partners.
package mailing

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	"text/template"

	"github.com/jhoicas/l10n-ch-billing/internal/application/dto"
	"github.com/jhoicas/l10n-ch-billing/internal/domain"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/repository"
	"github.com/jhoicas/l10n-ch-billing/pkg/logger"
)

// templateData campos disponibles en asunto, cuerpo y nombre de adjunto de la plantilla.
type templateData struct {
	Name        string
	Ref         string
	PartnerName string
	CompanyName string
	Amount      string
	Currency    string
	DueDate     string
}

type record struct {
	id      string
	lang    string
	emailTo string
	data    templateData
}

// Service generación y envío de correos.
type Service struct {
	templateRepo repository.MailTemplateRepository
	invoiceRepo  repository.InvoiceRepository
	partnerRepo  repository.PartnerRepository
	companyRepo  repository.CompanyRepository
	reports      ReportRenderer
	sender       MailSender
	log          *logger.Logger
}

// NewService construye el servicio de correo.
func NewService(
	templateRepo repository.MailTemplateRepository,
	invoiceRepo repository.InvoiceRepository,
	partnerRepo repository.PartnerRepository,
	companyRepo repository.CompanyRepository,
	reports ReportRenderer,
	sender MailSender,
	log *logger.Logger,
) *Service {
	return &Service{
		templateRepo: templateRepo,
		invoiceRepo:  invoiceRepo,
		partnerRepo:  partnerRepo,
		companyRepo:  companyRepo,
		reports:      reports,
		sender:       sender,
		log:          log,
	}
}

// GenerateEmail genera los valores del correo de cada registro con la plantilla dada.
//
// Si la plantilla es de facturas y su reporte es la factura con boleta de pago, los adjuntos
// de cada registro se reemplazan por un único PDF llamado
// invoice_<nombre con "/" → "_">_with_payslip.pdf, traducido al idioma del partner.
func (s *Service) GenerateEmail(ctx context.Context, companyID, templateID string, resIDs []string) (map[string]dto.EmailValues, error) {
	tmpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("correo: obtener plantilla: %w", err)
	}
	if tmpl == nil {
		return nil, domain.ErrNotFound
	}
	if tmpl.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if len(resIDs) == 0 {
		return nil, fmt.Errorf("%w: res_ids es requerido", domain.ErrInvalidInput)
	}
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("correo: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	subjectTmpl, err := parse("subject", tmpl.Subject)
	if err != nil {
		return nil, err
	}
	bodyTmpl, err := parseHTML("body", tmpl.Body)
	if err != nil {
		return nil, err
	}
	fileTmpl, err := parse("report_file_name", tmpl.ReportFileName)
	if err != nil {
		return nil, err
	}

	var streams map[string][]byte
	if tmpl.ReportName != "" {
		if streams, err = s.reports.Render(ctx, companyID, tmpl.ReportName, resIDs); err != nil {
			return nil, fmt.Errorf("correo: generar adjunto: %w", err)
		}
	}
	withPayslip := tmpl.Model == entity.ModelInvoice && tmpl.ReportName == entity.ReportInvoiceWithPayslip

	out := make(map[string]dto.EmailValues, len(resIDs))
	for _, id := range resIDs {
		rec, err := s.loadRecord(ctx, tmpl.Model, companyID, id, company)
		if err != nil {
			return nil, err
		}
		values := dto.EmailValues{
			ResID:       id,
			Subject:     execute(subjectTmpl, rec.data),
			Body:        execute(bodyTmpl, rec.data),
			EmailFrom:   firstNonEmpty(tmpl.EmailFrom, company.Email),
			EmailTo:     rec.emailTo,
			Attachments: []dto.EmailAttachment{},
		}
		if pdf, ok := streams[id]; ok {
			name := execute(fileTmpl, rec.data)
			if withPayslip {
				name = PayslipAttachmentName(rec.data.Name, rec.lang)
			} else if name == "" {
				name = defaultFileName(tmpl.ReportName, rec.data.Name)
			}
			values.Attachments = []dto.EmailAttachment{{
				Name:    name,
				Content: base64.StdEncoding.EncodeToString(pdf),
			}}
		}
		out[id] = values
	}

	s.log.Debug().
		Str("template_id", templateID).
		Int("records", len(out)).
		Bool("payslip", withPayslip).
		Msg("correos generados")
	return out, nil
}

// Send genera los correos y los envía uno por uno. Un registro sin destinatario es un error
// de entrada; un fallo de envío corta el proceso y devuelve los enviados hasta ese momento.
func (s *Service) Send(ctx context.Context, companyID, templateID string, resIDs []string) (*dto.SendEmailResponse, error) {
	generated, err := s.GenerateEmail(ctx, companyID, templateID, resIDs)
	if err != nil {
		return nil, err
	}
	resp := &dto.SendEmailResponse{ResIDs: []string{}}
	for _, id := range resIDs {
		values, ok := generated[id]
		if !ok || contains(resp.ResIDs, id) {
			continue
		}
		if values.EmailTo == "" {
			return resp, fmt.Errorf("%w: el registro %s no tiene email de destino", domain.ErrInvalidInput, id)
		}
		mail := OutgoingMail{
			From:    values.EmailFrom,
			To:      values.EmailTo,
			Subject: values.Subject,
			Body:    values.Body,
		}
		for _, a := range values.Attachments {
			content, err := base64.StdEncoding.DecodeString(a.Content)
			if err != nil {
				return resp, fmt.Errorf("correo: adjunto %s: %w", a.Name, err)
			}
			mail.Attachments = append(mail.Attachments, Attachment{Name: a.Name, Content: content})
		}
		if err := s.sender.Send(ctx, mail); err != nil {
			return resp, fmt.Errorf("correo: enviar a %s: %w", values.EmailTo, err)
		}
		resp.Sent++
		resp.ResIDs = append(resp.ResIDs, id)
	}
	s.log.Info().Str("template_id", templateID).Int("sent", resp.Sent).Msg("correos enviados")
	return resp, nil
}

func (s *Service) loadRecord(ctx context.Context, model, companyID, id string, company *entity.Company) (record, error) {
	switch model {
	case entity.ModelInvoice:
		inv, err := s.invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return record{}, fmt.Errorf("correo: obtener factura: %w", err)
		}
		if inv == nil {
			return record{}, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
		}
		if inv.CompanyID != companyID {
			return record{}, domain.ErrForbidden
		}
		partner, err := s.partnerRepo.GetByID(ctx, inv.PartnerID)
		if err != nil {
			return record{}, fmt.Errorf("correo: obtener partner: %w", err)
		}
		rec := record{id: id, data: templateData{
			Name:        inv.Name,
			Ref:         inv.Ref,
			CompanyName: company.Name,
			Amount:      inv.AmountResidual.StringFixed(2),
			Currency:    inv.CurrencyCode,
		}}
		if !inv.DueDate.IsZero() {
			rec.data.DueDate = inv.DueDate.Format("02.01.2006")
		}
		if partner != nil {
			rec.lang, rec.emailTo, rec.data.PartnerName = partner.Lang, partner.Email, partner.Name
		}
		return rec, nil
	case entity.ModelPartner:
		partner, err := s.partnerRepo.GetByID(ctx, id)
		if err != nil {
			return record{}, fmt.Errorf("correo: obtener partner: %w", err)
		}
		if partner == nil {
			return record{}, fmt.Errorf("%w: partner %s", domain.ErrNotFound, id)
		}
		if partner.CompanyID != companyID {
			return record{}, domain.ErrForbidden
		}
		return record{id: id, lang: partner.Lang, emailTo: partner.Email, data: templateData{
			Name:        partner.Name,
			PartnerName: partner.Name,
			CompanyName: company.Name,
		}}, nil
	default:
		return record{}, fmt.Errorf("%w: modelo de plantilla no soportado %q", domain.ErrInvalidInput, model)
	}
}

// executor lo común a text/template y html/template.
type executor interface {
	Execute(w io.Writer, data any) error
}

// parse plantillas de texto plano: asunto y nombre de adjunto.
func parse(name, text string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: plantilla %s: %w", domain.ErrInvalidInput, name, err)
	}
	return t, nil
}

// parseHTML el cuerpo se envía como text/html: los datos de partner y factura se escapan.
func parseHTML(name, text string) (*htmltemplate.Template, error) {
	t, err := htmltemplate.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: plantilla %s: %w", domain.ErrInvalidInput, name, err)
	}
	return t, nil
}

// execute renderiza la plantilla; un error de ejecución deja el campo vacío.
func execute(t executor, data templateData) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

func defaultFileName(reportName, recordName string) string {
	short := reportName[strings.LastIndex(reportName, ".")+1:]
	return short + "_" + strings.ReplaceAll(recordName, "/", "_") + ".pdf"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
