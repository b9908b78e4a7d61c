// Package report es el registro de reportes PDF: factura con boleta de pago, boleta QR y
// carta de recordatorio (con las boletas QR de las facturas pendientes al final).
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/l10n-ch-billing/internal/domain"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/qrbill"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/repository"
	"github.com/jhoicas/l10n-ch-billing/pkg/logger"
)

// ErrReportNotFound el nombre de reporte no está registrado.
var ErrReportNotFound = errors.New("report: reporte no encontrado")

type renderFunc func(ctx context.Context, companyID, resID string) ([]byte, error)

type definition struct {
	model  string
	render renderFunc
}

// Service registro de reportes.
type Service struct {
	invoiceRepo repository.InvoiceRepository
	partnerRepo repository.PartnerRepository
	companyRepo repository.CompanyRepository
	bankRepo    repository.BankAccountRepository
	modules     ModuleChecker
	generator   PDFGenerator
	merger      PDFMerger
	log         *logger.Logger
	now         func() time.Time
	reports     map[string]definition
	followupQR  bool
}

// NewService construye el registro con los tres reportes de la localización.
func NewService(
	invoiceRepo repository.InvoiceRepository,
	partnerRepo repository.PartnerRepository,
	companyRepo repository.CompanyRepository,
	bankRepo repository.BankAccountRepository,
	modules ModuleChecker,
	generator PDFGenerator,
	merger PDFMerger,
	log *logger.Logger,
) *Service {
	s := &Service{
		invoiceRepo: invoiceRepo,
		partnerRepo: partnerRepo,
		companyRepo: companyRepo,
		bankRepo:    bankRepo,
		modules:     modules,
		generator:   generator,
		merger:      merger,
		log:         log,
		now:         time.Now,
		followupQR:  true,
	}
	s.reports = map[string]definition{
		entity.ReportInvoiceWithPayslip: {model: entity.ModelInvoice, render: s.renderInvoiceWithPayslip},
		entity.ReportQRSlip:             {model: entity.ModelInvoice, render: s.renderQRSlip},
		entity.ReportFollowup:           {model: entity.ModelPartner, render: s.renderFollowup},
	}
	return s
}

// SetFollowupQR habilita o no el anexo de boletas QR en los recordatorios para toda la
// instalación. Con true sigue mandando el módulo followup_report_qr de cada empresa.
func (s *Service) SetFollowupQR(enabled bool) { s.followupQR = enabled }

// Model devuelve el modelo (account.move, res.partner) sobre el que se imprime el reporte.
func (s *Service) Model(reportName string) (string, error) {
	def, ok := s.reports[reportName]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrReportNotFound, reportName)
	}
	return def.model, nil
}

// Render genera un PDF por registro. Un registro inexistente devuelve domain.ErrNotFound y uno
// de otra empresa domain.ErrForbidden.
func (s *Service) Render(ctx context.Context, companyID, reportName string, resIDs []string) (map[string][]byte, error) {
	def, ok := s.reports[reportName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, reportName)
	}
	if len(resIDs) == 0 {
		return nil, fmt.Errorf("%w: res_ids es requerido", domain.ErrInvalidInput)
	}
	out := make(map[string][]byte, len(resIDs))
	for _, id := range resIDs {
		if _, done := out[id]; done {
			continue
		}
		pdf, err := def.render(ctx, companyID, id)
		if err != nil {
			return nil, err
		}
		out[id] = pdf
	}
	s.log.Debug().Str("report", reportName).Int("records", len(out)).Msg("reporte generado")
	return out, nil
}

// RenderMerged genera el reporte de todos los registros en un único PDF (orden de resIDs) y
// propone un nombre de archivo.
func (s *Service) RenderMerged(ctx context.Context, companyID, reportName string, resIDs []string) ([]byte, string, error) {
	streams, err := s.Render(ctx, companyID, reportName, resIDs)
	if err != nil {
		return nil, "", err
	}
	docs := make([][]byte, 0, len(streams))
	seen := make(map[string]bool, len(resIDs))
	for _, id := range resIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		docs = append(docs, streams[id])
	}
	pdf := docs[0]
	if len(docs) > 1 {
		if pdf, err = s.merger.Merge(docs...); err != nil {
			return nil, "", fmt.Errorf("report: unir PDF: %w", err)
		}
	}
	short := reportName[strings.LastIndex(reportName, ".")+1:]
	return pdf, short + ".pdf", nil
}

// ── Factura ───────────────────────────────────────────────────────────────────

func (s *Service) renderInvoiceWithPayslip(ctx context.Context, companyID, id string) ([]byte, error) {
	doc, err := s.invoiceDocument(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	pdf, err := s.generator.InvoiceWithPayslip(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("report: factura %s: %w", doc.Invoice.Name, err)
	}
	return pdf, nil
}

func (s *Service) renderQRSlip(ctx context.Context, companyID, id string) ([]byte, error) {
	doc, err := s.invoiceDocument(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if doc.Bill == nil {
		return nil, fmt.Errorf("%w: la factura %s no tiene una QR-factura válida", domain.ErrInvalidInput, doc.Invoice.Name)
	}
	pdf, err := s.generator.QRSlip(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("report: boleta QR %s: %w", doc.Invoice.Name, err)
	}
	return pdf, nil
}

func (s *Service) invoiceDocument(ctx context.Context, companyID, id string) (InvoiceDocument, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return InvoiceDocument{}, fmt.Errorf("report: obtener factura: %w", err)
	}
	if inv == nil {
		return InvoiceDocument{}, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return InvoiceDocument{}, domain.ErrForbidden
	}
	company, err := s.companyRepo.GetByID(ctx, inv.CompanyID)
	if err != nil {
		return InvoiceDocument{}, fmt.Errorf("report: obtener empresa: %w", err)
	}
	if company == nil {
		return InvoiceDocument{}, domain.ErrNotFound
	}
	partner, err := s.partnerRepo.GetByID(ctx, inv.PartnerID)
	if err != nil {
		return InvoiceDocument{}, fmt.Errorf("report: obtener partner: %w", err)
	}
	return s.buildInvoiceDocument(ctx, inv, company, partner)
}

func (s *Service) buildInvoiceDocument(ctx context.Context, inv *entity.Invoice, company *entity.Company, partner *entity.Partner) (InvoiceDocument, error) {
	doc := InvoiceDocument{Invoice: inv, Company: company, Partner: partner}
	if inv.PartnerBankID == "" {
		return doc, nil
	}
	account, err := s.bankRepo.GetByID(ctx, inv.PartnerBankID)
	if err != nil {
		return InvoiceDocument{}, fmt.Errorf("report: obtener cuenta bancaria: %w", err)
	}
	if qrbill.IsQRValid(inv, company, account, partner) {
		bill := qrbill.BillFromInvoice(inv, company, account, partner)
		doc.Bill = &bill
	}
	return doc, nil
}

// ── Recordatorio ──────────────────────────────────────────────────────────────

func (s *Service) renderFollowup(ctx context.Context, companyID, id string) ([]byte, error) {
	partner, err := s.partnerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("report: obtener partner: %w", err)
	}
	if partner == nil {
		return nil, domain.ErrNotFound
	}
	if partner.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("report: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	commercialID := partner.CommercialPartnerID
	if commercialID == "" {
		commercialID = partner.ID
	}
	invoices, err := s.invoiceRepo.ListUnreconciledByPartner(ctx, companyID, commercialID)
	if err != nil {
		return nil, fmt.Errorf("report: facturas pendientes: %w", err)
	}

	letter, err := s.generator.FollowupLetter(ctx, FollowupDocument{
		Company:  company,
		Partner:  partner,
		Invoices: invoices,
		Date:     s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("report: carta de recordatorio: %w", err)
	}

	if !s.followupQR {
		return letter, nil
	}
	active, err := s.modules.HasActiveModule(ctx, companyID, entity.ModuleFollowupReportQR)
	if err != nil {
		return nil, fmt.Errorf("report: verificar módulo: %w", err)
	}
	if !active {
		return letter, nil
	}

	slips, err := s.qrSlips(ctx, partner, invoices)
	if err != nil {
		return nil, err
	}
	if len(slips) == 0 {
		return letter, nil
	}
	merged, err := s.merger.Merge(append([][]byte{letter}, slips...)...)
	if err != nil {
		return nil, fmt.Errorf("report: anexar boletas QR: %w", err)
	}
	s.log.Debug().Str("partner_id", partner.ID).Int("qr_slips", len(slips)).Msg("boletas QR anexadas al recordatorio")
	return merged, nil
}

// qrSlips boletas QR de las facturas de empresa suiza con QR válido, en el orden recibido.
func (s *Service) qrSlips(ctx context.Context, partner *entity.Partner, invoices []*entity.Invoice) ([][]byte, error) {
	companies := make(map[string]*entity.Company)
	var slips [][]byte
	for _, inv := range invoices {
		company, ok := companies[inv.CompanyID]
		if !ok {
			c, err := s.companyRepo.GetByID(ctx, inv.CompanyID)
			if err != nil {
				return nil, fmt.Errorf("report: obtener empresa: %w", err)
			}
			companies[inv.CompanyID] = c
			company = c
		}
		if company == nil || company.CountryCode != "CH" {
			continue
		}
		doc, err := s.buildInvoiceDocument(ctx, inv, company, partner)
		if err != nil {
			return nil, err
		}
		if doc.Bill == nil {
			continue
		}
		slip, err := s.generator.QRSlip(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("report: boleta QR %s: %w", inv.Name, err)
		}
		slips = append(slips, slip)
	}
	return slips, nil
}
