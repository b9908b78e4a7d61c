package entity

// Nombres técnicos usados por plantillas y reportes.
const (
	ModelInvoice = "account.move"
	ModelPartner = "res.partner"

	ReportInvoiceWithPayslip = "l10n_ch_invoice_reports.account_move_payment_report"
	ReportQRSlip             = "l10n_ch.l10n_ch_qr_report"
	ReportFollowup           = "account_followup.report_followup_print_all"
)

// MailTemplate plantilla de correo asociada a un modelo y, opcionalmente, a un reporte PDF.
type MailTemplate struct {
	ID             string
	CompanyID      string
	Name           string
	Model          string // account.move, res.partner
	Subject        string // text/template, p.ej. "Factura {{.Name}}"
	Body           string
	EmailFrom      string
	ReportName     string // vacío = sin adjunto
	ReportFileName string // text/template del nombre del adjunto por defecto
}
