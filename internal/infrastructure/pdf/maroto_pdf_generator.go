// Package pdf genera los PDF de facturas con QR-factura suiza, la sección de pago suelta
// y las cartas de recordatorio.
//
// Layout de la factura (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + UID       │  N° Factura + Fechas         │
//	│  DESTINATARIO: dirección del partner                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Total / Pendiente / Referencia                    │
//	│  - - - - - - - - - - - - - - - - - - - - - - - - - - - - -  │
//	│  RECIBO (62mm)    │  SECCIÓN DE PAGO: QR + datos            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/linestyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	mentity "github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/l10n-ch-billing/internal/application/report"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/qrbill"
)

var _ report.PDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 200, Green: 16, Blue: 46}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa report.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	logoPath string
}

// NewMarotoPDFGenerator construye el generador. logoPath es opcional (PNG/JPG local).
func NewMarotoPDFGenerator(logoPath string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{logoPath: logoPath}
}

// InvoiceWithPayslip factura con la sección de pago al pie si la factura tiene QR válido.
func (g *MarotoPDFGenerator) InvoiceWithPayslip(_ context.Context, doc report.InvoiceDocument) ([]byte, error) {
	l := labelsFor(partnerLang(doc.Partner))
	m := maroto.New(g.pageConfig(doc.Company, doc.Invoice.Name))

	if logo := g.logoRow(); logo != nil {
		m.AddRows(logo)
	}
	m.AddRows(invoiceHeaderRow(doc, l))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(addressRow(l.recipient, doc.Partner))
	m.AddRows(line.NewRow(4))
	m.AddRows(summaryRows(doc, l)...)

	if doc.Bill != nil {
		m.AddRows(line.NewRow(10))
		m.AddRows(paymentPartRows(*doc.Bill, l)...)
	}
	return generate(m)
}

// QRSlip solo la sección de pago (recibo + QR). Requiere Bill.
func (g *MarotoPDFGenerator) QRSlip(_ context.Context, doc report.InvoiceDocument) ([]byte, error) {
	if doc.Bill == nil {
		return nil, fmt.Errorf("pdf: la factura %s no tiene QR-factura", doc.Invoice.Name)
	}
	l := labelsFor(partnerLang(doc.Partner))
	m := maroto.New(g.pageConfig(doc.Company, doc.Invoice.Name))
	m.AddRows(paymentPartRows(*doc.Bill, l)...)
	return generate(m)
}

// FollowupLetter carta de recordatorio con las facturas pendientes del partner.
func (g *MarotoPDFGenerator) FollowupLetter(_ context.Context, doc report.FollowupDocument) ([]byte, error) {
	l := labelsFor(partnerLang(doc.Partner))
	m := maroto.New(g.pageConfig(doc.Company, l.followupTitle))
	if logo := g.logoRow(); logo != nil {
		m.AddRows(logo)
	}

	m.AddRows(row.New(18).Add(
		col.New(7).Add(
			text.New(doc.Company.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(companyLine(doc.Company), props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(doc.Date.Format("02.01.2006"), props.Text{Size: 9, Align: align.Right, Top: 2}),
		),
	))
	m.AddRows(addressRow(l.recipient, doc.Partner))
	m.AddRows(line.NewRow(6))
	m.AddRows(row.New(14).Add(col.New(12).Add(
		text.New(l.followupTitle, props.Text{Style: fontstyle.Bold, Size: 12, Color: colorPrimary}),
		text.New(l.followupIntro, props.Text{Size: 9, Top: 7}),
	)))

	m.AddRows(followupHeaderRow(l))
	total := decimal.Zero
	currency := doc.Company.CurrencyCode
	for _, inv := range doc.Invoices {
		m.AddRows(row.New(6).Add(
			col.New(3).Add(text.New(inv.Name, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(inv.InvoiceDate.Format("02.01.2006"), props.Text{Size: 8, Top: 1, Align: align.Center})),
			col.New(2).Add(text.New(inv.DueDate.Format("02.01.2006"), props.Text{Size: 8, Top: 1, Align: align.Center})),
			col.New(2).Add(text.New(formatAmount(inv.AmountTotal)+" "+inv.CurrencyCode, props.Text{Size: 8, Top: 1, Align: align.Right})),
			col.New(3).Add(text.New(formatAmount(inv.AmountResidual)+" "+inv.CurrencyCode, props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
		))
		total = total.Add(inv.AmountResidual)
		currency = inv.CurrencyCode
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(
		col.New(9).Add(text.New(l.totalDue, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Right: 2})),
		col.New(3).Add(text.New(formatAmount(total)+" "+currency, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Right: 1})),
	))
	return generate(m)
}

func (g *MarotoPDFGenerator) pageConfig(company *entity.Company, title string) *mentity.Config {
	return config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(5).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(company.Name, true).
		Build()
}

func (g *MarotoPDFGenerator) logoRow() core.Row {
	if g.logoPath == "" {
		return nil
	}
	return row.New(20).Add(
		col.New(3).Add(image.NewFromFile(g.logoPath, props.Rect{Percent: 90})),
		col.New(9),
	)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func invoiceHeaderRow(doc report.InvoiceDocument, l labels) core.Row {
	inv := doc.Invoice
	title := l.invoice
	if inv.MoveType == entity.MoveTypeOutRefund {
		title = l.creditNote
	}
	return row.New(22).Add(
		col.New(7).Add(
			text.New(doc.Company.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(companyLine(doc.Company), props.Text{Size: 8, Top: 9, Color: colorGray}),
			text.New(doc.Company.UID, props.Text{Size: 8, Top: 14, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(inv.Name, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
			text.New(l.date+": "+inv.InvoiceDate.Format("02.01.2006"), props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
			text.New(l.dueDate+": "+inv.DueDate.Format("02.01.2006"), props.Text{Size: 8, Align: align.Right, Top: 17, Color: colorGray}),
		),
	)
}

func addressRow(label string, p *entity.Partner) core.Row {
	if p == nil {
		return row.New(4)
	}
	return row.New(24).Add(
		col.New(6),
		col.New(6).Add(stack(0, 8,
			styled(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorGray}),
			styled(p.Name, props.Text{Style: fontstyle.Bold, Size: 10}),
			styled(p.Street, props.Text{Size: 9}),
			styled(strings.TrimSpace(p.Zip+" "+p.City), props.Text{Size: 9}),
			styled(p.CountryCode, props.Text{Size: 9}),
		)...),
	)
}

func summaryRows(doc report.InvoiceDocument, l labels) []core.Row {
	inv := doc.Invoice
	kv := func(k, v string, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(k, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})),
			col.New(3).Add(text.New(v, props.Text{Style: style, Size: 9, Align: align.Right, Right: 1})),
		)
	}
	rows := []core.Row{
		kv(l.total, formatAmount(inv.AmountTotal)+" "+inv.CurrencyCode, false),
		kv(l.amountDue, formatAmount(inv.AmountResidual)+" "+inv.CurrencyCode, true),
	}
	if ref := displayReference(inv.PaymentReference); ref != "" {
		rows = append(rows, kv(l.reference, ref, false))
	}
	return rows
}

// paymentPartRows recibo (izquierda) y sección de pago con el Swiss QR Code (derecha).
func paymentPartRows(b qrbill.Bill, l labels) []core.Row {
	amount := ""
	if b.Amount.IsPositive() {
		amount = formatAmount(b.Amount)
	}
	creditor := []string{formatIBAN(b.Account), b.Creditor.Name, b.Creditor.Street,
		strings.TrimSpace(b.Creditor.Zip + " " + b.Creditor.City)}

	receipt := []entry{styled(l.receipt, props.Text{Style: fontstyle.Bold, Size: 11})}
	receipt = append(receipt, block(l.accountPayableTo, creditor)...)
	if ref := displayReference(b.Reference); ref != "" && b.ReferenceType() != qrbill.RefTypeNON {
		receipt = append(receipt, block(l.reference, []string{ref})...)
	}
	receipt = append(receipt, block(l.payableBy, debtorLines(b.Debtor))...)

	info := block(l.accountPayableTo, creditor)
	if ref := displayReference(b.Reference); ref != "" && b.ReferenceType() != qrbill.RefTypeNON {
		info = append(info, block(l.reference, []string{ref})...)
	}
	if b.Message != "" {
		info = append(info, block(l.additionalInfo, []string{b.Message})...)
	}
	info = append(info, block(l.payableBy, debtorLines(b.Debtor))...)

	return []core.Row{
		line.NewRow(2, props.Line{Style: linestyle.Dashed, Color: colorGray, Thickness: 0.2}),
		row.New(80).Add(
			col.New(4).Add(stack(2, 4, receipt...)...),
			col.New(3).Add(
				text.New(l.paymentPart, props.Text{Style: fontstyle.Bold, Size: 11, Top: 2}),
				code.NewQr(qrbill.BuildPayload(b), props.Rect{Percent: 85, Center: true, Top: 4}),
			),
			col.New(5).Add(stack(2, 4, info...)...),
		),
		row.New(12).Add(
			col.New(2).Add(
				text.New(l.currency, props.Text{Style: fontstyle.Bold, Size: 6}),
				text.New(b.Currency, props.Text{Size: 8, Top: 3}),
			),
			col.New(2).Add(
				text.New(l.amount, props.Text{Style: fontstyle.Bold, Size: 6}),
				text.New(amount, props.Text{Size: 8, Top: 3}),
			),
			col.New(1),
			col.New(2).Add(
				text.New(l.currency, props.Text{Style: fontstyle.Bold, Size: 6}),
				text.New(b.Currency, props.Text{Size: 10, Top: 3}),
			),
			col.New(5).Add(
				text.New(l.amount, props.Text{Style: fontstyle.Bold, Size: 6}),
				text.New(amount, props.Text{Size: 10, Top: 3}),
			),
		),
	}
}

func followupHeaderRow(l labels) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h(l.invoice, 3, align.Left),
		h(l.date, 2, align.Center),
		h(l.dueDate, 2, align.Center),
		h(l.total, 2, align.Right),
		h(l.amountDue, 3, align.Right),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// entry texto pendiente de posicionar; stack le asigna el desplazamiento vertical.
type entry struct {
	value string
	props props.Text
}

func styled(v string, p props.Text) entry {
	return entry{value: v, props: p}
}

// stack apila las entradas no vacías empezando en top, separadas por step mm.
func stack(top, step float64, items ...entry) []core.Component {
	out := make([]core.Component, 0, len(items))
	y := top
	for _, it := range items {
		if it.value == "" {
			continue
		}
		p := it.props
		p.Top += y
		out = append(out, text.New(it.value, p))
		y += step
	}
	return out
}

// block título pequeño en negrita seguido de sus líneas.
func block(title string, lines []string) []entry {
	out := []entry{styled(title, props.Text{Style: fontstyle.Bold, Size: 6, Top: 2})}
	for _, s := range lines {
		out = append(out, styled(s, props.Text{Size: 8, Top: 2}))
	}
	return out
}

func debtorLines(d *qrbill.Address) []string {
	if d == nil {
		return nil
	}
	return []string{d.Name, d.Street, strings.TrimSpace(d.Zip + " " + d.City)}
}

func companyLine(c *entity.Company) string {
	var parts []string
	for _, s := range []string{c.Street, strings.TrimSpace(c.Zip + " " + c.City), c.Email} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "  |  ")
}

func partnerLang(p *entity.Partner) string {
	if p == nil {
		return ""
	}
	return p.Lang
}

// displayReference referencia QR en bloques de 2+5x5, el resto en bloques de 4.
func displayReference(ref string) string {
	switch {
	case ref == "":
		return ""
	case qrbill.IsQRReference(ref):
		return qrbill.FormatQRReference(ref)
	case qrbill.IsCreditorReference(ref):
		return strings.Join(splitEvery(strings.ToUpper(qrbill.Normalize(ref)), 4), " ")
	default:
		return ref
	}
}

func formatIBAN(iban string) string {
	return strings.Join(splitEvery(strings.ToUpper(qrbill.Normalize(iban)), 4), " ")
}

// formatAmount importe con dos decimales y espacio como separador de miles.
// Ej: 1234567.5 → "1 234 567.50"
func formatAmount(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	if d.IsNegative() {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, c)
	}
	return string(buf) + "." + frac
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
