package mailing

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const payslipAttachmentKey = "invoice_%s_with_payslip.pdf"

var (
	supportedLangs = []language.Tag{language.English, language.German, language.French, language.Italian}
	langMatcher    = language.NewMatcher(supportedLangs)
	messages       = newCatalog()
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	_ = b.SetString(language.English, payslipAttachmentKey, "invoice_%s_with_payslip.pdf")
	_ = b.SetString(language.German, payslipAttachmentKey, "rechnung_%s_mit_einzahlungsschein.pdf")
	_ = b.SetString(language.French, payslipAttachmentKey, "facture_%s_avec_bulletin_de_versement.pdf")
	_ = b.SetString(language.Italian, payslipAttachmentKey, "fattura_%s_con_polizza_di_versamento.pdf")
	return b
}

// printerFor elige el idioma soportado más cercano al del partner (de_CH, fr_CH, it_CH, en_US…).
// Sin idioma o con uno desconocido se usa inglés.
func printerFor(lang string) *message.Printer {
	tag := language.English
	if lang != "" {
		if parsed, err := language.Parse(strings.ReplaceAll(lang, "_", "-")); err == nil {
			_, idx, confidence := langMatcher.Match(parsed)
			if confidence != language.No {
				tag = supportedLangs[idx]
			}
		}
	}
	return message.NewPrinter(tag, message.Catalog(messages))
}

// PayslipAttachmentName nombre del adjunto de la factura con boleta, traducido:
// "INV/2024/0001" → "invoice_INV_2024_0001_with_payslip.pdf".
func PayslipAttachmentName(invoiceName, lang string) string {
	return printerFor(lang).Sprintf(payslipAttachmentKey, strings.ReplaceAll(invoiceName, "/", "_"))
}
