package pdf

import "strings"

// labels textos fijos de los PDF en el idioma del destinatario.
type labels struct {
	invoice          string
	creditNote       string
	date             string
	dueDate          string
	recipient        string
	total            string
	amountDue        string
	reference        string
	receipt          string
	paymentPart      string
	accountPayableTo string
	additionalInfo   string
	payableBy        string
	currency         string
	amount           string
	followupTitle    string
	followupIntro    string
	totalDue         string
}

var labelsByLang = map[string]labels{
	"de": {
		invoice: "Rechnung", creditNote: "Gutschrift", date: "Datum", dueDate: "Fällig am",
		recipient: "Rechnungsadresse", total: "Total", amountDue: "Offener Betrag", reference: "Referenz",
		receipt: "Empfangsschein", paymentPart: "Zahlteil", accountPayableTo: "Konto / Zahlbar an",
		additionalInfo: "Zusätzliche Informationen", payableBy: "Zahlbar durch", currency: "Währung",
		amount: "Betrag", followupTitle: "Zahlungserinnerung",
		followupIntro: "Folgende Rechnungen sind noch offen. Bitte begleichen Sie den Betrag in den nächsten Tagen.",
		totalDue:      "Total offen",
	},
	"fr": {
		invoice: "Facture", creditNote: "Avoir", date: "Date", dueDate: "Échéance",
		recipient: "Adresse de facturation", total: "Total", amountDue: "Montant dû", reference: "Référence",
		receipt: "Récépissé", paymentPart: "Section paiement", accountPayableTo: "Compte / Payable à",
		additionalInfo: "Informations supplémentaires", payableBy: "Payable par", currency: "Monnaie",
		amount: "Montant", followupTitle: "Rappel de paiement",
		followupIntro: "Les factures suivantes sont encore ouvertes. Merci de régler le montant dans les prochains jours.",
		totalDue:      "Total dû",
	},
	"it": {
		invoice: "Fattura", creditNote: "Nota di credito", date: "Data", dueDate: "Scadenza",
		recipient: "Indirizzo di fatturazione", total: "Totale", amountDue: "Importo dovuto", reference: "Riferimento",
		receipt: "Ricevuta", paymentPart: "Sezione pagamento", accountPayableTo: "Conto / Pagabile a",
		additionalInfo: "Informazioni supplementari", payableBy: "Pagabile da", currency: "Valuta",
		amount: "Importo", followupTitle: "Sollecito di pagamento",
		followupIntro: "Le seguenti fatture risultano ancora aperte. Vi preghiamo di saldare l'importo nei prossimi giorni.",
		totalDue:      "Totale dovuto",
	},
	"en": {
		invoice: "Invoice", creditNote: "Credit note", date: "Date", dueDate: "Due date",
		recipient: "Billing address", total: "Total", amountDue: "Amount due", reference: "Reference",
		receipt: "Receipt", paymentPart: "Payment part", accountPayableTo: "Account / Payable to",
		additionalInfo: "Additional information", payableBy: "Payable by", currency: "Currency",
		amount: "Amount", followupTitle: "Payment reminder",
		followupIntro: "The following invoices are still open. Please settle the amount within the next days.",
		totalDue:      "Total due",
	},
}

// labelsFor usa el prefijo del idioma (de_CH -> de); por defecto alemán.
func labelsFor(lang string) labels {
	prefix, _, _ := strings.Cut(strings.ToLower(lang), "_")
	if l, ok := labelsByLang[prefix]; ok {
		return l
	}
	return labelsByLang["de"]
}
