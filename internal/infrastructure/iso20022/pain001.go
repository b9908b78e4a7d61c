// Package iso20022 genera órdenes de transferencia pain.001.001.09 (Swiss Payment Standards)
// a partir de los pagos salientes registrados.
package iso20022

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/l10n-ch-billing/internal/application/payment"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/qrbill"
)

// NsPain001 namespace del mensaje de iniciación de transferencias.
const NsPain001 = "urn:iso:std:iso:20022:tech:xsd:pain.001.001.09"

const (
	maxUnstructured = 140
	maxID           = 35 // Max35Text: MsgId, EndToEndId
)

// ErrInvalidOrder la orden no se puede expresar como pain.001.
var ErrInvalidOrder = errors.New("iso20022: orden de transferencia inválida")

var _ payment.CreditTransferBuilder = (*Pain001Builder)(nil)

// Pain001Builder construye el XML con etree y calcula su huella SHA-256 sobre la forma canónica.
type Pain001Builder struct{}

// NewPain001Builder crea el builder.
func NewPain001Builder() *Pain001Builder { return &Pain001Builder{} }

// Build genera el documento: un PmtInf por cuenta ordenante y fecha de ejecución (fechas en orden
// ascendente), transferencias en el orden recibido dentro de cada grupo.
func (b *Pain001Builder) Build(order payment.CreditTransferOrder) ([]byte, string, error) {
	if err := validateOrder(order); err != nil {
		return nil, "", err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("Document")
	root.CreateAttr("xmlns", NsPain001)
	initn := root.CreateElement("CstmrCdtTrfInitn")

	// ── 1. Cabecera de grupo ───────────────────────────────────────────────
	hdr := initn.CreateElement("GrpHdr")
	hdr.CreateElement("MsgId").SetText(order.MessageID)
	hdr.CreateElement("CreDtTm").SetText(order.CreatedAt.Format("2006-01-02T15:04:05"))
	hdr.CreateElement("NbOfTxs").SetText(strconv.Itoa(len(order.Transfers)))
	hdr.CreateElement("CtrlSum").SetText(controlSum(order.Transfers).StringFixed(2))
	hdr.CreateElement("InitgPty").CreateElement("Nm").SetText(order.InitiatingParty)

	// ── 2. Un bloque de pago por cuenta ordenante y fecha ──────────────────
	for i, group := range groupPayments(order.Transfers) {
		pmtInf := initn.CreateElement("PmtInf")
		pmtInf.CreateElement("PmtInfId").SetText(fmt.Sprintf("%s-%d", order.MessageID, i+1))
		pmtInf.CreateElement("PmtMtd").SetText("TRF")
		pmtInf.CreateElement("BtchBookg").SetText("true")
		pmtInf.CreateElement("NbOfTxs").SetText(strconv.Itoa(len(group.transfers)))
		pmtInf.CreateElement("CtrlSum").SetText(controlSum(group.transfers).StringFixed(2))
		pmtInf.CreateElement("ReqdExctnDt").CreateElement("Dt").SetText(group.date.Format("2006-01-02"))
		writeParty(pmtInf, "Dbtr", group.debtor)

		for _, t := range group.transfers {
			writeTransfer(pmtInf.CreateElement("CdtTrfTxInf"), t)
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("iso20022: serializar: %w", err)
	}
	digest, err := Digest(out)
	if err != nil {
		return nil, "", err
	}
	return out, digest, nil
}

// Digest SHA-256 (hex) de la forma canónica C14N del documento. La declaración XML no forma
// parte de la forma canónica.
func Digest(xmlBytes []byte) (string, error) {
	body := bytes.TrimSpace(xmlBytes)
	if bytes.HasPrefix(body, []byte("<?xml")) {
		if end := bytes.Index(body, []byte("?>")); end >= 0 {
			body = bytes.TrimSpace(body[end+2:])
		}
	}
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("iso20022: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func writeParty(parent *etree.Element, role string, p payment.Party) {
	party := parent.CreateElement(role)
	party.CreateElement("Nm").SetText(p.Name)
	if p.Country != "" {
		party.CreateElement("PstlAdr").CreateElement("Ctry").SetText(p.Country)
	}
	parent.CreateElement(role + "Acct").CreateElement("Id").CreateElement("IBAN").
		SetText(strings.ToUpper(qrbill.Normalize(p.IBAN)))
	fin := parent.CreateElement(role + "Agt").CreateElement("FinInstnId")
	if p.BIC != "" {
		fin.CreateElement("BICFI").SetText(p.BIC)
	} else {
		fin.CreateElement("Othr").CreateElement("Id").SetText("NOTPROVIDED")
	}
}

func writeTransfer(tx *etree.Element, t payment.Transfer) {
	tx.CreateElement("PmtId").CreateElement("EndToEndId").SetText(t.EndToEndID)
	amt := tx.CreateElement("Amt").CreateElement("InstdAmt")
	amt.CreateAttr("Ccy", t.Currency)
	amt.SetText(t.Amount.StringFixed(2))

	if t.Creditor.BIC != "" {
		tx.CreateElement("CdtrAgt").CreateElement("FinInstnId").CreateElement("BICFI").SetText(t.Creditor.BIC)
	}
	cdtr := tx.CreateElement("Cdtr")
	cdtr.CreateElement("Nm").SetText(t.Creditor.Name)
	if t.Creditor.Country != "" {
		cdtr.CreateElement("PstlAdr").CreateElement("Ctry").SetText(t.Creditor.Country)
	}
	tx.CreateElement("CdtrAcct").CreateElement("Id").CreateElement("IBAN").
		SetText(strings.ToUpper(qrbill.Normalize(t.Creditor.IBAN)))

	if t.Communication == "" {
		return
	}
	rmt := tx.CreateElement("RmtInf")
	switch {
	case qrbill.IsQRReference(t.Communication):
		ref := rmt.CreateElement("Strd").CreateElement("CdtrRefInf")
		ref.CreateElement("Tp").CreateElement("CdOrPrtry").CreateElement("Prtry").SetText(qrbill.RefTypeQRR)
		ref.CreateElement("Ref").SetText(qrbill.Normalize(t.Communication))
	case qrbill.IsCreditorReference(t.Communication):
		ref := rmt.CreateElement("Strd").CreateElement("CdtrRefInf")
		ref.CreateElement("Tp").CreateElement("CdOrPrtry").CreateElement("Cd").SetText(qrbill.RefTypeSCOR)
		ref.CreateElement("Ref").SetText(strings.ToUpper(qrbill.Normalize(t.Communication)))
	default:
		rmt.CreateElement("Ustrd").SetText(truncate(t.Communication, maxUnstructured))
	}
}

type paymentGroup struct {
	debtor    payment.Party
	date      time.Time
	transfers []payment.Transfer
}

func groupPayments(transfers []payment.Transfer) []paymentGroup {
	index := map[string]int{}
	var groups []paymentGroup
	for _, t := range transfers {
		key := debtorIBAN(t.Debtor) + "|" + t.ExecutionDate.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, paymentGroup{debtor: t.Debtor, date: t.ExecutionDate})
		}
		groups[i].transfers = append(groups[i].transfers, t)
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].date.Before(groups[b].date) })
	return groups
}

func debtorIBAN(p payment.Party) string {
	return strings.ToUpper(qrbill.Normalize(p.IBAN))
}

func controlSum(transfers []payment.Transfer) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range transfers {
		sum = sum.Add(t.Amount)
	}
	return sum
}

func validateOrder(o payment.CreditTransferOrder) error {
	if o.MessageID == "" || len(o.MessageID) > maxID {
		return fmt.Errorf("%w: MsgId vacío o de más de %d caracteres", ErrInvalidOrder, maxID)
	}
	if len(o.Transfers) == 0 {
		return fmt.Errorf("%w: sin transferencias", ErrInvalidOrder)
	}
	for _, t := range o.Transfers {
		if t.EndToEndID == "" || len(t.EndToEndID) > maxID {
			return fmt.Errorf("%w: EndToEndId %q vacío o de más de %d caracteres", ErrInvalidOrder, t.EndToEndID, maxID)
		}
		if t.Debtor.IBAN == "" {
			return fmt.Errorf("%w: falta el IBAN del ordenante en %s", ErrInvalidOrder, t.EndToEndID)
		}
		if !t.Amount.IsPositive() {
			return fmt.Errorf("%w: importe no positivo en %s", ErrInvalidOrder, t.EndToEndID)
		}
		if t.Creditor.IBAN == "" {
			return fmt.Errorf("%w: falta el IBAN del beneficiario en %s", ErrInvalidOrder, t.EndToEndID)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
