package qrbill

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
)

// ErrInvalidBill agrupa errores de validación de la QR-factura.
var ErrInvalidBill = errors.New("qr-factura inválida")

var maxAmount = decimal.RequireFromString("999999999.99")

// Validate comprueba las reglas del estándar: moneda CHF/EUR, IBAN suizo o de Liechtenstein,
// QR-IBAN ⇔ referencia QRR, SCOR válida y acreedor completo.
func Validate(b Bill) error {
	var errs []error
	if b.Currency != "CHF" && b.Currency != "EUR" {
		errs = append(errs, fmt.Errorf("moneda %q no admitida (solo CHF o EUR)", b.Currency))
	}
	if err := ValidateIBAN(b.Account); err != nil {
		errs = append(errs, err)
	} else {
		qrIBAN := IsQRIBAN(b.Account)
		refType := b.ReferenceType()
		if qrIBAN && refType != RefTypeQRR {
			errs = append(errs, errors.New("un QR-IBAN exige una referencia QR (QRR)"))
		}
		if !qrIBAN && refType == RefTypeQRR {
			errs = append(errs, errors.New("una referencia QR solo se admite con QR-IBAN"))
		}
	}
	if strings.TrimSpace(b.Creditor.Name) == "" || b.Creditor.Zip == "" || b.Creditor.City == "" || b.Creditor.Country == "" {
		errs = append(errs, errors.New("el acreedor necesita nombre, código postal, ciudad y país"))
	}
	if b.Amount.IsNegative() || b.Amount.GreaterThan(maxAmount) {
		errs = append(errs, fmt.Errorf("importe fuera de rango: %s", b.Amount.String()))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidBill, errors.Join(errs...))
}

// BillFromInvoice arma la QR-factura de un documento de cliente: acreedor = empresa,
// cuenta = banco destino del documento, deudor = partner (si se conoce).
func BillFromInvoice(inv *entity.Invoice, company *entity.Company, account *entity.BankAccount, debtor *entity.Partner) Bill {
	b := Bill{
		Creditor: Address{
			Name:    company.Name,
			Street:  company.Street,
			Zip:     company.Zip,
			City:    company.City,
			Country: company.CountryCode,
		},
		Amount:    inv.AmountResidual,
		Currency:  inv.CurrencyCode,
		Reference: inv.PaymentReference,
		Message:   inv.Name,
	}
	if account != nil {
		b.Account = account.AccountNumber
	}
	if debtor != nil {
		b.Debtor = &Address{
			Name:    debtor.Name,
			Street:  debtor.Street,
			Zip:     debtor.Zip,
			City:    debtor.City,
			Country: debtor.CountryCode,
		}
	}
	return b
}

// IsQRValid una factura lleva QR si la empresa es suiza y la QR-factura valida.
func IsQRValid(inv *entity.Invoice, company *entity.Company, account *entity.BankAccount, debtor *entity.Partner) bool {
	if inv == nil || company == nil || account == nil {
		return false
	}
	if company.CountryCode != "CH" {
		return false
	}
	return Validate(BillFromInvoice(inv, company, account, debtor)) == nil
}
