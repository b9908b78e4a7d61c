package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/repository"
)

// PaymentTxRunner ejecuta una función dentro de una transacción con los repos de pagos y facturas.
// Garantiza que todos los pagos de una solicitud se registran o ninguno.
type PaymentTxRunner interface {
	RunPayments(ctx context.Context, fn func(
		paymentRepo repository.PaymentRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// Party titular de una cuenta en una transferencia.
type Party struct {
	Name    string
	IBAN    string
	BIC     string
	Country string
}

// Transfer una transferencia de la orden (un pago saliente).
type Transfer struct {
	EndToEndID    string // máximo 35 caracteres
	ExecutionDate time.Time
	Debtor        Party // cuenta del diario del pago
	Amount        decimal.Decimal
	Currency      string
	Creditor      Party
	Communication string // referencia QRR/SCOR o texto libre
}

// CreditTransferOrder orden de transferencias de la empresa. Cada transferencia lleva su cuenta
// ordenante: pagos de diarios distintos se debitan de cuentas distintas.
type CreditTransferOrder struct {
	MessageID       string
	CreatedAt       time.Time
	InitiatingParty string
	Transfers       []Transfer
}

// CreditTransferBuilder genera el mensaje bancario de la orden y su huella canónica.
type CreditTransferBuilder interface {
	Build(order CreditTransferOrder) (xml []byte, digest string, err error)
}
