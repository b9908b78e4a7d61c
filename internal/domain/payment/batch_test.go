package payment_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/payment"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testQRRef = "210000000003139471430009017"

type lineOpt func(*entity.OpenLine)

func withRef(ref string) lineOpt {
	return func(ol *entity.OpenLine) { ol.InvoiceRef = ref }
}

func withPaymentRef(ref string) lineOpt {
	return func(ol *entity.OpenLine) { ol.PaymentReference = ref }
}

func withPartner(id string) lineOpt {
	return func(ol *entity.OpenLine) { ol.PartnerID = id; ol.CommercialPartnerID = id }
}

func withBank(id string) lineOpt {
	return func(ol *entity.OpenLine) { ol.PartnerBankID = id }
}

func withCurrency(code string) lineOpt {
	return func(ol *entity.OpenLine) { ol.CurrencyCode = code }
}

func withResidual(base, inCurrency string) lineOpt {
	return func(ol *entity.OpenLine) {
		ol.AmountResidual = decimal.RequireFromString(base)
		ol.AmountResidualCurrency = decimal.RequireFromString(inCurrency)
	}
}

// newLine construye una partida abierta de cliente en CHF por 100 con los ajustes indicados.
func newLine(id, invoiceID, name string, moveType entity.MoveType, opts ...lineOpt) payment.InvoiceLine {
	accountType := entity.AccountTypeReceivable
	if moveType == entity.MoveTypeInInvoice || moveType == entity.MoveTypeInRefund || moveType == entity.MoveTypeInReceipt {
		accountType = entity.AccountTypePayable
	}
	ol := &entity.OpenLine{
		ID:                     id,
		InvoiceID:              invoiceID,
		InvoiceName:            name,
		MoveType:               moveType,
		PartnerID:              "p1",
		CommercialPartnerID:    "p1",
		CurrencyCode:           "CHF",
		PartnerBankID:          "bank1",
		AccountType:            accountType,
		AmountResidual:         decimal.NewFromInt(100),
		AmountResidualCurrency: decimal.NewFromInt(100),
	}
	for _, opt := range opts {
		opt(ol)
	}
	return payment.FromOpenLine(ol)
}

// lineIDs aplana los IDs de línea de todos los lotes, en orden.
func lineIDs(batches []payment.PaymentBatch) []string {
	var ids []string
	for _, b := range batches {
		for _, l := range b.Lines() {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// ──────────────────────────────────────────────────────────────────────────────
// Clasificación de referencias
// ──────────────────────────────────────────────────────────────────────────────

func TestClassifyReference(t *testing.T) {
	cases := []struct {
		name       string
		moveType   entity.MoveType
		paymentRef string
		ref        string
		want       payment.Reference
	}{
		{"proveedor con QRR", entity.MoveTypeInInvoice, testQRRef, "", payment.StructuredReference{Value: testQRRef}},
		{"proveedor con QRR en ref", entity.MoveTypeInInvoice, "", testQRRef, payment.StructuredReference{Value: testQRRef}},
		{"proveedor con texto libre", entity.MoveTypeInInvoice, "Factura 42", "", payment.PlainReference{}},
		{"proveedor con dígito de control erróneo", entity.MoveTypeInInvoice, "210000000003139471430009018", "", payment.PlainReference{}},
		{"nota de crédito de proveedor", entity.MoveTypeInRefund, testQRRef, "", payment.PlainReference{}},
		{"factura de cliente con QRR", entity.MoveTypeOutInvoice, testQRRef, "", payment.PlainReference{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := payment.ClassifyReference(tc.moveType, tc.paymentRef, tc.ref)
			assert.Equal(t, tc.want, got)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// GroupInvoices
// ──────────────────────────────────────────────────────────────────────────────

func TestGroupInvoices_EntradaVacia(t *testing.T) {
	batches, err := payment.GroupInvoices(nil, true)
	require.NoError(t, err)
	assert.Empty(t, batches)

	batches, err = payment.GroupInvoices([]payment.InvoiceLine{}, false)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

// Escenario: dos facturas de proveedor con la misma referencia QR → un lote.
func TestGroupInvoices_ProveedorMismaReferenciaQR(t *testing.T) {
	lines := []payment.InvoiceLine{
		newLine("l1", "inv1", "BILL/001", entity.MoveTypeInInvoice, withPaymentRef(testQRRef), withResidual("-150.00", "-150.00")),
		newLine("l2", "inv2", "BILL/002", entity.MoveTypeInInvoice, withPaymentRef(testQRRef), withResidual("-50.00", "-50.00")),
	}

	batches, err := payment.GroupInvoices(lines, true)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	b := batches[0]
	assert.Equal(t, []string{"inv1", "inv2"}, b.DocumentIDs())
	assert.Equal(t, testQRRef, b.Key.Reference)
	assert.Empty(t, b.Key.PartnerType, "con referencia estructurada el discriminador es la referencia")
	assert.Equal(t, testQRRef, payment.ComputeCommunication(b))
}

// La misma referencia QR escrita con y sin espacios es un único pago; la comunicación
// conserva el texto del primer documento.
func TestGroupInvoices_ReferenciaConEspacios(t *testing.T) {
	spaced := "21 00000 00003 13947 14300 09017"
	lines := []payment.InvoiceLine{
		newLine("l1", "inv1", "BILL/001", entity.MoveTypeInInvoice, withPaymentRef(spaced), withResidual("-150.00", "-150.00")),
		newLine("l2", "inv2", "BILL/002", entity.MoveTypeInInvoice, withPaymentRef(testQRRef), withResidual("-50.00", "-50.00")),
	}

	batches, err := payment.GroupInvoices(lines, true)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, []string{"inv1", "inv2"}, batches[0].DocumentIDs())
	assert.Equal(t, testQRRef, batches[0].Key.Reference)
	assert.Equal(t, spaced, payment.ComputeCommunication(batches[0]))
}

// Escenario: tres facturas de cliente sin referencia → un lote, comunicación con los nombres.
func TestGroupInvoices_ClienteSinReferencia(t *testing.T) {
	lines := []payment.InvoiceLine{
		newLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice),
		newLine("l2", "inv2", "INV/002", entity.MoveTypeOutInvoice),
		newLine("l3", "inv3", "INV/003", entity.MoveTypeOutInvoice),
	}

	batches, err := payment.GroupInvoices(lines, true)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, entity.PartnerTypeCustomer, batches[0].Key.PartnerType)
	assert.Equal(t, "INV/001 INV/002 INV/003", payment.ComputeCommunication(batches[0]))
}

// Escenario: sin agrupación, un documento con varias líneas produce un solo lote.
func TestGroupInvoices_SinAgrupacionUnLotePorDocumento(t *testing.T) {
	lines := []payment.InvoiceLine{
		newLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, withResidual("30", "30")),
		newLine("l2", "inv1", "INV/001", entity.MoveTypeOutInvoice, withResidual("30", "30")),
		newLine("l3", "inv1", "INV/001", entity.MoveTypeOutInvoice, withResidual("40", "40")),
		newLine("l4", "inv2", "INV/002", entity.MoveTypeOutInvoice),
	}

	batches, err := payment.GroupInvoices(lines, false)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, []string{"inv1"}, batches[0].DocumentIDs())
	assert.Len(t, batches[0].Documents[0].Lines, 3)
	assert.Equal(t, []string{"inv2"}, batches[1].DocumentIDs())
}

func TestGroupInvoices_ClaveSeparaPorCadaComponente(t *testing.T) {
	lines := []payment.InvoiceLine{
		newLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice),
		newLine("l2", "inv2", "INV/002", entity.MoveTypeOutInvoice, withPartner("p2")),
		newLine("l3", "inv3", "INV/003", entity.MoveTypeOutInvoice, withCurrency("EUR")),
		newLine("l4", "inv4", "INV/004", entity.MoveTypeOutInvoice, withBank("bank2")),
		newLine("l5", "inv5", "BILL/001", entity.MoveTypeInInvoice),
		newLine("l6", "inv6", "BILL/002", entity.MoveTypeInInvoice, withPaymentRef(testQRRef)),
		newLine("l7", "inv7", "BILL/003", entity.MoveTypeInInvoice, withPaymentRef("000000000000000000000123457")),
		newLine("l8", "inv8", "INV/005", entity.MoveTypeOutRefund),
	}

	batches, err := payment.GroupInvoices(lines, true)
	require.NoError(t, err)
	require.Len(t, batches, 7, "l8 (nota de crédito de cliente) comparte clave con l1")
	assert.Equal(t, []string{"inv1", "inv8"}, batches[0].DocumentIDs())
	assert.Equal(t, []string{"inv5"}, batches[4].DocumentIDs())
	assert.Equal(t, entity.PartnerTypeSupplier, batches[4].Key.PartnerType)
}

func TestGroupInvoices_OrdenDePrimeraAparicion(t *testing.T) {
	lines := []payment.InvoiceLine{
		newLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, withPartner("b")),
		newLine("l2", "inv2", "INV/002", entity.MoveTypeOutInvoice, withPartner("a")),
		newLine("l3", "inv3", "INV/003", entity.MoveTypeOutInvoice, withPartner("b")),
		newLine("l4", "inv1", "INV/001", entity.MoveTypeOutInvoice, withPartner("b")),
	}

	batches, err := payment.GroupInvoices(lines, true)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "b", batches[0].Key.CommercialPartnerID)
	assert.Equal(t, []string{"inv1", "inv3"}, batches[0].DocumentIDs(), "un documento aparece una sola vez por lote")
	assert.Len(t, batches[0].Documents[0].Lines, 2)
	assert.Equal(t, "a", batches[1].Key.CommercialPartnerID)
}

// Propiedad de partición: cada línea en exactamente un lote, sin lotes vacíos.
func TestGroupInvoices_Particion(t *testing.T) {
	lines := []payment.InvoiceLine{
		newLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice),
		newLine("l2", "inv2", "BILL/001", entity.MoveTypeInInvoice, withPaymentRef(testQRRef)),
		newLine("l3", "inv1", "INV/001", entity.MoveTypeOutInvoice),
		newLine("l4", "inv3", "BILL/002", entity.MoveTypeInRefund, withPartner("p9")),
		newLine("l5", "inv4", "INV/002", entity.MoveTypeOutReceipt, withCurrency("EUR")),
		newLine("l6", "inv5", "BILL/003", entity.MoveTypeInInvoice, withPaymentRef(testQRRef)),
	}

	for _, grouping := range []bool{true, false} {
		batches, err := payment.GroupInvoices(lines, grouping)
		require.NoError(t, err)

		got := lineIDs(batches)
		assert.ElementsMatch(t, []string{"l1", "l2", "l3", "l4", "l5", "l6"}, got)
		for _, b := range batches {
			assert.NotEmpty(t, b.Documents)
		}
		if !grouping {
			assert.Len(t, batches, 5, "un lote por documento distinto")
		}
	}
}

func TestGroupInvoices_TipoDesconocido(t *testing.T) {
	lines := []payment.InvoiceLine{
		newLine("l1", "inv1", "MISC/001", entity.MoveType("entry")),
	}

	_, err := payment.GroupInvoices(lines, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, payment.ErrUnsupportedDocumentType)
	assert.Contains(t, err.Error(), "MISC/001")

	_, err = payment.GroupInvoices(lines, false)
	assert.ErrorIs(t, err, payment.ErrUnsupportedDocumentType)
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeCommunication
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeCommunication_PrefiereReferenciaYRef(t *testing.T) {
	lines := []payment.InvoiceLine{
		newLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, withPaymentRef("RF18539007547034")),
		newLine("l2", "inv2", "INV/002", entity.MoveTypeOutInvoice, withRef("PO-77")),
		newLine("l3", "inv3", "INV/003", entity.MoveTypeOutInvoice),
	}
	batches, err := payment.GroupInvoices(lines, true)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	assert.Equal(t, "RF18539007547034 PO-77 INV/003", payment.ComputeCommunication(batches[0]))
}

func TestComputeCommunication_LoteVacio(t *testing.T) {
	assert.Equal(t, "", payment.ComputeCommunication(payment.PaymentBatch{}))
}
