package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/l10n-ch-billing/internal/application/dto"
	"github.com/jhoicas/l10n-ch-billing/internal/application/payment"
	"github.com/jhoicas/l10n-ch-billing/internal/domain"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/pkg/logger"
)

const qrRef = "210000000003139471430009017"

func openLine(id, invoiceID, name string, moveType entity.MoveType, residual string, paymentRef string) *entity.OpenLine {
	accountType := entity.AccountTypeReceivable
	if moveType == entity.MoveTypeInInvoice || moveType == entity.MoveTypeInRefund {
		accountType = entity.AccountTypePayable
	}
	return &entity.OpenLine{
		ID:                     id,
		InvoiceID:              invoiceID,
		InvoiceName:            name,
		PaymentReference:       paymentRef,
		MoveType:               moveType,
		PartnerID:              "p1",
		CommercialPartnerID:    "p1",
		CurrencyCode:           "CHF",
		PartnerBankID:          "bank-p1",
		AccountType:            accountType,
		AmountResidual:         decimal.RequireFromString(residual),
		AmountResidualCurrency: decimal.RequireFromString(residual),
	}
}

type registerFixture struct {
	uc       *payment.RegisterPaymentsUseCase
	invoices *fakeInvoiceRepo
	tx       *fakeTxRunner
}

func newRegisterFixture(lines ...*entity.OpenLine) registerFixture {
	invoices := &fakeInvoiceRepo{lines: lines}
	tx := &fakeTxRunner{invoiceRepo: invoices}
	uc := payment.NewRegisterPaymentsUseCase(
		tx,
		&fakeCompanyRepo{companies: map[string]*entity.Company{
			"c1": {ID: "c1", Name: "Muster AG", CountryCode: "CH", CurrencyCode: "CHF"},
		}},
		&fakeJournalRepo{journals: map[string]*entity.Journal{
			"j1": {ID: "j1", CompanyID: "c1", Code: "BNK1", Type: "bank"},
			"j2": {ID: "j2", CompanyID: "otra", Code: "BNK2", Type: "bank"},
		}},
		invoices,
		fakeCurrencyRepo{},
		payment.Config{DefaultGrouping: true},
		logger.Nop(),
	)
	return registerFixture{uc: uc, invoices: invoices, tx: tx}
}

func TestPreviewPayments_ProveedorMismaReferencia(t *testing.T) {
	f := newRegisterFixture(
		openLine("l1", "inv1", "BILL/001", entity.MoveTypeInInvoice, "-150", qrRef),
		openLine("l2", "inv2", "BILL/002", entity.MoveTypeInInvoice, "-50", qrRef),
	)

	values, err := f.uc.PreviewPayments(context.Background(), "c1", dto.RegisterPaymentsRequest{
		InvoiceIDs:  []string{"inv1", "inv2"},
		JournalID:   "j1",
		PaymentDate: "2024-03-15",
	})
	require.NoError(t, err)
	require.Len(t, values, 1)

	v := values[0]
	assert.Equal(t, qrRef, v.Communication)
	assert.Equal(t, []string{"inv1", "inv2"}, v.InvoiceIDs)
	assert.Equal(t, entity.PaymentTypeOutbound, v.PaymentType)
	assert.True(t, decimal.NewFromInt(200).Equal(v.Amount), "got %s", v.Amount)
	assert.Equal(t, "CHF", v.Currency)
	assert.Equal(t, "p1", v.PartnerID)
	assert.Equal(t, entity.PartnerTypeSupplier, v.PartnerType)
	assert.Equal(t, "bank-p1", v.PartnerBankAccountID)
	assert.Equal(t, "manual", v.PaymentMethod)
	assert.Equal(t, "2024-03-15", v.PaymentDate)
	assert.Equal(t, "c1", f.invoices.lastFilter.CompanyID)
}

func TestPreviewPayments_SinAgrupar(t *testing.T) {
	f := newRegisterFixture(
		openLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, "30", ""),
		openLine("l2", "inv1", "INV/001", entity.MoveTypeOutInvoice, "70", ""),
		openLine("l3", "inv2", "INV/002", entity.MoveTypeOutInvoice, "50", ""),
	)
	grouping := false

	values, err := f.uc.PreviewPayments(context.Background(), "c1", dto.RegisterPaymentsRequest{
		PartnerID:    "p1",
		JournalID:    "j1",
		GroupPayment: &grouping,
	})
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.True(t, decimal.NewFromInt(100).Equal(values[0].Amount))
	assert.Equal(t, entity.PaymentTypeInbound, values[0].PaymentType)
	assert.Equal(t, "INV/001", values[0].Communication)
	assert.Equal(t, entity.PartnerTypeCustomer, values[1].PartnerType)
}

func TestPreviewPayments_FechaPorDefectoHoy(t *testing.T) {
	f := newRegisterFixture(openLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, "10", ""))

	values, err := f.uc.PreviewPayments(context.Background(), "c1", dto.RegisterPaymentsRequest{InvoiceIDs: []string{"inv1"}, JournalID: "j1"})
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, time.Now().Format("2006-01-02"), values[0].PaymentDate)
}

func TestPreviewPayments_Errores(t *testing.T) {
	f := newRegisterFixture(openLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, "10", ""))
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.RegisterPaymentsRequest
		want error
	}{
		{"selección vacía", dto.RegisterPaymentsRequest{JournalID: "j1"}, domain.ErrInvalidInput},
		{"sin diario", dto.RegisterPaymentsRequest{InvoiceIDs: []string{"inv1"}}, domain.ErrInvalidInput},
		{"fecha inválida", dto.RegisterPaymentsRequest{InvoiceIDs: []string{"inv1"}, JournalID: "j1", PaymentDate: "15/03/2024"}, domain.ErrInvalidInput},
		{"diario inexistente", dto.RegisterPaymentsRequest{InvoiceIDs: []string{"inv1"}, JournalID: "nope"}, domain.ErrNotFound},
		{"diario de otra empresa", dto.RegisterPaymentsRequest{InvoiceIDs: []string{"inv1"}, JournalID: "j2"}, domain.ErrForbidden},
		{"nada que pagar", dto.RegisterPaymentsRequest{InvoiceIDs: []string{"inv9"}, JournalID: "j1"}, domain.ErrNothingToPay},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.PreviewPayments(ctx, "c1", tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPreviewPayments_TipoNoSoportado(t *testing.T) {
	f := newRegisterFixture(openLine("l1", "inv1", "MISC/001", entity.MoveType("entry"), "10", ""))

	_, err := f.uc.PreviewPayments(context.Background(), "c1", dto.RegisterPaymentsRequest{InvoiceIDs: []string{"inv1"}, JournalID: "j1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPreviewPayments_ConversionSinTasa(t *testing.T) {
	f := newRegisterFixture(openLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, "10", ""))

	_, err := f.uc.PreviewPayments(context.Background(), "c1", dto.RegisterPaymentsRequest{
		InvoiceIDs: []string{"inv1"},
		JournalID:  "j1",
		Currency:   "EUR",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INV/001")
}

func TestRegisterPayments_PersisteEnUnaTransaccion(t *testing.T) {
	f := newRegisterFixture(
		openLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, "100", ""),
		openLine("l2", "inv2", "BILL/001", entity.MoveTypeInInvoice, "-40", ""),
	)

	out, err := f.uc.RegisterPayments(context.Background(), "c1", "u1", dto.RegisterPaymentsRequest{
		InvoiceIDs:  []string{"inv1", "inv2"},
		JournalID:   "j1",
		PaymentDate: "2024-03-15",
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Len(t, f.tx.committed, 2)

	p := f.tx.committed[0]
	assert.Equal(t, out[0].ID, p.ID)
	assert.Equal(t, "u1", p.CreatedBy)
	assert.Equal(t, entity.PaymentStatePosted, p.State)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), p.PaymentDate)
	assert.Equal(t, entity.PaymentTypeOutbound, f.tx.committed[1].PaymentType)
	assert.Equal(t, entity.PaymentStateInPay, f.invoices.stateByID["inv1"])
	assert.Equal(t, entity.PaymentStateInPay, f.invoices.stateByID["inv2"])
}

func TestRegisterPayments_TodoONada(t *testing.T) {
	f := newRegisterFixture(openLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, "100", ""))
	f.invoices.failOnState = true

	_, err := f.uc.RegisterPayments(context.Background(), "c1", "u1", dto.RegisterPaymentsRequest{InvoiceIDs: []string{"inv1"}, JournalID: "j1"})
	require.Error(t, err)
	assert.Empty(t, f.tx.committed)
}

func TestRegisterPayments_FechaPorDefectoSeGuardaEnElPago(t *testing.T) {
	f := newRegisterFixture(openLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, "100", ""))

	out, err := f.uc.RegisterPayments(context.Background(), "c1", "u1", dto.RegisterPaymentsRequest{InvoiceIDs: []string{"inv1"}, JournalID: "j1"})
	require.NoError(t, err)
	require.Len(t, f.tx.committed, 1)
	p := f.tx.committed[0]
	assert.False(t, p.PaymentDate.IsZero())
	assert.Equal(t, out[0].Values.PaymentDate, p.PaymentDate.Format("2006-01-02"))
}

func TestRegisterPayments_FacturaTomadaPorOtraRegistracion(t *testing.T) {
	f := newRegisterFixture(
		openLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, "100", ""),
		openLine("l2", "inv2", "INV/002", entity.MoveTypeOutInvoice, "80", ""),
	)
	ctx := context.Background()
	req := dto.RegisterPaymentsRequest{InvoiceIDs: []string{"inv1", "inv2"}, JournalID: "j1", PaymentDate: "2024-03-15"}

	// entre la lectura de partidas y el commit otra solicitud registró inv2
	f.invoices.stateByID = map[string]string{"inv2": entity.PaymentStateInPay}
	_, err := f.uc.RegisterPayments(ctx, "c1", "u1", req)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, f.tx.committed)
}

func TestRegisterPayments_SegundaRegistracionMismasFacturas(t *testing.T) {
	f := newRegisterFixture(openLine("l1", "inv1", "INV/001", entity.MoveTypeOutInvoice, "100", ""))
	ctx := context.Background()
	req := dto.RegisterPaymentsRequest{InvoiceIDs: []string{"inv1"}, JournalID: "j1", PaymentDate: "2024-03-15"}

	_, err := f.uc.RegisterPayments(ctx, "c1", "u1", req)
	require.NoError(t, err)
	_, err = f.uc.RegisterPayments(ctx, "c1", "u2", req)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, f.tx.committed, 1)
}
