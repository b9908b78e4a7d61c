package payment_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/l10n-ch-billing/internal/application/payment"
	"github.com/jhoicas/l10n-ch-billing/internal/domain"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/repository"
)

// ── Fakes de repositorios ────────────────────────────────────────────────────

type fakeCompanyRepo struct {
	repository.CompanyRepository
	companies map[string]*entity.Company
}

func (f *fakeCompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return f.companies[id], nil
}

type fakeJournalRepo struct{ journals map[string]*entity.Journal }

func (f *fakeJournalRepo) GetByID(_ context.Context, id string) (*entity.Journal, error) {
	return f.journals[id], nil
}

type fakePartnerRepo struct {
	repository.PartnerRepository
	partners map[string]*entity.Partner
}

func (f *fakePartnerRepo) GetByID(_ context.Context, id string) (*entity.Partner, error) {
	return f.partners[id], nil
}

type fakeBankRepo struct {
	accounts map[string]*entity.BankAccount
}

func (f *fakeBankRepo) GetByID(_ context.Context, id string) (*entity.BankAccount, error) {
	return f.accounts[id], nil
}

type fakeInvoiceRepo struct {
	repository.InvoiceRepository
	lines       []*entity.OpenLine
	lastFilter  repository.OpenLineFilter
	stateByID   map[string]string
	failOnState bool
}

func (f *fakeInvoiceRepo) FetchOpenLines(_ context.Context, filter repository.OpenLineFilter) ([]*entity.OpenLine, error) {
	f.lastFilter = filter
	var out []*entity.OpenLine
	for _, l := range f.lines {
		if len(filter.InvoiceIDs) > 0 && !contains(filter.InvoiceIDs, l.InvoiceID) {
			continue
		}
		if len(filter.InvoiceIDs) == 0 && l.CommercialPartnerID != filter.PartnerID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// MarkInPayment como el UPDATE condicional: nada cambia si alguna factura ya tiene pago en curso.
func (f *fakeInvoiceRepo) MarkInPayment(_ context.Context, ids []string) error {
	if f.failOnState {
		return errors.New("fallo al actualizar")
	}
	if f.stateByID == nil {
		f.stateByID = map[string]string{}
	}
	for _, id := range ids {
		if st := f.stateByID[id]; st == entity.PaymentStateInPay || st == "paid" {
			return fmt.Errorf("%w: factura %s", domain.ErrConflict, id)
		}
	}
	for _, id := range ids {
		f.stateByID[id] = entity.PaymentStateInPay
	}
	return nil
}

type fakeCurrencyRepo struct{}

func (fakeCurrencyRepo) GetCurrency(_ context.Context, code string) (*entity.Currency, error) {
	return &entity.Currency{Code: code, DecimalPlaces: 2}, nil
}

func (fakeCurrencyRepo) GetRate(_ context.Context, _, _ string, _ time.Time) (*entity.CurrencyRate, error) {
	return nil, nil
}

type fakePaymentRepo struct {
	repository.PaymentRepository
	created  []*entity.Payment
	stored   map[string]*entity.Payment
	exported []string

	lastLimit, lastOffset int
}

func (f *fakePaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	f.created = append(f.created, p)
	return nil
}

func (f *fakePaymentRepo) ListByIDs(_ context.Context, companyID string, ids []string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, id := range ids {
		if p, ok := f.stored[id]; ok && p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ListByCompany(_ context.Context, companyID, state string, limit, offset int) ([]*entity.Payment, int, error) {
	var all []*entity.Payment
	for _, p := range f.stored {
		if p.CompanyID == companyID && (state == "" || p.State == state) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	f.lastLimit, f.lastOffset = limit, offset
	if offset >= len(all) {
		return nil, len(all), nil
	}
	return all[offset:min(offset+limit, len(all))], len(all), nil
}

// MarkExported como el UPDATE condicional: si alguno ya está exportado no cambia ninguno.
func (f *fakePaymentRepo) MarkExported(_ context.Context, ids []string) error {
	for _, id := range ids {
		if p, ok := f.stored[id]; ok && p.State == entity.PaymentStateExported {
			return fmt.Errorf("%w: pago %s", domain.ErrConflict, id)
		}
	}
	for _, id := range ids {
		if p, ok := f.stored[id]; ok {
			p.State = entity.PaymentStateExported
		}
	}
	f.exported = append(f.exported, ids...)
	return nil
}

// fakeTxRunner simula commit/rollback: solo publica lo creado o exportado si fn no falla.
type fakeTxRunner struct {
	invoiceRepo *fakeInvoiceRepo
	paymentRepo *fakePaymentRepo
	committed   []*entity.Payment
}

func (r *fakeTxRunner) RunPayments(ctx context.Context, fn func(repository.PaymentRepository, repository.InvoiceRepository) error) error {
	tx := &fakePaymentRepo{}
	if r.paymentRepo != nil {
		tx.stored = r.paymentRepo.stored
	}
	if err := fn(tx, r.invoiceRepo); err != nil {
		return err
	}
	r.committed = append(r.committed, tx.created...)
	if r.paymentRepo != nil {
		r.paymentRepo.exported = append(r.paymentRepo.exported, tx.exported...)
	}
	return nil
}

type fakeBuilder struct {
	order   payment.CreditTransferOrder
	err     error
	onBuild func()
}

func (b *fakeBuilder) Build(order payment.CreditTransferOrder) ([]byte, string, error) {
	b.order = order
	if b.onBuild != nil {
		b.onBuild()
	}
	if b.err != nil {
		return nil, "", b.err
	}
	return []byte("<Document/>"), "abc123", nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
