// Package payment registra pagos agrupados de facturas y exporta las órdenes al banco.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/l10n-ch-billing/internal/application/currency"
	"github.com/jhoicas/l10n-ch-billing/internal/application/dto"
	"github.com/jhoicas/l10n-ch-billing/internal/domain"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	dompay "github.com/jhoicas/l10n-ch-billing/internal/domain/payment"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/repository"
	"github.com/jhoicas/l10n-ch-billing/pkg/logger"
)

const dateLayout = "2006-01-02"

// Config valores por defecto del registro de pagos.
type Config struct {
	DefaultGrouping bool
	DefaultMethod   string
}

// RegisterPaymentsUseCase agrupa las partidas abiertas seleccionadas en pagos y los registra.
type RegisterPaymentsUseCase struct {
	txRunner     PaymentTxRunner
	companyRepo  repository.CompanyRepository
	journalRepo  repository.JournalRepository
	invoiceRepo  repository.InvoiceRepository
	currencyRepo repository.CurrencyRepository
	cfg          Config
	log          *logger.Logger
	now          func() time.Time
}

// NewRegisterPaymentsUseCase construye el caso de uso.
func NewRegisterPaymentsUseCase(
	txRunner PaymentTxRunner,
	companyRepo repository.CompanyRepository,
	journalRepo repository.JournalRepository,
	invoiceRepo repository.InvoiceRepository,
	currencyRepo repository.CurrencyRepository,
	cfg Config,
	log *logger.Logger,
) *RegisterPaymentsUseCase {
	if cfg.DefaultMethod == "" {
		cfg.DefaultMethod = "manual"
	}
	return &RegisterPaymentsUseCase{
		txRunner:     txRunner,
		companyRepo:  companyRepo,
		journalRepo:  journalRepo,
		invoiceRepo:  invoiceRepo,
		currencyRepo: currencyRepo,
		cfg:          cfg,
		log:          log,
		now:          time.Now,
	}
}

// PreviewPayments calcula los pagos que se registrarían, sin persistir nada.
//
// Retorna:
//   - domain.ErrInvalidInput  si la selección o el diario faltan, o la fecha es inválida.
//   - domain.ErrNotFound      si el diario o la empresa no existen.
//   - domain.ErrForbidden     si el diario es de otra empresa.
//   - domain.ErrNothingToPay  si la selección no tiene partidas abiertas.
func (uc *RegisterPaymentsUseCase) PreviewPayments(ctx context.Context, companyID string, in dto.RegisterPaymentsRequest) ([]dto.PaymentValues, error) {
	values, _, err := uc.preview(ctx, companyID, in)
	return values, err
}

// preview devuelve además la fecha de pago ya resuelta.
func (uc *RegisterPaymentsUseCase) preview(ctx context.Context, companyID string, in dto.RegisterPaymentsRequest) ([]dto.PaymentValues, time.Time, error) {
	// ── 1. Validar entrada y diario ───────────────────────────────────────────
	if len(in.InvoiceIDs) == 0 && in.PartnerID == "" {
		return nil, time.Time{}, fmt.Errorf("%w: invoice_ids o partner_id son requeridos", domain.ErrInvalidInput)
	}
	if in.JournalID == "" {
		return nil, time.Time{}, fmt.Errorf("%w: journal_id es requerido", domain.ErrInvalidInput)
	}
	paymentDate, err := uc.paymentDate(in.PaymentDate)
	if err != nil {
		return nil, time.Time{}, err
	}
	journal, err := uc.journalRepo.GetByID(ctx, in.JournalID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("pagos: obtener diario: %w", err)
	}
	if journal == nil {
		return nil, time.Time{}, domain.ErrNotFound
	}
	if journal.CompanyID != companyID {
		return nil, time.Time{}, domain.ErrForbidden
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("pagos: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, time.Time{}, domain.ErrNotFound
	}

	// ── 2. Partidas abiertas y lotes ──────────────────────────────────────────
	openLines, err := uc.invoiceRepo.FetchOpenLines(ctx, repository.OpenLineFilter{
		CompanyID:  companyID,
		InvoiceIDs: in.InvoiceIDs,
		PartnerID:  in.PartnerID,
	})
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("pagos: obtener partidas abiertas: %w", err)
	}
	if len(openLines) == 0 {
		return nil, time.Time{}, domain.ErrNothingToPay
	}
	grouping := uc.cfg.DefaultGrouping
	if in.GroupPayment != nil {
		grouping = *in.GroupPayment
	}
	batches, err := dompay.GroupInvoices(dompay.FromOpenLines(openLines), grouping)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	// ── 3. Valores de cada pago ───────────────────────────────────────────────
	method := in.PaymentMethod
	if method == "" {
		method = uc.cfg.DefaultMethod
	}
	ac := dompay.AmountContext{
		BaseCurrency:    company.CurrencyCode,
		JournalCurrency: journal.CurrencyCode,
		Date:            paymentDate,
		Converter:       currency.NewConverter(uc.currencyRepo, company),
	}
	out := make([]dto.PaymentValues, 0, len(batches))
	for _, b := range batches {
		first, _ := b.First()
		settlement := dompay.SettlementCurrency(b, in.Currency, ac)
		amount, direction, err := dompay.ComputeNetAmount(ctx, b, settlement, ac)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("pagos: importe del lote %s: %w", first.Name, err)
		}
		partnerType, err := dompay.PartnerTypeOf(first.Type)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		out = append(out, dto.PaymentValues{
			JournalID:            journal.ID,
			PaymentMethod:        method,
			PaymentDate:          paymentDate.Format(dateLayout),
			Communication:        dompay.ComputeCommunication(b),
			InvoiceIDs:           b.DocumentIDs(),
			PaymentType:          string(direction),
			Amount:               amount,
			Currency:             settlement,
			PartnerID:            first.CommercialPartnerID,
			PartnerType:          partnerType,
			PartnerBankAccountID: first.BankAccountID,
		})
	}

	uc.log.Debug().
		Str("company_id", companyID).
		Int("lines", len(openLines)).
		Int("batches", len(batches)).
		Bool("grouping", grouping).
		Msg("lotes de pago calculados")
	return out, paymentDate, nil
}

// RegisterPayments persiste los pagos de PreviewPayments en una sola transacción y marca las
// facturas como in_payment. Si un pago falla no se registra ninguno.
//
// Las partidas se leen fuera de la transacción; si otra registración toma alguna de las facturas
// antes del commit, MarkInPayment falla y se devuelve domain.ErrConflict sin registrar nada.
func (uc *RegisterPaymentsUseCase) RegisterPayments(ctx context.Context, companyID, userID string, in dto.RegisterPaymentsRequest) ([]dto.PaymentResponse, error) {
	values, date, err := uc.preview(ctx, companyID, in)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	payments := make([]*entity.Payment, 0, len(values))
	for _, v := range values {
		payments = append(payments, &entity.Payment{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			JournalID:     v.JournalID,
			PaymentMethod: v.PaymentMethod,
			PaymentDate:   date,
			Communication: v.Communication,
			PaymentType:   v.PaymentType,
			PartnerType:   v.PartnerType,
			Amount:        v.Amount,
			CurrencyCode:  v.Currency,
			PartnerID:     v.PartnerID,
			PartnerBankID: v.PartnerBankAccountID,
			InvoiceIDs:    v.InvoiceIDs,
			State:         entity.PaymentStatePosted,
			CreatedBy:     userID,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	err = uc.txRunner.RunPayments(ctx, func(paymentRepo repository.PaymentRepository, invoiceRepo repository.InvoiceRepository) error {
		for _, p := range payments {
			if err := paymentRepo.Create(ctx, p); err != nil {
				return fmt.Errorf("pagos: registrar pago: %w", err)
			}
			if err := invoiceRepo.MarkInPayment(ctx, p.InvoiceIDs); err != nil {
				return fmt.Errorf("pagos: actualizar facturas: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("company_id", companyID).
		Str("user_id", userID).
		Int("payments", len(payments)).
		Msg("pagos registrados")

	out := make([]dto.PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = dto.PaymentResponse{
			ID:        p.ID,
			CompanyID: p.CompanyID,
			State:     p.State,
			CreatedAt: p.CreatedAt,
			Values:    values[i],
		}
	}
	return out, nil
}

func (uc *RegisterPaymentsUseCase) paymentDate(s string) (time.Time, error) {
	if s == "" {
		y, m, d := uc.now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: payment_date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return t, nil
}
