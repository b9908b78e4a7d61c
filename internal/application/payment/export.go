package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/l10n-ch-billing/internal/application/dto"
	"github.com/jhoicas/l10n-ch-billing/internal/domain"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/repository"
	"github.com/jhoicas/l10n-ch-billing/pkg/logger"
)

// DebtorConfig cuenta ordenante por defecto cuando el diario no tiene cuenta bancaria.
type DebtorConfig struct {
	Name string // vacío = nombre de la empresa
	IBAN string
	BIC  string
}

// ExportPaymentsUseCase genera la orden de transferencia (pain.001) de pagos salientes.
type ExportPaymentsUseCase struct {
	txRunner    PaymentTxRunner
	paymentRepo repository.PaymentRepository
	companyRepo repository.CompanyRepository
	journalRepo repository.JournalRepository
	partnerRepo repository.PartnerRepository
	bankRepo    repository.BankAccountRepository
	builder     CreditTransferBuilder
	debtor      DebtorConfig
	log         *logger.Logger
	now         func() time.Time
}

// NewExportPaymentsUseCase construye el caso de uso.
func NewExportPaymentsUseCase(
	txRunner PaymentTxRunner,
	paymentRepo repository.PaymentRepository,
	companyRepo repository.CompanyRepository,
	journalRepo repository.JournalRepository,
	partnerRepo repository.PartnerRepository,
	bankRepo repository.BankAccountRepository,
	builder CreditTransferBuilder,
	debtor DebtorConfig,
	log *logger.Logger,
) *ExportPaymentsUseCase {
	return &ExportPaymentsUseCase{
		txRunner:    txRunner,
		paymentRepo: paymentRepo,
		companyRepo: companyRepo,
		journalRepo: journalRepo,
		partnerRepo: partnerRepo,
		bankRepo:    bankRepo,
		builder:     builder,
		debtor:      debtor,
		log:         log,
		now:         time.Now,
	}
}

// ExportPayments arma un único mensaje con los pagos salientes indicados y los marca como exportados.
// Los pagos entrantes se ignoran; si no queda ninguno devuelve domain.ErrInvalidInput.
// Cada pago se debita de la cuenta de su diario. Si otra exportación marcó alguno de los pagos
// mientras se generaba el mensaje, devuelve domain.ErrConflict y no marca ninguno.
func (uc *ExportPaymentsUseCase) ExportPayments(ctx context.Context, companyID string, paymentIDs []string) (*dto.ExportPaymentsResponse, error) {
	if len(paymentIDs) == 0 {
		return nil, fmt.Errorf("%w: payment_ids es requerido", domain.ErrInvalidInput)
	}
	payments, err := uc.paymentRepo.ListByIDs(ctx, companyID, paymentIDs)
	if err != nil {
		return nil, fmt.Errorf("exportar: obtener pagos: %w", err)
	}
	if len(payments) != len(uniq(paymentIDs)) {
		return nil, domain.ErrNotFound
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("exportar: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	var (
		transfers []Transfer
		exported  []string
		debtors   = map[string]*Party{} // por diario
	)
	for _, p := range payments {
		if p.PaymentType != entity.PaymentTypeOutbound {
			continue
		}
		if p.State == entity.PaymentStateExported {
			return nil, fmt.Errorf("%w: el pago %s ya fue exportado", domain.ErrConflict, p.ID)
		}
		debtor, ok := debtors[p.JournalID]
		if !ok {
			d, err := uc.debtorParty(ctx, company, p.JournalID)
			if err != nil {
				return nil, err
			}
			debtors[p.JournalID] = d
			debtor = d
		}
		t, err := uc.transfer(ctx, p)
		if err != nil {
			return nil, err
		}
		t.Debtor = *debtor
		transfers = append(transfers, t)
		exported = append(exported, p.ID)
	}
	if len(transfers) == 0 {
		return nil, fmt.Errorf("%w: no hay pagos salientes para exportar", domain.ErrInvalidInput)
	}

	order := CreditTransferOrder{
		MessageID:       messageID(),
		CreatedAt:       uc.now(),
		InitiatingParty: transfers[0].Debtor.Name,
		Transfers:       transfers,
	}
	xml, digest, err := uc.builder.Build(order)
	if err != nil {
		return nil, fmt.Errorf("exportar: generar pain.001: %w", err)
	}
	err = uc.txRunner.RunPayments(ctx, func(paymentRepo repository.PaymentRepository, _ repository.InvoiceRepository) error {
		return paymentRepo.MarkExported(ctx, exported)
	})
	if err != nil {
		return nil, fmt.Errorf("exportar: marcar pagos: %w", err)
	}

	uc.log.Info().
		Str("company_id", companyID).
		Str("message_id", order.MessageID).
		Int("payments", len(exported)).
		Msg("orden de transferencia generada")

	return &dto.ExportPaymentsResponse{
		MessageID: order.MessageID,
		Digest:    digest,
		Payments:  len(exported),
		XML:       string(xml),
	}, nil
}

// ListPayments página de pagos de la empresa para elegir los que se exportan.
// state filtra por estado (posted, exported); vacío lista todos.
func (uc *ExportPaymentsUseCase) ListPayments(ctx context.Context, companyID, state string, page dto.PageRequest) (*dto.PaymentListResponse, error) {
	switch state {
	case "", entity.PaymentStateDraft, entity.PaymentStatePosted, entity.PaymentStateExported:
	default:
		return nil, fmt.Errorf("%w: estado de pago %q", domain.ErrInvalidInput, state)
	}
	page = page.Normalize()
	list, total, err := uc.paymentRepo.ListByCompany(ctx, companyID, state, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("pagos: listar: %w", err)
	}
	items := make([]dto.PaymentSummary, 0, len(list))
	for _, p := range list {
		items = append(items, dto.PaymentSummary{
			ID:            p.ID,
			JournalID:     p.JournalID,
			PaymentDate:   p.PaymentDate.Format(dateLayout),
			PaymentType:   p.PaymentType,
			PartnerID:     p.PartnerID,
			Amount:        p.Amount,
			Currency:      p.CurrencyCode,
			Communication: p.Communication,
			InvoiceIDs:    p.InvoiceIDs,
			State:         p.State,
		})
	}
	return &dto.PaymentListResponse{Items: items, Page: page.Response(total)}, nil
}

func (uc *ExportPaymentsUseCase) debtorParty(ctx context.Context, company *entity.Company, journalID string) (*Party, error) {
	name := uc.debtor.Name
	if name == "" {
		name = company.Name
	}
	party := &Party{Name: name, Country: company.CountryCode, IBAN: uc.debtor.IBAN, BIC: uc.debtor.BIC}
	journal, err := uc.journalRepo.GetByID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("exportar: obtener diario: %w", err)
	}
	if journal != nil && journal.BankAccountID != "" {
		acc, err := uc.bankRepo.GetByID(ctx, journal.BankAccountID)
		if err != nil {
			return nil, fmt.Errorf("exportar: obtener cuenta del diario: %w", err)
		}
		if acc != nil {
			party.IBAN, party.BIC = acc.AccountNumber, acc.BIC
		}
	}
	if party.IBAN == "" {
		return nil, fmt.Errorf("%w: el diario no tiene cuenta bancaria ordenante", domain.ErrInvalidInput)
	}
	return party, nil
}

func (uc *ExportPaymentsUseCase) transfer(ctx context.Context, p *entity.Payment) (Transfer, error) {
	if p.PartnerBankID == "" {
		return Transfer{}, fmt.Errorf("%w: el pago %s no tiene cuenta del beneficiario", domain.ErrInvalidInput, p.ID)
	}
	acc, err := uc.bankRepo.GetByID(ctx, p.PartnerBankID)
	if err != nil {
		return Transfer{}, fmt.Errorf("exportar: obtener cuenta del beneficiario: %w", err)
	}
	if acc == nil {
		return Transfer{}, fmt.Errorf("%w: cuenta %s", domain.ErrNotFound, p.PartnerBankID)
	}
	partner, err := uc.partnerRepo.GetByID(ctx, p.PartnerID)
	if err != nil {
		return Transfer{}, fmt.Errorf("exportar: obtener beneficiario: %w", err)
	}
	if partner == nil {
		return Transfer{}, fmt.Errorf("%w: partner %s", domain.ErrNotFound, p.PartnerID)
	}
	return Transfer{
		EndToEndID:    endToEndID(p.ID),
		ExecutionDate: p.PaymentDate,
		Amount:        p.Amount,
		Currency:      p.CurrencyCode,
		Creditor: Party{
			Name:    partner.Name,
			IBAN:    acc.AccountNumber,
			BIC:     acc.BIC,
			Country: partner.CountryCode,
		},
		Communication: p.Communication,
	}, nil
}

// maxIDLen largo máximo de MsgId y EndToEndId en pain.001.
const maxIDLen = 35

// messageID identificador del mensaje.
func messageID() string {
	id := uuid.New().String()
	return "MSG-" + id[:8] + id[9:13] + id[14:18]
}

// endToEndID referencia de la transferencia a partir del ID del pago: el UUID sin guiones
// cabe en los 35 caracteres de pain.001.
func endToEndID(paymentID string) string {
	id := strings.ReplaceAll(paymentID, "-", "")
	if len(id) > maxIDLen {
		id = id[:maxIDLen]
	}
	return id
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
