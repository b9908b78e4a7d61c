package repository

import (
	"context"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
)

// PartnerRepository puerto de lectura de contactos.
type PartnerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Partner, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Partner, error)
}

// BankAccountRepository puerto de lectura de cuentas bancarias (IBAN/QR-IBAN).
type BankAccountRepository interface {
	GetByID(ctx context.Context, id string) (*entity.BankAccount, error)
}

// JournalRepository puerto de lectura de diarios de banco/caja.
type JournalRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Journal, error)
}
