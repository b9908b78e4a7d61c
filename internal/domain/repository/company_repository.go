package repository

import (
	"context"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)

	// HasActiveModule informa si la empresa tiene el módulo activo y no vencido.
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
	// UpsertModule activa o desactiva un módulo (una fila por empresa y módulo).
	UpsertModule(ctx context.Context, module *entity.CompanyModule) error
	ListModules(ctx context.Context, companyID string) ([]*entity.CompanyModule, error)
}
