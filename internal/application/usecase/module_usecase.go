package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/l10n-ch-billing/internal/application/dto"
	"github.com/jhoicas/l10n-ch-billing/internal/domain"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/repository"
)

// knownModules módulos de localización que se pueden activar.
var knownModules = map[string]bool{
	entity.ModuleISRPaymentGrouping: true,
	entity.ModuleInvoiceReports:     true,
	entity.ModuleFollowupReportQR:   true,
}

// ModuleService verifica qué módulos de localización tiene activos una empresa.
// Es el único punto de la aplicación que conoce la lógica de activación de módulos.
type ModuleService struct {
	companyRepo repository.CompanyRepository
	now         func() time.Time
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(companyRepo repository.CompanyRepository) *ModuleService {
	return &ModuleService{companyRepo: companyRepo, now: time.Now}
}

// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
// Devuelve false (sin error) si la empresa no tiene el módulo.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" || moduleName == "" {
		return false, fmt.Errorf("module: companyID y moduleName son obligatorios")
	}
	return s.companyRepo.HasActiveModule(ctx, companyID, moduleName)
}

// SetModule activa o desactiva un módulo de la empresa. expiresAt vacío = sin vencimiento.
func (s *ModuleService) SetModule(ctx context.Context, companyID, moduleName string, in dto.SetModuleRequest) (*dto.ModuleResponse, error) {
	if !knownModules[moduleName] {
		return nil, fmt.Errorf("%w: módulo desconocido %q", domain.ErrInvalidInput, moduleName)
	}
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	now := s.now()
	m := &entity.CompanyModule{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ModuleName:  moduleName,
		IsActive:    in.Active,
		ActivatedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.ExpiresAt != "" {
		exp, err := time.Parse("2006-01-02", in.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("%w: expires_at debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		m.ExpiresAt = &exp
	}
	if err := s.companyRepo.UpsertModule(ctx, m); err != nil {
		return nil, err
	}
	return toModuleResponse(m), nil
}

// ListModules lista los módulos registrados de la empresa.
func (s *ModuleService) ListModules(ctx context.Context, companyID string) ([]dto.ModuleResponse, error) {
	list, err := s.companyRepo.ListModules(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ModuleResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toModuleResponse(m))
	}
	return out, nil
}

func toModuleResponse(m *entity.CompanyModule) *dto.ModuleResponse {
	return &dto.ModuleResponse{
		ModuleName:  m.ModuleName,
		IsActive:    m.IsActive,
		ActivatedAt: m.ActivatedAt,
		ExpiresAt:   m.ExpiresAt,
	}
}
