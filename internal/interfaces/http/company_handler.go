package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/l10n-ch-billing/internal/application/dto"
)

type companyService interface {
	Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error)
	List(ctx context.Context, limit, offset int) (*dto.CompanyListResponse, error)
}

type moduleService interface {
	SetModule(ctx context.Context, companyID, moduleName string, in dto.SetModuleRequest) (*dto.ModuleResponse, error)
	ListModules(ctx context.Context, companyID string) ([]dto.ModuleResponse, error)
}

// CompanyHandler maneja empresas y la activación de módulos de localización.
type CompanyHandler struct {
	uc      companyService
	modules moduleService
}

// NewCompanyHandler construye el handler inyectando los casos de uso.
func NewCompanyHandler(uc companyService, modules moduleService) *CompanyHandler {
	return &CompanyHandler{uc: uc, modules: modules}
}

// Create godoc
// @Summary      Crear empresa
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         companies
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empresa no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar empresas
// @Tags         companies
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.CompanyListResponse
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	out, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListModules godoc
// @Summary      Módulos de localización de mi empresa
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.ModuleResponse
// @Router       /api/company/modules [get]
func (h *CompanyHandler) ListModules(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.modules.ListModules(c.Context(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetModule godoc
// @Summary      Activar o desactivar un módulo de localización
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        module  path  string                true  "isr_payment_grouping | invoice_reports | followup_report_qr"
// @Param        body    body  dto.SetModuleRequest  true  "active, expires_at"
// @Success      200     {object}  dto.ModuleResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/company/modules/{module} [put]
func (h *CompanyHandler) SetModule(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.SetModuleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.modules.SetModule(c.Context(), companyID, c.Params("module"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
