package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    authService
	UserUC    userService
	CompanyUC companyService
	ModuleSvc interface {
		moduleService
		moduleChecker
	}
	Payments  paymentRegistrar
	Export    paymentExporter
	Reports   reportRenderer
	Mail      mailService
	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público: alta inicial antes de tener usuarios)
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.ModuleSvc)
	companies := api.Group("/companies")
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/users", RequireRole(entity.RoleAdmin), authHandler.Users)

	company := protected.Group("/company")
	company.Get("/modules", companyHandler.ListModules)
	company.Put("/modules/:module", RequireRole(entity.RoleAdmin), companyHandler.SetModule)

	// Pagos agrupados por referencia QR/ISR
	paymentHandler := NewPaymentHandler(deps.Payments, deps.Export)
	payments := protected.Group("/payments", RequireModule(entity.ModuleISRPaymentGrouping, deps.ModuleSvc, log))
	payments.Get("/", paymentHandler.List)
	payments.Post("/preview", paymentHandler.Preview)
	payments.Post("/", RequireRole(entity.RoleAdmin, entity.RoleAccountant), paymentHandler.Register)
	payments.Post("/export", RequireRole(entity.RoleAdmin, entity.RoleAccountant), paymentHandler.Export)

	// Reportes PDF y correo
	reportHandler := NewReportHandler(deps.Reports)
	reports := protected.Group("/reports", RequireModule(entity.ModuleInvoiceReports, deps.ModuleSvc, log))
	reports.Post("/render", reportHandler.Render)

	mailHandler := NewMailHandler(deps.Mail)
	mail := protected.Group("/mail", RequireModule(entity.ModuleInvoiceReports, deps.ModuleSvc, log))
	mail.Post("/generate", mailHandler.Generate)
	mail.Post("/send", RequireRole(entity.RoleAdmin, entity.RoleAccountant), mailHandler.Send)
}
