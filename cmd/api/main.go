package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/l10n-ch-billing/docs"
	"github.com/jhoicas/l10n-ch-billing/internal/application/auth"
	"github.com/jhoicas/l10n-ch-billing/internal/application/mailing"
	"github.com/jhoicas/l10n-ch-billing/internal/application/payment"
	"github.com/jhoicas/l10n-ch-billing/internal/application/report"
	"github.com/jhoicas/l10n-ch-billing/internal/application/usecase"
	"github.com/jhoicas/l10n-ch-billing/internal/infrastructure/iso20022"
	inframail "github.com/jhoicas/l10n-ch-billing/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/l10n-ch-billing/internal/infrastructure/pdf"
	"github.com/jhoicas/l10n-ch-billing/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/l10n-ch-billing/internal/interfaces/http"
	"github.com/jhoicas/l10n-ch-billing/pkg/config"
	"github.com/jhoicas/l10n-ch-billing/pkg/logger"
)

// @title                      l10n-ch-billing API
// @version                    1.0
// @description                Localización suiza: pagos agrupados por referencia QR/ISR, QR-facturas y exportación pain.001.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Repositorios
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	partnerRepo := postgres.NewPartnerRepository(pool)
	bankRepo := postgres.NewBankAccountRepository(pool)
	journalRepo := postgres.NewJournalRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	currencyRepo := postgres.NewCurrencyRepository(pool)
	templateRepo := postgres.NewMailTemplateRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	moduleSvc := usecase.NewModuleService(companyRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Pagos: agrupación por referencia y exportación ISO 20022
	registerUC := payment.NewRegisterPaymentsUseCase(
		txRunner, companyRepo, journalRepo, invoiceRepo, currencyRepo,
		payment.Config{
			DefaultGrouping: cfg.Payment.DefaultGrouping,
			DefaultMethod:   cfg.Payment.DefaultMethod,
		},
		log.WithField("component", "payment"),
	)
	exportUC := payment.NewExportPaymentsUseCase(
		txRunner, paymentRepo, companyRepo, journalRepo, partnerRepo, bankRepo,
		iso20022.NewPain001Builder(),
		payment.DebtorConfig{
			Name: cfg.Bank.DebtorName,
			IBAN: cfg.Bank.DebtorIBAN,
			BIC:  cfg.Bank.DebtorBIC,
		},
		log.WithField("component", "export"),
	)

	// Reportes PDF (maroto + pdfcpu)
	reportSvc := report.NewService(
		invoiceRepo, partnerRepo, companyRepo, bankRepo, moduleSvc,
		infrapdf.NewMarotoPDFGenerator(cfg.Report.LogoPath),
		infrapdf.NewPdfcpuMerger(),
		log.WithField("component", "report"),
	)
	reportSvc.SetFollowupQR(cfg.Report.FollowupQR)

	// Correo: SMTP si está configurado; si no, solo se registra en el log
	var sender mailing.MailSender = inframail.NewLogSender(log)
	if cfg.SMTP.Enabled() {
		sender = inframail.NewSMTPSender(cfg.SMTP)
	} else {
		log.Warn().Msg("SMTP_HOST vacío: los correos no se envían, solo se registran")
	}
	mailSvc := mailing.NewService(templateRepo, invoiceRepo, partnerRepo, companyRepo, reportSvc, sender, log.WithField("component", "mail"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 * 1024 * 1024,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "l10n-ch-billing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		UserUC:    userUC,
		CompanyUC: companyUC,
		ModuleSvc: moduleSvc,
		Payments:  registerUC,
		Export:    exportUC,
		Reports:   reportSvc,
		Mail:      mailSvc,
		JWTSecret: cfg.JWT.Secret,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
