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

	_ "github.com/sigepy/erp-api/docs"
	appanalytics "github.com/sigepy/erp-api/internal/application/analytics"
	"github.com/sigepy/erp-api/internal/application/auth"
	"github.com/sigepy/erp-api/internal/application/billing"
	"github.com/sigepy/erp-api/internal/application/catalog"
	"github.com/sigepy/erp-api/internal/application/company"
	"github.com/sigepy/erp-api/internal/application/crm"
	"github.com/sigepy/erp-api/internal/application/deposits"
	"github.com/sigepy/erp-api/internal/application/sales"
	infrapdf "github.com/sigepy/erp-api/internal/infrastructure/pdf"
	"github.com/sigepy/erp-api/internal/infrastructure/postgres"
	"github.com/sigepy/erp-api/internal/infrastructure/storage"
	httpRouter "github.com/sigepy/erp-api/internal/interfaces/http"
	"github.com/sigepy/erp-api/pkg/config"
	"github.com/sigepy/erp-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	orderRepo := postgres.NewSalesOrderRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	depositRepo := postgres.NewDepositRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	fileStore, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de archivos")
	}
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	customerUC := crm.NewCustomerUseCase(customerRepo)
	tourismUC := crm.NewTourismUseCase(customerRepo, fileStore, log)
	productUC := catalog.NewProductUseCase(productRepo, txRunner)
	quoteUC := sales.NewQuoteUseCase(quoteRepo, customerRepo, productRepo, companyRepo, pdfGenerator)
	orderUC := sales.NewOrderUseCase(orderRepo, quoteRepo, customerRepo, productRepo)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, customerRepo, productRepo, companyRepo, log)
	invoicePDFUC := billing.NewPDFUseCase(invoiceRepo, companyRepo, customerRepo, productRepo, pdfGenerator)
	depositUC := deposits.NewDepositUseCase(txRunner, depositRepo, invoiceRepo, customerRepo, log)
	companyUC := company.NewCompanyUseCase(companyRepo, log)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo)

	// Trabajos diarios: morosidad de facturas, vencimiento de cotizaciones y
	// depósitos, avisos del régimen de turismo.
	go runDailyJobs(log, invoiceUC, quoteUC, depositUC, tourismUC)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    crm.MaxTourismPDFSize + 1<<20, // PDF del régimen + margen para el multipart
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ERP PY API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CustomerUC:  customerUC,
		TourismUC:   tourismUC,
		ProductUC:   productUC,
		QuoteUC:     quoteUC,
		OrderUC:     orderUC,
		InvoiceUC:   invoiceUC,
		InvoicePDF:  invoicePDFUC,
		DepositUC:   depositUC,
		CompanyUC:   companyUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
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

// runDailyJobs corre los barridos de estado una vez al arrancar y luego cada
// 24 horas.
func runDailyJobs(
	log *logger.Logger,
	invoiceUC *billing.InvoiceUseCase,
	quoteUC *sales.QuoteUseCase,
	depositUC *deposits.DepositUseCase,
	tourismUC *crm.TourismUseCase,
) {
	run := func() {
		now := time.Now()
		if n, err := invoiceUC.MarkOverdue(now); err != nil {
			log.Error().Err(err).Msg("job: marcar facturas vencidas")
		} else if n > 0 {
			log.Info().Int("facturas", n).Msg("job: facturas marcadas OVERDUE")
		}
		if n, err := quoteUC.MarkExpired(now); err != nil {
			log.Error().Err(err).Msg("job: expirar cotizaciones")
		} else if n > 0 {
			log.Info().Int("cotizaciones", n).Msg("job: cotizaciones marcadas EXPIRED")
		}
		if n, err := depositUC.MarkExpired(now); err != nil {
			log.Error().Err(err).Msg("job: expirar depósitos")
		} else if n > 0 {
			log.Info().Int("depositos", n).Msg("job: depósitos marcados EXPIRED")
		}
		if _, err := tourismUC.ProcessExpiryNotifications(now); err != nil {
			log.Error().Err(err).Msg("job: avisos del régimen de turismo")
		}
	}

	run()
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		run()
	}
}
