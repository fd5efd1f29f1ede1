package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sigepy/erp-api/internal/application/analytics"
	"github.com/sigepy/erp-api/internal/application/auth"
	"github.com/sigepy/erp-api/internal/application/billing"
	"github.com/sigepy/erp-api/internal/application/catalog"
	"github.com/sigepy/erp-api/internal/application/company"
	"github.com/sigepy/erp-api/internal/application/crm"
	"github.com/sigepy/erp-api/internal/application/deposits"
	"github.com/sigepy/erp-api/internal/application/sales"
	"github.com/sigepy/erp-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CustomerUC  *crm.CustomerUseCase
	TourismUC   *crm.TourismUseCase
	ProductUC   *catalog.ProductUseCase
	QuoteUC     *sales.QuoteUseCase
	OrderUC     *sales.OrderUseCase
	InvoiceUC   *billing.InvoiceUseCase
	InvoicePDF  *billing.PDFUseCase
	DepositUC   *deposits.DepositUseCase
	CompanyUC   *company.CompanyUseCase
	DashboardUC *analytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Customers + régimen de turismo + contactos
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.TourismUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Put("/contacts/:contactId", customerHandler.UpdateContact)
	customers.Delete("/contacts/:contactId", customerHandler.DeleteContact)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Deactivate)
	customers.Post("/:id/activate", customerHandler.Activate)
	customers.Post("/:id/contacts", customerHandler.AddContact)
	customers.Get("/:id/contacts", customerHandler.ListContacts)
	customers.Post("/:id/tourism-pdf", customerHandler.UploadTourismPDF)
	customers.Get("/:id/tourism-pdf", customerHandler.DownloadTourismPDF)
	customers.Delete("/:id/tourism-pdf", customerHandler.DeleteTourismPDF)

	// Catálogo: categorías y productos
	productHandler := NewProductHandler(deps.ProductUC)
	categories := protected.Group("/categories")
	categories.Post("/", productHandler.CreateCategory)
	categories.Get("/", productHandler.ListCategories)
	categories.Put("/:id", productHandler.UpdateCategory)

	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/expiring", productHandler.ListExpiring)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Post("/:id/adjust-stock", productHandler.AdjustStock)
	products.Get("/:id/movements", productHandler.ListMovements)
	protected.Get("/stock-movements", productHandler.ListAllMovements)

	// Cotizaciones
	quotes := protected.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.QuoteUC)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/", quoteHandler.List)
	quotes.Get("/:id", quoteHandler.GetByID)
	quotes.Put("/:id", quoteHandler.Update)
	quotes.Delete("/:id", quoteHandler.Delete)
	quotes.Patch("/:id/status", quoteHandler.UpdateStatus)
	quotes.Get("/:id/pdf", quoteHandler.DownloadPDF)

	// Órdenes de venta
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Post("/from-quote/:quoteId", orderHandler.CreateFromQuote)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Patch("/:id/status", orderHandler.UpdateStatus)

	// Facturación
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/summary", invoiceHandler.Summary)
	invoices.Post("/update-overdue", invoiceHandler.UpdateOverdue)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/payments", invoiceHandler.AddPayment)
	invoices.Get("/:id/payments", invoiceHandler.ListPayments)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Libro de depósitos (solo admin y cajero)
	depositsGroup := protected.Group("/deposits", RequireRole(entity.RoleAdmin, entity.RoleCajero))
	depositHandler := NewDepositHandler(deps.DepositUC)
	depositsGroup.Post("/", depositHandler.Create)
	depositsGroup.Get("/", depositHandler.List)
	depositsGroup.Get("/customer/:customerId/summary", depositHandler.CustomerSummary)
	depositsGroup.Get("/:id", depositHandler.GetByID)
	depositsGroup.Post("/:id/apply", depositHandler.ApplyToInvoice)
	depositsGroup.Post("/:id/refund", depositHandler.Refund)
	depositsGroup.Get("/:id/applications", depositHandler.ListApplications)

	// Configuración de la empresa (escritura solo admin)
	companyGroup := protected.Group("/company")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companyGroup.Get("/", companyHandler.Get)
	companyGroup.Put("/", RequireRole(entity.RoleAdmin), companyHandler.Save)
	companyGroup.Post("/", RequireRole(entity.RoleAdmin), companyHandler.Save)
	companyGroup.Get("/numbering/invoices/next", companyHandler.NextInvoiceNumber)
	companyGroup.Get("/numbering/quotes/next", companyHandler.NextQuoteNumber)
	companyGroup.Post("/numbering/invoices/reset", RequireRole(entity.RoleAdmin), companyHandler.ResetInvoiceNumbering)
	companyGroup.Post("/numbering/quotes/reset", RequireRole(entity.RoleAdmin), companyHandler.ResetQuoteNumbering)

	// Dashboard y notificaciones
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.TourismUC, deps.ProductUC)
	protected.Get("/dashboard/stats", dashboardHandler.Summary)
	protected.Get("/notifications", dashboardHandler.Notifications)
	protected.Get("/notifications/customers-expiring-tourism", customerHandler.ListExpiringTourism)
}
