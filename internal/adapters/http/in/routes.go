package in

import (
	"regexp"

	"github.com/LerianStudio/accounts-filing-api/internal/links"
	"github.com/LerianStudio/accounts-filing-api/pkg/circuitbreaker"
	"github.com/LerianStudio/accounts-filing-api/pkg/log"
	libHTTP "github.com/LerianStudio/accounts-filing-api/pkg/net/http"
	"github.com/gofiber/fiber/v2"
)

const ApplicationName = "accounts-filing-api"

const (
	ParamTransactionID    = "transaction_id"
	ParamAccountsFilingID = "accounts_filing_id"
	ParamCompanyNumber    = "company_number"
	ParamFileID           = "file_id"
)

var (
	transactionIDPattern = regexp.MustCompile(`^\d{6}-\d{6}-\d{6}$`)
	uuidPattern          = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	companyNumberPattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)
)

var (
	transactionRule   = libHTTP.ParamRule{Name: ParamTransactionID, Pattern: transactionIDPattern}
	entryRule         = libHTTP.ParamRule{Name: ParamAccountsFilingID, Pattern: uuidPattern}
	fileRule          = libHTTP.ParamRule{Name: ParamFileID, Pattern: uuidPattern}
	companyNumberRule = libHTTP.ParamRule{Name: ParamCompanyNumber, Pattern: companyNumberPattern}
)

// RouterOption adds middleware ahead of the routes.
type RouterOption func(app *fiber.App)

// WithMiddleware registers handlers on every route.
func WithMiddleware(handlers ...fiber.Handler) RouterOption {
	return func(app *fiber.App) {
		for _, h := range handlers {
			app.Use(h)
		}
	}
}

// WithDependencyHealth serves the breaker state of services under the healthcheck.
func WithDependencyHealth(breakers circuitbreaker.Manager, services ...string) RouterOption {
	return func(app *fiber.App) {
		app.Get("/accounts-filing/healthcheck/dependencies", libHTTP.DependencyHealth(breakers, services...))
	}
}

// NewRouter builds the fiber app serving h.
func NewRouter(logger log.Logger, h *FilingHandler, opts ...RouterOption) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          libHTTP.FiberErrorHandler,
	})

	app.Use(libHTTP.WithCORS())
	app.Use(libHTTP.WithHTTPLogging(libHTTP.WithCustomLogger(logger)))
	app.Use(libHTTP.WithTelemetry(ApplicationName, "/healthcheck", "/version"))

	for _, opt := range opts {
		opt(app)
	}

	app.Get("/accounts-filing/healthcheck", libHTTP.Health)
	app.Get("/version", libHTTP.Version)

	tx := app.Group("/transactions/:" + ParamTransactionID + "/accounts-filing")

	tx.Put("/company/:"+ParamCompanyNumber+"/confirm",
		libHTTP.ValidatePathParams(transactionRule, companyNumberRule), h.ConfirmCompany)
	tx.Get("/:"+ParamAccountsFilingID+"/file/:"+ParamFileID+"/status",
		libHTTP.ValidatePathParams(transactionRule, entryRule, fileRule), h.GetValidationStatus)
	tx.Get("/:"+ParamAccountsFilingID+links.ValidationStatusPath,
		libHTTP.ValidatePathParams(transactionRule, entryRule), h.GetEntryValidationStatus)
	tx.Put("/:"+ParamAccountsFilingID+"/package-type",
		libHTTP.ValidatePathParams(transactionRule, entryRule), h.ConfirmPackageType)
	tx.Get("/:"+ParamAccountsFilingID+"/validate",
		libHTTP.ValidatePathParams(transactionRule, entryRule), h.ValidateEntry)
	tx.Get("/:"+ParamAccountsFilingID+links.CostsPath,
		libHTTP.ValidatePathParams(transactionRule, entryRule), h.GetCosts)

	app.Get("/private/transactions/:"+ParamTransactionID+"/accounts-filing/:"+ParamAccountsFilingID+"/filings",
		libHTTP.ValidatePathParams(transactionRule, entryRule), h.GetFilings)

	return app
}
