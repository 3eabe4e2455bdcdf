// Package in is the inbound HTTP adapter of the accounts filing pipeline.
package in

import (
	"context"

	"github.com/LerianStudio/accounts-filing-api/internal/costs"
	"github.com/LerianStudio/accounts-filing-api/internal/filing"
	"github.com/LerianStudio/accounts-filing-api/internal/services"
	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
	libHTTP "github.com/LerianStudio/accounts-filing-api/pkg/net/http"
	"github.com/LerianStudio/accounts-filing-api/pkg/opentelemetry"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
)

// Pipeline is the part of services.UseCase the handlers drive.
type Pipeline interface {
	ConfirmCompany(ctx context.Context, transactionID, companyNumber, companyName string) (*filing.Entry, error)
	GetEntry(ctx context.Context, transactionID, entryID string) (*filing.Entry, error)
	ReconcileValidation(ctx context.Context, fileID, entryID string) (*services.ValidationStatusResponse, error)
	ConfirmPackageType(ctx context.Context, entryID, raw string) (*filing.Entry, error)
	AttachResources(ctx context.Context, transactionID, entryID string, packageType filing.PackageType) error
	CalculateCosts(ctx context.Context, entryID string) ([]costs.Cost, error)
	ValidateEntry(ctx context.Context, transactionID, entryID string) (filing.ValidationOutcome, error)
	AssembleFiling(ctx context.Context, transactionID, entryID string) (*filing.Filing, error)
}

// ConfirmCompanyInput is the body of a company confirmation.
type ConfirmCompanyInput struct {
	CompanyName string `json:"company_name" validate:"required,max=160"`
}

// ConfirmCompanyOutput identifies the created accounts filing.
type ConfirmCompanyOutput struct {
	AccountsFilingID string `json:"accounts_filing_id"`
}

// PackageTypeInput is the body of a package type confirmation.
type PackageTypeInput struct {
	PackageType string `json:"package_type" validate:"required,max=64"`
}

// FilingHandler serves the accounts filing routes.
type FilingHandler struct {
	Pipeline Pipeline
}

// ConfirmCompany creates an accounts filing for the company in the path.
func (h *FilingHandler) ConfirmCompany(c *fiber.Ctx) error {
	ctx := c.UserContext()

	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.confirm_company")
	defer span.End()

	transactionID := c.Params(ParamTransactionID)
	span.SetAttributes(attribute.String(constant.AttrTransactionID, transactionID))

	var input ConfirmCompanyInput
	if err := libHTTP.ParseBodyAndValidate(c, &input); err != nil {
		opentelemetry.HandleSpanBusinessErrorEvent(span, "invalid request body", err)

		return err
	}

	if err := opentelemetry.SetSpanAttributesFromStruct(span, "app.request.payload", input); err != nil {
		opentelemetry.HandleSpanError(span, "Failed to convert payload to JSON string", err)
	}

	e, err := h.Pipeline.ConfirmCompany(ctx, transactionID, c.Params(ParamCompanyNumber), input.CompanyName)
	if err != nil {
		return err
	}

	return libHTTP.Created(c, ConfirmCompanyOutput{AccountsFilingID: e.ID})
}

// GetValidationStatus reconciles the validation of the file in the path
// into the accounts filing.
func (h *FilingHandler) GetValidationStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()

	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_validation_status")
	defer span.End()

	entryID := c.Params(ParamAccountsFilingID)

	if _, err := h.Pipeline.GetEntry(ctx, c.Params(ParamTransactionID), entryID); err != nil {
		return err
	}

	status, err := h.Pipeline.ReconcileValidation(ctx, c.Params(ParamFileID), entryID)
	if err != nil {
		return err
	}

	return libHTTP.OK(c, status)
}

// GetEntryValidationStatus reconciles the validation of the file last
// uploaded for the accounts filing.
func (h *FilingHandler) GetEntryValidationStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()

	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_entry_validation_status")
	defer span.End()

	entryID := c.Params(ParamAccountsFilingID)

	e, err := h.Pipeline.GetEntry(ctx, c.Params(ParamTransactionID), entryID)
	if err != nil {
		return err
	}

	if e.FileID == nil || *e.FileID == "" {
		err := pkg.ValidateBusinessError(constant.ErrValidationStatusNotFound, "AccountsFiling", "of this accounts filing")
		opentelemetry.HandleSpanBusinessErrorEvent(span, "no file uploaded", err)

		return err
	}

	status, err := h.Pipeline.ReconcileValidation(ctx, *e.FileID, entryID)
	if err != nil {
		return err
	}

	return libHTTP.OK(c, status)
}

// ConfirmPackageType records the package type and links the filing on its
// transaction.
func (h *FilingHandler) ConfirmPackageType(c *fiber.Ctx) error {
	ctx := c.UserContext()

	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.confirm_package_type")
	defer span.End()

	transactionID := c.Params(ParamTransactionID)
	entryID := c.Params(ParamAccountsFilingID)

	var input PackageTypeInput
	if err := libHTTP.ParseBodyAndValidate(c, &input); err != nil {
		opentelemetry.HandleSpanBusinessErrorEvent(span, "invalid request body", err)

		return err
	}

	if err := opentelemetry.SetSpanAttributesFromStruct(span, "app.request.payload", input); err != nil {
		opentelemetry.HandleSpanError(span, "Failed to convert payload to JSON string", err)
	}

	if _, err := h.Pipeline.GetEntry(ctx, transactionID, entryID); err != nil {
		return err
	}

	e, err := h.Pipeline.ConfirmPackageType(ctx, entryID, input.PackageType)
	if err != nil {
		return err
	}

	if err := h.Pipeline.AttachResources(ctx, transactionID, entryID, *e.PackageType); err != nil {
		return err
	}

	return libHTTP.NoContent(c)
}

// ValidateEntry answers 200 with the outcome of a valid filing. An invalid
// filing is a 400 listing every failed check.
func (h *FilingHandler) ValidateEntry(c *fiber.Ctx) error {
	ctx := c.UserContext()

	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.validate_entry")
	defer span.End()

	outcome, err := h.Pipeline.ValidateEntry(ctx, c.Params(ParamTransactionID), c.Params(ParamAccountsFilingID))
	if err != nil {
		return err
	}

	return libHTTP.OK(c, outcome)
}

// GetCosts lists the fees of the filing.
func (h *FilingHandler) GetCosts(c *fiber.Ctx) error {
	ctx := c.UserContext()

	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_costs")
	defer span.End()

	entryID := c.Params(ParamAccountsFilingID)

	if _, err := h.Pipeline.GetEntry(ctx, c.Params(ParamTransactionID), entryID); err != nil {
		return err
	}

	list, err := h.Pipeline.CalculateCosts(ctx, entryID)
	if err != nil {
		return err
	}

	return libHTTP.OK(c, list)
}

// GetFilings returns the submission payload of the filing as a one element list.
func (h *FilingHandler) GetFilings(c *fiber.Ctx) error {
	ctx := c.UserContext()

	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_filings")
	defer span.End()

	f, err := h.Pipeline.AssembleFiling(ctx, c.Params(ParamTransactionID), c.Params(ParamAccountsFilingID))
	if err != nil {
		return err
	}

	return libHTTP.OK(c, []filing.Filing{*f})
}
