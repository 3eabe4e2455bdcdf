package services

import (
	"context"
	"fmt"
	"time"

	"github.com/LerianStudio/accounts-filing-api/internal/adapters/mongodb/entry"
	"github.com/LerianStudio/accounts-filing-api/internal/costs"
	"github.com/LerianStudio/accounts-filing-api/internal/filing"
	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
	"github.com/LerianStudio/accounts-filing-api/pkg/log"
	"github.com/LerianStudio/accounts-filing-api/pkg/opentelemetry"
	"go.opentelemetry.io/otel/attribute"
)

const entityAccountsFiling = "AccountsFiling"

// UseCase is the filing pipeline exposed to the HTTP layer.
type UseCase struct {
	EntryRepo    entry.Repository
	Reconciler   *Reconciler
	Orchestrator *Orchestrator
	Assembler    *Assembler
	Costs        *costs.Calculator
}

// NewUseCase wires the pipeline components over the given ports.
func NewUseCase(
	repo entry.Repository,
	fileValidator FileValidator,
	transactions TransactionService,
	calculator *costs.Calculator,
	storage StorageConfig,
) *UseCase {
	return &UseCase{
		EntryRepo:    repo,
		Reconciler:   &Reconciler{Validator: fileValidator, EntryRepo: repo},
		Orchestrator: &Orchestrator{Transactions: transactions, Now: time.Now},
		Assembler:    &Assembler{EntryRepo: repo, Storage: storage},
		Costs:        calculator,
	}
}

// ValidationStatusResponse is what the caller sees of a reconciled validation.
type ValidationStatusResponse struct {
	FileID   string `json:"id"`
	FileName string `json:"file_name"`
	Status   string `json:"status"`
}

// ConfirmCompany creates the entry of a confirmed company.
func (uc *UseCase) ConfirmCompany(ctx context.Context, transactionID, companyNumber, companyName string) (*filing.Entry, error) {
	logger, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.confirm_company")
	defer span.End()

	span.SetAttributes(attribute.String(constant.AttrTransactionID, transactionID))

	e := filing.NewEntry(transactionID, companyNumber, companyName)

	saved, err := uc.EntryRepo.Save(ctx, e)
	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to save entry", err)

		return nil, fmt.Errorf("save entry: %w", err)
	}

	logger.Log(ctx, log.LevelInfo, "accounts filing created",
		log.String("entry_id", saved.ID),
		log.String("transaction_id", transactionID),
	)

	return saved, nil
}

// GetEntry reads an entry within its transaction.
func (uc *UseCase) GetEntry(ctx context.Context, transactionID, entryID string) (*filing.Entry, error) {
	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_entry")
	defer span.End()

	span.SetAttributes(attribute.String(constant.AttrEntryID, entryID))

	e, err := findInTransaction(ctx, uc.EntryRepo, transactionID, entryID)
	if err != nil {
		opentelemetry.HandleSpanBusinessErrorEvent(span, "entry lookup failed", err)

		return nil, err
	}

	return e, nil
}

// ReconcileValidation pulls the validation status of fileID and, when the
// file passed, commits the result into the entry. A status the validator
// does not have yet is a NotFound.
func (uc *UseCase) ReconcileValidation(ctx context.Context, fileID, entryID string) (*ValidationStatusResponse, error) {
	logger, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.reconcile_validation")
	defer span.End()

	span.SetAttributes(
		attribute.String(constant.AttrEntryID, entryID),
		attribute.String(constant.AttrFileID, fileID),
	)

	if !filing.IsValidFileID(fileID) {
		err := pkg.ValidateBusinessError(constant.ErrInvalidFileID, entityAccountsFiling, fileID)
		opentelemetry.HandleSpanBusinessErrorEvent(span, "invalid file id", err)

		return nil, err
	}

	e, err := uc.EntryRepo.FindByID(ctx, entryID)
	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to find entry", err)

		return nil, err
	}

	if e == nil {
		return nil, pkg.ValidateBusinessError(constant.ErrEntryNotFound, entityAccountsFiling, entryID)
	}

	status, found, err := uc.Reconciler.CheckStatus(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if !found {
		logger.Log(ctx, log.LevelInfo, "validation status not available yet", log.String("file_id", fileID))

		return nil, pkg.ValidateBusinessError(constant.ErrValidationStatusNotFound, entityAccountsFiling, fileID)
	}

	if _, err := uc.Reconciler.ApplyResult(ctx, e, fileID, status); err != nil {
		return nil, err
	}

	return &ValidationStatusResponse{
		FileID:   fileID,
		FileName: status.FileName,
		Status:   status.Result.ValidationStatus,
	}, nil
}

// ConfirmPackageType sets the package type of the entry from raw.
func (uc *UseCase) ConfirmPackageType(ctx context.Context, entryID, raw string) (*filing.Entry, error) {
	logger, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.confirm_package_type")
	defer span.End()

	span.SetAttributes(
		attribute.String(constant.AttrEntryID, entryID),
		attribute.String(constant.AttrPackageType, raw),
	)

	packageType, ok := filing.LookupPackageType(raw)
	if !ok {
		err := pkg.ValidateBusinessError(constant.ErrInvalidPackageType, entityAccountsFiling, raw)
		opentelemetry.HandleSpanBusinessErrorEvent(span, "invalid package type", err)

		return nil, err
	}

	e, err := uc.EntryRepo.FindByID(ctx, entryID)
	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to find entry", err)

		return nil, err
	}

	if e == nil {
		return nil, pkg.ValidateBusinessError(constant.ErrEntryNotFound, entityAccountsFiling, entryID)
	}

	updated := *e
	updated.PackageType = &packageType

	saved, err := uc.EntryRepo.Save(ctx, &updated)
	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to save entry", err)

		return nil, err
	}

	logger.Log(ctx, log.LevelInfo, "package type confirmed",
		log.String("entry_id", entryID),
		log.String("package_type", packageType.String()),
	)

	return saved, nil
}

// AttachResources links the filing on its transaction. The entry is not
// rolled back when the patch fails.
func (uc *UseCase) AttachResources(ctx context.Context, transactionID, entryID string, packageType filing.PackageType) error {
	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.attach_resources")
	defer span.End()

	span.SetAttributes(
		attribute.String(constant.AttrTransactionID, transactionID),
		attribute.String(constant.AttrEntryID, entryID),
		attribute.String(constant.AttrPackageType, packageType.String()),
	)

	tx, found, err := uc.Orchestrator.GetTransaction(ctx, transactionID)
	if err != nil {
		return err
	}

	if !found {
		return pkg.ValidateBusinessError(constant.ErrTransactionNotFound, "Transaction", transactionID)
	}

	uc.Orchestrator.AttachFilingResource(tx, entryID, packageType)

	return uc.Orchestrator.UpdateTransaction(ctx, tx)
}

// CalculateCosts prices the entry.
func (uc *UseCase) CalculateCosts(ctx context.Context, entryID string) ([]costs.Cost, error) {
	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.calculate_costs")
	defer span.End()

	span.SetAttributes(attribute.String(constant.AttrEntryID, entryID))

	e, err := uc.EntryRepo.FindByID(ctx, entryID)
	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to find entry", err)

		return nil, err
	}

	if e == nil {
		return nil, pkg.ValidateBusinessError(constant.ErrEntryNotFound, entityAccountsFiling, entryID)
	}

	return uc.Costs.Calculate(*e), nil
}

// ValidateEntry runs the filing rules on the stored entry. An invalid entry
// is returned together with a ValidationKnownFieldsError listing every failure.
func (uc *UseCase) ValidateEntry(ctx context.Context, transactionID, entryID string) (filing.ValidationOutcome, error) {
	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.validate_entry")
	defer span.End()

	e, err := findInTransaction(ctx, uc.EntryRepo, transactionID, entryID)
	if err != nil {
		opentelemetry.HandleSpanBusinessErrorEvent(span, "entry lookup failed", err)

		return filing.ValidationOutcome{}, err
	}

	outcome := filing.Validate(*e)
	if outcome.Valid {
		return outcome, nil
	}

	err = pkg.ValidationKnownFieldsError{
		EntityType: entityAccountsFiling,
		Code:       constant.ErrEntryValidationFailed.Error(),
		Title:      "Accounts Filing Validation Failed",
		Message:    fmt.Sprintf("Accounts filing %s failed %d validation check(s).", entryID, len(outcome.Errors)),
		Fields:     outcome.Errors,
	}
	opentelemetry.HandleSpanBusinessErrorEvent(span, "entry invalid", err)

	return outcome, err
}

// AssembleFiling builds the submission payload of the entry.
func (uc *UseCase) AssembleFiling(ctx context.Context, transactionID, entryID string) (*filing.Filing, error) {
	return uc.Assembler.Assemble(ctx, transactionID, entryID)
}
