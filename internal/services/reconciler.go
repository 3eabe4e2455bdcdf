package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/LerianStudio/accounts-filing-api/internal/adapters/mongodb/entry"
	"github.com/LerianStudio/accounts-filing-api/internal/adapters/validator"
	"github.com/LerianStudio/accounts-filing-api/internal/filing"
	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
	"github.com/LerianStudio/accounts-filing-api/pkg/log"
	"github.com/LerianStudio/accounts-filing-api/pkg/opentelemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Reconciler pulls validation results and commits them into entries.
// It ingests remote facts only and never applies filing.Validate.
type Reconciler struct {
	Validator FileValidator
	EntryRepo entry.Repository
}

// CheckStatus returns the status of fileID. A 404 from the validator means
// the status is not available yet and is reported as (nil, false, nil).
// Every status other than 200 and 404 is an ExternalServiceError.
func (r *Reconciler) CheckStatus(ctx context.Context, fileID string) (*validator.Status, bool, error) {
	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "reconciler.check_status")
	defer span.End()

	span.SetAttributes(attribute.String(constant.AttrFileID, fileID))

	code, status, err := r.Validator.GetStatus(ctx, fileID)
	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to get validation status", err)

		return nil, false, err
	}

	switch {
	case code == http.StatusNotFound:
		return nil, false, nil
	case code == http.StatusOK && status != nil:
		return status, true, nil
	}

	err = pkg.NewExternalServiceError(validator.ServiceName, "get_validation_status", fileID, http.StatusOK, code, nil)
	opentelemetry.HandleSpanError(span, "Unexpected validation status response", err)

	return nil, false, err
}

// ApplyResult writes a successful validation of fileID into e and saves it.
// Any other validation status leaves e untouched and unsaved. The validator's
// echoed file id, when present, must name the same file.
func (r *Reconciler) ApplyResult(ctx context.Context, e *filing.Entry, fileID string, status *validator.Status) (*filing.Entry, error) {
	logger, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "reconciler.apply_result")
	defer span.End()

	span.SetAttributes(
		attribute.String(constant.AttrEntryID, e.ID),
		attribute.String(constant.AttrFileID, fileID),
	)

	if !filing.IsValidFileID(fileID) {
		err := pkg.ValidateBusinessError(constant.ErrInvalidFileID, entityAccountsFiling, fileID)
		opentelemetry.HandleSpanBusinessErrorEvent(span, "invalid file id", err)

		return nil, err
	}

	if status.FileID != "" && !strings.EqualFold(status.FileID, fileID) {
		err := pkg.ValidateBusinessError(constant.ErrFileIDMismatch, entityAccountsFiling, status.FileID, fileID)

		opentelemetry.HandleSpanError(span, "Validator answered for another file", err)
		logger.Log(ctx, log.LevelError, "validator echoed a different file id",
			log.String("entry_id", e.ID),
			log.String("file_id", fileID),
			log.String("echoed_file_id", status.FileID),
		)

		return nil, err
	}

	if !status.IsSuccessful() {
		logger.Log(ctx, log.LevelInfo, "validation not successful, entry left unchanged",
			log.String("entry_id", e.ID),
			log.String("validation_status", status.Result.ValidationStatus),
		)

		return e, nil
	}

	data := status.Result.Data
	if data == nil {
		err := pkg.ValidateBusinessError(constant.ErrMissingValidationData, entityAccountsFiling, fileID)

		opentelemetry.HandleSpanError(span, "Validator returned no data", err)
		logger.Log(ctx, log.LevelError, "validator reported success without data",
			log.String("entry_id", e.ID),
			log.String("file_id", fileID),
		)

		return nil, err
	}

	accountsType, ok := filing.LookupAccountsType(data.AccountType)
	if !ok {
		logger.Log(ctx, log.LevelWarn, "validator reported an unrecognised accounts type",
			log.String("entry_id", e.ID),
			log.String("accounts_type", data.AccountType),
		)
	}

	updated := *e
	updated.FileID = &fileID
	updated.AccountsType = accountsType
	updated.MadeUpDate = nil

	if data.PeriodEndDate != nil {
		date := *data.PeriodEndDate
		updated.MadeUpDate = &date
	}

	saved, err := r.EntryRepo.Save(ctx, &updated)
	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to save entry", err)

		return nil, err
	}

	return saved, nil
}
