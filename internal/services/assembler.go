package services

import (
	"context"
	"fmt"

	"github.com/LerianStudio/accounts-filing-api/internal/adapters/mongodb/entry"
	"github.com/LerianStudio/accounts-filing-api/internal/filing"
	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
	"github.com/LerianStudio/accounts-filing-api/pkg/opentelemetry"
	"go.opentelemetry.io/otel/attribute"
)

const (
	FilingKind                  = "accounts#package-accounts"
	FilingDescriptionIdentifier = "package-accounts"
)

// StorageConfig locates uploaded files.
type StorageConfig struct {
	Scheme string
	Bucket string
}

// FileLink returns the scheme and bucket qualified location of fileID.
func (s StorageConfig) FileLink(fileID string) string {
	return fmt.Sprintf("%s://%s/%s", s.Scheme, s.Bucket, fileID)
}

// Assembler builds the submission payload of an entry. It does not run
// filing.Validate; callers confirm validity first.
type Assembler struct {
	EntryRepo entry.Repository
	Storage   StorageConfig
}

// Assemble returns NotFound both when the entry is missing and when it
// belongs to another transaction.
func (a *Assembler) Assemble(ctx context.Context, transactionID, entryID string) (*filing.Filing, error) {
	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "assembler.assemble")
	defer span.End()

	span.SetAttributes(
		attribute.String(constant.AttrTransactionID, transactionID),
		attribute.String(constant.AttrEntryID, entryID),
	)

	e, err := findInTransaction(ctx, a.EntryRepo, transactionID, entryID)
	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to find entry", err)

		return nil, err
	}

	if missing := missingForSubmission(e); missing != "" {
		err := pkg.ValidateBusinessError(constant.ErrIncompleteEntry, "AccountsFiling", entryID, missing)
		opentelemetry.HandleSpanError(span, "Entry cannot be assembled", err)

		return nil, err
	}

	description := "Package accounts"
	values := map[string]string{"accounts_type": e.AccountsType.Label()}

	madeUpDate := ""
	if e.MadeUpDate != nil && *e.MadeUpDate != "" {
		madeUpDate = *e.MadeUpDate
		description += " made up to " + madeUpDate
		values["made_up_date"] = madeUpDate
	}

	return &filing.Filing{
		Kind:                  FilingKind,
		Description:           description,
		DescriptionIdentifier: FilingDescriptionIdentifier,
		DescriptionValues:     values,
		Data: filing.FilingData{
			PackageType:  e.PackageType.String(),
			AccountsType: string(e.AccountsType),
			MadeUpDate:   madeUpDate,
			FileLink:     a.Storage.FileLink(*e.FileID),
		},
	}, nil
}

func missingForSubmission(e *filing.Entry) string {
	switch {
	case e.PackageType == nil:
		return "a package type"
	case e.FileID == nil || *e.FileID == "":
		return "a file id"
	case !e.AccountsType.IsKnown():
		return "a known accounts type"
	}

	return ""
}

// findInTransaction hides entries of other transactions behind the same
// NotFound as a missing entry.
func findInTransaction(ctx context.Context, repo entry.Repository, transactionID, entryID string) (*filing.Entry, error) {
	e, err := repo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if e == nil || !e.BelongsTo(transactionID) {
		return nil, pkg.ValidateBusinessError(constant.ErrEntryNotFound, "AccountsFiling", entryID)
	}

	return e, nil
}
