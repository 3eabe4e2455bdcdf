//go:build unit

package services

import (
	"context"
	"testing"

	"github.com/LerianStudio/accounts-filing-api/internal/filing"
	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStorage = StorageConfig{Scheme: "s3", Bucket: "accounts-uploads"}

func TestAssembler_Assemble(t *testing.T) {
	t.Parallel()

	a := &Assembler{EntryRepo: newFakeRepo(completeEntry()), Storage: testStorage}

	got, err := a.Assemble(context.Background(), testTxID, testEntryID)
	require.NoError(t, err)

	assert.Equal(t, &filing.Filing{
		Kind:                  "accounts#package-accounts",
		Description:           "Package accounts made up to 2023-12-31",
		DescriptionIdentifier: "package-accounts",
		DescriptionValues: map[string]string{
			"made_up_date":  "2023-12-31",
			"accounts_type": "Full accounts",
		},
		Data: filing.FilingData{
			PackageType:  "cic",
			AccountsType: "01",
			MadeUpDate:   "2023-12-31",
			FileLink:     "s3://accounts-uploads/" + testFileID,
		},
	}, got)
}

func TestAssembler_CrossTransactionIsolation(t *testing.T) {
	t.Parallel()

	a := &Assembler{EntryRepo: newFakeRepo(completeEntry()), Storage: testStorage}

	_, mismatch := a.Assemble(context.Background(), otherTxID, testEntryID)
	_, missing := a.Assemble(context.Background(), testTxID, "5f0e1c2d-0000-4000-8000-000000000000")

	var notFound pkg.EntityNotFoundError
	require.ErrorAs(t, mismatch, &notFound)
	require.ErrorAs(t, missing, &notFound)
	assert.ErrorIs(t, mismatch, constant.ErrEntryNotFound)

	var mismatchErr, missingErr pkg.EntityNotFoundError
	require.ErrorAs(t, mismatch, &mismatchErr)
	require.ErrorAs(t, missing, &missingErr)
	assert.Equal(t, missingErr.Code, mismatchErr.Code)
	assert.Equal(t, missingErr.Title, mismatchErr.Title)
}

func TestAssembler_OverseasWithoutDate(t *testing.T) {
	t.Parallel()

	e := completeEntry()
	e.PackageType = ptr(filing.PackageTypeOverseas)
	e.MadeUpDate = nil

	got, err := (&Assembler{EntryRepo: newFakeRepo(e), Storage: testStorage}).
		Assemble(context.Background(), testTxID, testEntryID)
	require.NoError(t, err)

	assert.Equal(t, "Package accounts", got.Description)
	assert.NotContains(t, got.DescriptionValues, "made_up_date")
	assert.Empty(t, got.Data.MadeUpDate)
}

func TestAssembler_DoesNotRevalidate(t *testing.T) {
	t.Parallel()

	e := completeEntry()
	e.MadeUpDate = ptr("2021-06-31")

	got, err := (&Assembler{EntryRepo: newFakeRepo(e), Storage: testStorage}).
		Assemble(context.Background(), testTxID, testEntryID)
	require.NoError(t, err)
	assert.Equal(t, "2021-06-31", got.Data.MadeUpDate)
}

func TestAssembler_IncompleteEntry(t *testing.T) {
	t.Parallel()

	tests := map[string]func(*filing.Entry){
		"no_package_type": func(e *filing.Entry) { e.PackageType = nil },
		"no_file_id":      func(e *filing.Entry) { e.FileID = nil },
		"unknown_type":    func(e *filing.Entry) { e.AccountsType = filing.AccountsTypeUnknown },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			e := completeEntry()
			mutate(&e)

			_, err := (&Assembler{EntryRepo: newFakeRepo(e), Storage: testStorage}).
				Assemble(context.Background(), testTxID, testEntryID)

			var invalid pkg.InvalidStateError
			require.ErrorAs(t, err, &invalid)
			assert.ErrorIs(t, err, constant.ErrIncompleteEntry)
		})
	}
}
