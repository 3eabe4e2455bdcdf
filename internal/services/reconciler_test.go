//go:build unit

package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/LerianStudio/accounts-filing-api/internal/adapters/validator"
	"github.com/LerianStudio/accounts-filing-api/internal/filing"
	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconciler_CheckStatus(t *testing.T) {
	t.Parallel()

	t.Run("not_found_is_absent", func(t *testing.T) {
		t.Parallel()

		r := &Reconciler{Validator: &fakeValidator{code: http.StatusNotFound}}

		status, found, err := r.CheckStatus(context.Background(), testFileID)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, status)
	})

	t.Run("ok_is_present", func(t *testing.T) {
		t.Parallel()

		r := &Reconciler{Validator: &fakeValidator{code: http.StatusOK, status: successfulStatus()}}

		status, found, err := r.CheckStatus(context.Background(), testFileID)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "accounts.zip", status.FileName)
	})

	t.Run("other_status_is_external_service_error", func(t *testing.T) {
		t.Parallel()

		for _, code := range []int{http.StatusConflict, http.StatusForbidden, http.StatusAccepted} {
			r := &Reconciler{Validator: &fakeValidator{code: code}}

			_, found, err := r.CheckStatus(context.Background(), testFileID)

			var external pkg.ExternalServiceError
			require.ErrorAs(t, err, &external, code)
			assert.False(t, found)
			assert.Equal(t, code, external.ActualStatus)

			var response pkg.ResponseError
			assert.ErrorAs(t, err, &response)
		}
	})

	t.Run("transport_error_propagates", func(t *testing.T) {
		t.Parallel()

		cause := pkg.NewResponseError(validator.ServiceName, "get", testFileID, http.StatusOK, 0, errors.New("dial"))
		r := &Reconciler{Validator: &fakeValidator{err: cause}}

		_, _, err := r.CheckStatus(context.Background(), testFileID)
		assert.Equal(t, cause, err)
	})
}

func TestReconciler_ApplyResult(t *testing.T) {
	t.Parallel()

	t.Run("success_writes_remote_facts", func(t *testing.T) {
		t.Parallel()

		e := filing.NewEntry(testTxID, "01234567", "ACME LTD")
		repo := newFakeRepo(*e)
		r := &Reconciler{EntryRepo: repo}

		saved, err := r.ApplyResult(context.Background(), e, testFileID, successfulStatus())
		require.NoError(t, err)

		assert.Equal(t, filing.AccountsType("51"), saved.AccountsType)
		assert.Equal(t, "2024-03-31", *saved.MadeUpDate)
		assert.Equal(t, testFileID, *saved.FileID)
		assert.Equal(t, *saved, repo.get(e.ID))
		assert.Nil(t, e.FileID, "caller's entry is not mutated")
	})

	t.Run("non_terminal_status_leaves_entry", func(t *testing.T) {
		t.Parallel()

		e := filing.NewEntry(testTxID, "01234567", "ACME LTD")
		repo := newFakeRepo(*e)
		status := successfulStatus()
		status.Result.ValidationStatus = "FAILED"

		got, err := (&Reconciler{EntryRepo: repo}).ApplyResult(context.Background(), e, testFileID, status)
		require.NoError(t, err)
		assert.Same(t, e, got)
		assert.Zero(t, repo.saves)
	})

	t.Run("missing_data_is_invalid_state", func(t *testing.T) {
		t.Parallel()

		e := filing.NewEntry(testTxID, "01234567", "ACME LTD")
		repo := newFakeRepo(*e)
		status := successfulStatus()
		status.Result.Data = nil

		_, err := (&Reconciler{EntryRepo: repo}).ApplyResult(context.Background(), e, testFileID, status)

		var invalid pkg.InvalidStateError
		require.ErrorAs(t, err, &invalid)
		assert.ErrorIs(t, err, constant.ErrMissingValidationData)
		assert.Zero(t, repo.saves)
	})

	t.Run("unrecognised_accounts_type_stored_as_unknown", func(t *testing.T) {
		t.Parallel()

		e := filing.NewEntry(testTxID, "01234567", "ACME LTD")
		status := successfulStatus()
		status.Result.Data.AccountType = "free text"

		saved, err := (&Reconciler{EntryRepo: newFakeRepo(*e)}).ApplyResult(context.Background(), e, testFileID, status)
		require.NoError(t, err)
		assert.Equal(t, filing.AccountsTypeUnknown, saved.AccountsType)
	})

	t.Run("save_failure_propagates", func(t *testing.T) {
		t.Parallel()

		e := filing.NewEntry(testTxID, "01234567", "ACME LTD")
		repo := newFakeRepo()
		repo.saveErr = errors.New("write concern")

		_, err := (&Reconciler{EntryRepo: repo}).ApplyResult(context.Background(), e, testFileID, successfulStatus())
		assert.ErrorIs(t, err, repo.saveErr)
	})

	t.Run("echo_of_another_file_is_rejected", func(t *testing.T) {
		t.Parallel()

		for _, echoed := range []string{"not-a-uuid", "0f6a1c8e-3b2d-4e5f-9a7b-1c2d3e4f5a6b"} {
			e := filing.NewEntry(testTxID, "01234567", "ACME LTD")
			repo := newFakeRepo(*e)
			status := successfulStatus()
			status.FileID = echoed

			_, err := (&Reconciler{EntryRepo: repo}).ApplyResult(context.Background(), e, testFileID, status)

			var invalid pkg.InvalidStateError
			require.ErrorAs(t, err, &invalid, echoed)
			assert.ErrorIs(t, err, constant.ErrFileIDMismatch)
			assert.Zero(t, repo.saves, echoed)
			assert.Nil(t, repo.get(e.ID).FileID, echoed)
		}
	})

	t.Run("requested_file_id_is_persisted", func(t *testing.T) {
		t.Parallel()

		e := filing.NewEntry(testTxID, "01234567", "ACME LTD")
		status := successfulStatus()
		status.FileID = strings.ToUpper(testFileID)

		saved, err := (&Reconciler{EntryRepo: newFakeRepo(*e)}).ApplyResult(context.Background(), e, testFileID, status)
		require.NoError(t, err)
		assert.Equal(t, testFileID, *saved.FileID)
	})

	t.Run("malformed_requested_file_id", func(t *testing.T) {
		t.Parallel()

		e := filing.NewEntry(testTxID, "01234567", "ACME LTD")
		repo := newFakeRepo(*e)
		status := successfulStatus()
		status.FileID = ""

		_, err := (&Reconciler{EntryRepo: repo}).ApplyResult(context.Background(), e, "short", status)
		assert.ErrorIs(t, err, constant.ErrInvalidFileID)
		assert.Zero(t, repo.saves)
	})
}
