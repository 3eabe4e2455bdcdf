//go:build unit

package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/LerianStudio/accounts-filing-api/internal/filing"
	"github.com/LerianStudio/accounts-filing-api/internal/links"
	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestrator_GetTransaction(t *testing.T) {
	t.Parallel()

	tx := &filing.Transaction{ID: testTxID}

	got, found, err := (&Orchestrator{Transactions: &fakeTransactions{getCode: http.StatusOK, tx: tx}}).
		GetTransaction(context.Background(), testTxID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Same(t, tx, got)

	got, found, err = (&Orchestrator{Transactions: &fakeTransactions{getCode: http.StatusNotFound}}).
		GetTransaction(context.Background(), testTxID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)

	_, _, err = (&Orchestrator{Transactions: &fakeTransactions{getCode: http.StatusUnauthorized}}).
		GetTransaction(context.Background(), testTxID)

	var response pkg.ResponseError
	require.ErrorAs(t, err, &response)
	assert.Equal(t, http.StatusOK, response.ExpectedStatus)
	assert.Equal(t, http.StatusUnauthorized, response.ActualStatus)
	assert.Equal(t, testTxID, response.ResourceID)
}

func TestOrchestrator_UpdateTransaction(t *testing.T) {
	t.Parallel()

	tx := &filing.Transaction{ID: testTxID}

	require.NoError(t, (&Orchestrator{Transactions: &fakeTransactions{patchCode: http.StatusNoContent}}).
		UpdateTransaction(context.Background(), tx))

	err := (&Orchestrator{Transactions: &fakeTransactions{patchCode: http.StatusOK}}).
		UpdateTransaction(context.Background(), tx)

	var response pkg.ResponseError
	require.ErrorAs(t, err, &response)
	assert.Equal(t, http.StatusNoContent, response.ExpectedStatus)
	assert.Equal(t, http.StatusOK, response.ActualStatus)
}

func TestOrchestrator_AttachFilingResourceTwice(t *testing.T) {
	t.Parallel()

	first := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := first

	o := &Orchestrator{Now: func() time.Time { return clock }}
	tx := &filing.Transaction{ID: testTxID}

	uri := o.AttachFilingResource(tx, testEntryID, filing.PackageTypeOverseas)

	clock = first.Add(time.Second)
	o.AttachFilingResource(tx, testEntryID, filing.PackageTypeOverseas)

	require.Len(t, tx.Resources, 1)
	assert.Equal(t, links.ResourceURI(testTxID, testEntryID), uri)
	assert.Equal(t, clock, tx.Resources[uri].UpdatedAt)
	assert.Contains(t, tx.Resources[uri].Links, links.RelCosts)
}
