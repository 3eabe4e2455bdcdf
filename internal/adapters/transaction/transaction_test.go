//go:build unit

package transaction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LerianStudio/accounts-filing-api/internal/adapters/remote"
	"github.com/LerianStudio/accounts-filing-api/internal/filing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const txID = "123456-123456-123456"

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	rc, err := remote.NewClient(remote.Config{Service: ServiceName, BaseURL: srv.URL, APIKey: "api-key"}, srv.Client(), nil)
	require.NoError(t, err)

	return NewClient(rc)
}

func TestGet(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transactions/"+txID, r.URL.Path)

		_, _ = w.Write([]byte(`{"id":"` + txID + `","company_number":"01234567","status":"open",` +
			`"resources":{"/other":{"kind":"other","links":{"resource":"/other"}}}}`))
	})

	code, tx, err := client.Get(context.Background(), txID)
	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "open", tx.Status)
	assert.Contains(t, tx.Resources, "/other")
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	code, tx, err := client.Get(context.Background(), txID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Nil(t, tx)
}

func TestPatch_SendsResources(t *testing.T) {
	t.Parallel()

	updated := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/private/transactions/"+txID, r.URL.Path)
		assert.Equal(t, "api-key", r.Header.Get("Authorization"))

		var body struct {
			Resources map[string]filing.Resource `json:"resources"`
		}

		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, updated, body.Resources["/r"].UpdatedAt)

		w.WriteHeader(http.StatusNoContent)
	})

	code, err := client.Patch(context.Background(), &filing.Transaction{
		ID:        txID,
		Resources: map[string]filing.Resource{"/r": {Kind: "accounts-filing", UpdatedAt: updated}},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, code)
}
