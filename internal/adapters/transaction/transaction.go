// Package transaction is the client of the transaction service.
package transaction

import (
	"context"
	"net/http"
	"net/url"

	"github.com/LerianStudio/accounts-filing-api/internal/adapters/remote"
	"github.com/LerianStudio/accounts-filing-api/internal/filing"
)

// ServiceName identifies the transaction service in errors, spans and breakers.
const ServiceName = "transaction"

type patchBody struct {
	Resources map[string]filing.Resource `json:"resources"`
}

// Client reads and patches transactions.
type Client struct {
	remote *remote.Client
}

// NewClient returns a Client sending requests through rc.
func NewClient(rc *remote.Client) *Client {
	return &Client{remote: rc}
}

// Get returns the HTTP status received and, when it is 200, the transaction.
func (c *Client) Get(ctx context.Context, id string) (int, *filing.Transaction, error) {
	var tx filing.Transaction

	code, err := c.remote.Do(ctx, remote.Request{
		Method:     http.MethodGet,
		Path:       "/transactions/" + url.PathEscape(id),
		Operation:  "get_transaction",
		ResourceID: id,
		Expected:   http.StatusOK,
		Out:        &tx,
	})
	if err != nil || code != http.StatusOK {
		return code, nil, err
	}

	return code, &tx, nil
}

// Patch sends the resource map of tx and returns the HTTP status received.
func (c *Client) Patch(ctx context.Context, tx *filing.Transaction) (int, error) {
	return c.remote.Do(ctx, remote.Request{
		Method:     http.MethodPatch,
		Path:       "/private/transactions/" + url.PathEscape(tx.ID),
		Operation:  "patch_transaction",
		ResourceID: tx.ID,
		Expected:   http.StatusNoContent,
		Body:       patchBody{Resources: tx.Resources},
	})
}
