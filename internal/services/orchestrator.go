package services

import (
	"context"
	"net/http"
	"time"

	"github.com/LerianStudio/accounts-filing-api/internal/adapters/transaction"
	"github.com/LerianStudio/accounts-filing-api/internal/filing"
	"github.com/LerianStudio/accounts-filing-api/internal/links"
	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
	"github.com/LerianStudio/accounts-filing-api/pkg/opentelemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Orchestrator reads transactions and applies resource link edits to them.
type Orchestrator struct {
	Transactions TransactionService
	Now          func() time.Time
}

// GetTransaction returns (nil, false, nil) when the transaction does not exist.
func (o *Orchestrator) GetTransaction(ctx context.Context, id string) (*filing.Transaction, bool, error) {
	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "orchestrator.get_transaction")
	defer span.End()

	span.SetAttributes(attribute.String(constant.AttrTransactionID, id))

	code, tx, err := o.Transactions.Get(ctx, id)
	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to get transaction", err)

		return nil, false, err
	}

	switch {
	case code == http.StatusNotFound:
		return nil, false, nil
	case code == http.StatusOK && tx != nil:
		return tx, true, nil
	}

	err = pkg.NewResponseError(transaction.ServiceName, "get_transaction", id, http.StatusOK, code, nil)
	opentelemetry.HandleSpanError(span, "Unexpected transaction response", err)

	return nil, false, err
}

// UpdateTransaction patches tx and requires a 204 in return.
func (o *Orchestrator) UpdateTransaction(ctx context.Context, tx *filing.Transaction) error {
	_, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "orchestrator.update_transaction")
	defer span.End()

	span.SetAttributes(attribute.String(constant.AttrTransactionID, tx.ID))

	code, err := o.Transactions.Patch(ctx, tx)
	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to patch transaction", err)

		return err
	}

	if code != http.StatusNoContent {
		err = pkg.NewResponseError(transaction.ServiceName, "patch_transaction", tx.ID, http.StatusNoContent, code, nil)
		opentelemetry.HandleSpanError(span, "Unexpected transaction patch response", err)

		return err
	}

	return nil
}

// AttachFilingResource replaces the filing's resource on tx with a freshly
// stamped one and returns its URI. Calling it again with the same arguments
// leaves a single resource for the filing.
func (o *Orchestrator) AttachFilingResource(tx *filing.Transaction, entryID string, packageType filing.PackageType) string {
	return links.Attach(tx, entryID, packageType, o.now())
}

func (o *Orchestrator) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}

	return o.Now()
}
