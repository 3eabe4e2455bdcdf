// Package links computes the sub-resource links an accounts filing adds to
// its transaction.
package links

import (
	"fmt"
	"time"

	"github.com/LerianStudio/accounts-filing-api/internal/filing"
)

const (
	ResourceKind = "accounts-filing"

	RelResource         = "resource"
	RelValidationStatus = "validation_status"
	RelCosts            = "costs"
)

// Sub-resource paths under ResourceURI.
const (
	ValidationStatusPath = "/validation_status"
	CostsPath            = "/costs"
)

// Links maps a link relation to its URI.
type Links map[string]string

// ResourceURI is the key of the filing in the transaction's resource map.
func ResourceURI(transactionID, entryID string) string {
	return fmt.Sprintf("/transactions/%s/accounts-filing/%s", transactionID, entryID)
}

// Build returns the links of a filing. Costs are linked only for package
// types that attract a fee.
func Build(transactionID, entryID string, packageType filing.PackageType) Links {
	uri := ResourceURI(transactionID, entryID)

	l := Links{
		RelResource:         uri,
		RelValidationStatus: uri + ValidationStatusPath,
	}

	if packageType.AttractsFee() {
		l[RelCosts] = uri + CostsPath
	}

	return l
}

// Attach replaces whatever resource the transaction holds for the filing
// with a fresh one stamped at now, and returns its URI.
func Attach(tx *filing.Transaction, entryID string, packageType filing.PackageType, now time.Time) string {
	uri := ResourceURI(tx.ID, entryID)

	if tx.Resources == nil {
		tx.Resources = make(map[string]filing.Resource)
	}

	tx.Resources[uri] = filing.Resource{
		Kind:      ResourceKind,
		Links:     Build(tx.ID, entryID, packageType),
		UpdatedAt: now.UTC(),
	}

	return uri
}
