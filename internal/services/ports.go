// Package services implements the accounts filing pipeline on top of the
// entry store and the two remote services.
package services

import (
	"context"

	"github.com/LerianStudio/accounts-filing-api/internal/adapters/validator"
	"github.com/LerianStudio/accounts-filing-api/internal/filing"
)

// FileValidator reports the validation status of an uploaded file.
type FileValidator interface {
	GetStatus(ctx context.Context, fileID string) (int, *validator.Status, error)
}

// TransactionService reads and patches transactions.
type TransactionService interface {
	Get(ctx context.Context, id string) (int, *filing.Transaction, error)
	Patch(ctx context.Context, tx *filing.Transaction) (int, error)
}
