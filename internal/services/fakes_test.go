//go:build unit

package services

import (
	"context"
	"sync"

	"github.com/LerianStudio/accounts-filing-api/internal/adapters/validator"
	"github.com/LerianStudio/accounts-filing-api/internal/filing"
)

type fakeRepo struct {
	mu      sync.Mutex
	entries map[string]filing.Entry
	saves   int
	findErr error
	saveErr error
}

func newFakeRepo(entries ...filing.Entry) *fakeRepo {
	r := &fakeRepo{entries: make(map[string]filing.Entry)}
	for _, e := range entries {
		r.entries[e.ID] = e
	}

	return r
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*filing.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}

	e, ok := r.entries[id]
	if !ok {
		return nil, nil
	}

	return &e, nil
}

func (r *fakeRepo) Save(_ context.Context, e *filing.Entry) (*filing.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return nil, r.saveErr
	}

	r.saves++
	r.entries[e.ID] = *e
	saved := *e

	return &saved, nil
}

func (r *fakeRepo) get(id string) filing.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.entries[id]
}

type fakeValidator struct {
	code   int
	status *validator.Status
	err    error
}

func (f *fakeValidator) GetStatus(_ context.Context, _ string) (int, *validator.Status, error) {
	return f.code, f.status, f.err
}

type fakeTransactions struct {
	mu        sync.Mutex
	getCode   int
	tx        *filing.Transaction
	getErr    error
	patchCode int
	patchErr  error
	patched   []filing.Transaction
}

func (f *fakeTransactions) Get(_ context.Context, _ string) (int, *filing.Transaction, error) {
	return f.getCode, f.tx, f.getErr
}

func (f *fakeTransactions) Patch(_ context.Context, tx *filing.Transaction) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.patched = append(f.patched, *tx)

	return f.patchCode, f.patchErr
}

const (
	testTxID    = "123456-123456-123456"
	otherTxID   = "654321-654321-654321"
	testEntryID = "d3b5a0e4-2c4e-4d7b-9c61-0f0e6c1f8d10"
	testFileID  = "5b0c6e2a-9f1d-4a63-8c2e-7d4f1a9b3e21"
)

func ptr[T any](v T) *T {
	return &v
}

func completeEntry() filing.Entry {
	return filing.Entry{
		ID:            testEntryID,
		TransactionID: testTxID,
		CompanyNumber: "01234567",
		CompanyName:   "ACME LTD",
		FileID:        ptr(testFileID),
		AccountsType:  filing.AccountsType("01"),
		PackageType:   ptr(filing.PackageTypeCIC),
		MadeUpDate:    ptr("2023-12-31"),
	}
}

func successfulStatus() *validator.Status {
	return &validator.Status{
		FileID:   testFileID,
		FileName: "accounts.zip",
		Result: validator.Result{
			ValidationStatus: validator.StatusOK,
			Data: &validator.Data{
				PeriodEndDate: ptr("2024-03-31"),
				AccountType:   "51",
			},
		},
	}
}
