package filing

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one company's accounts submission as it moves through
// validation, classification and assembly.
type Entry struct {
	ID            string       `json:"id"`
	TransactionID string       `json:"transaction_id"`
	CompanyNumber string       `json:"company_number"`
	CompanyName   string       `json:"company_name"`
	FileID        *string      `json:"file_id,omitempty"`
	AccountsType  AccountsType `json:"accounts_type,omitempty"`
	PackageType   *PackageType `json:"package_type,omitempty"`
	MadeUpDate    *string      `json:"made_up_date,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewEntry creates the entry for a confirmed company with a fresh id.
func NewEntry(transactionID, companyNumber, companyName string) *Entry {
	return &Entry{
		ID:            uuid.NewString(),
		TransactionID: transactionID,
		CompanyNumber: companyNumber,
		CompanyName:   companyName,
	}
}

// BelongsTo reports whether the entry is addressable from transactionID.
func (e *Entry) BelongsTo(transactionID string) bool {
	return e != nil && e.TransactionID == transactionID
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
