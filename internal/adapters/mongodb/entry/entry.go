package entry

import (
	"time"

	"github.com/LerianStudio/accounts-filing-api/internal/filing"
)

// MongoDBModel is the persisted form of a filing.Entry.
type MongoDBModel struct {
	ID            string    `bson:"_id"`
	TransactionID string    `bson:"transaction_id"`
	CompanyNumber string    `bson:"company_number"`
	CompanyName   string    `bson:"company_name"`
	FileID        *string   `bson:"file_id,omitempty"`
	AccountsType  string    `bson:"accounts_type,omitempty"`
	PackageType   *string   `bson:"package_type,omitempty"`
	MadeUpDate    *string   `bson:"made_up_date,omitempty"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

// FromEntity fills the model from e.
func (m *MongoDBModel) FromEntity(e *filing.Entry) {
	*m = MongoDBModel{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		CompanyNumber: e.CompanyNumber,
		CompanyName:   e.CompanyName,
		FileID:        e.FileID,
		AccountsType:  string(e.AccountsType),
		MadeUpDate:    e.MadeUpDate,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}

	if e.PackageType != nil {
		pt := string(*e.PackageType)
		m.PackageType = &pt
	}
}

// ToEntity converts the model back. Stored values are trusted as written.
func (m *MongoDBModel) ToEntity() *filing.Entry {
	e := &filing.Entry{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		CompanyNumber: m.CompanyNumber,
		CompanyName:   m.CompanyName,
		FileID:        m.FileID,
		AccountsType:  filing.AccountsType(m.AccountsType),
		MadeUpDate:    m.MadeUpDate,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}

	if m.PackageType != nil {
		pt := filing.PackageType(*m.PackageType)
		e.PackageType = &pt
	}

	return e
}
