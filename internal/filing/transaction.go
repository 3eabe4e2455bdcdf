package filing

import "time"

// Transaction is the view of a remote transaction this service edits.
type Transaction struct {
	ID            string              `json:"id"`
	CompanyNumber string              `json:"company_number,omitempty"`
	CompanyName   string              `json:"company_name,omitempty"`
	Status        string              `json:"status,omitempty"`
	Resources     map[string]Resource `json:"resources,omitempty"`
}

// Resource is one entry of a transaction's resource map.
type Resource struct {
	Kind      string            `json:"kind"`
	Links     map[string]string `json:"links"`
	UpdatedAt time.Time         `json:"updated_at"`
}
