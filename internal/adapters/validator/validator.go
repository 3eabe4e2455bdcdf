// Package validator is the client of the file validation service.
package validator

import (
	"context"
	"net/http"
	"net/url"

	"github.com/LerianStudio/accounts-filing-api/internal/adapters/remote"
)

// ServiceName identifies the file validator in errors, spans and breakers.
const ServiceName = "file-validator"

// StatusOK is the validation status of a file that passed validation.
const StatusOK = "OK"

// Status is the validator's report on one uploaded file.
type Status struct {
	FileID        string `json:"fileId"`
	FileName      string `json:"fileName"`
	OverallStatus string `json:"status"`
	Result        Result `json:"result"`
}

// Result carries the outcome and, once complete, the facts read from the file.
type Result struct {
	Data             *Data  `json:"data"`
	ValidationStatus string `json:"validationStatus"`
}

// Data holds what the validator read from the accounts document.
type Data struct {
	PeriodEndDate    *string `json:"periodEndDate"`
	AccountType      string  `json:"accountType"`
	RegisteredNumber string  `json:"registeredNumber"`
}

// IsSuccessful reports whether validation completed and passed.
func (s *Status) IsSuccessful() bool {
	return s != nil && s.Result.ValidationStatus == StatusOK
}

// Client fetches validation statuses.
type Client struct {
	remote *remote.Client
}

// NewClient returns a Client sending requests through rc.
func NewClient(rc *remote.Client) *Client {
	return &Client{remote: rc}
}

// GetStatus returns the HTTP status received and, when it is 200, the decoded
// body. Server errors, transport failures and an open breaker are returned
// as errors.
func (c *Client) GetStatus(ctx context.Context, fileID string) (int, *Status, error) {
	var status Status

	code, err := c.remote.Do(ctx, remote.Request{
		Method:     http.MethodGet,
		Path:       "/validate/check/" + url.PathEscape(fileID),
		Operation:  "get_validation_status",
		ResourceID: fileID,
		Expected:   http.StatusOK,
		Out:        &status,
	})
	if err != nil {
		return code, nil, err
	}

	if code != http.StatusOK {
		return code, nil, nil
	}

	return code, &status, nil
}
