package pkg

import (
	"errors"
	"fmt"

	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
)

// EntityNotFoundError reports an entity or remote resource that is absent, or
// that is not addressable from the caller's transaction.
type EntityNotFoundError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"-"`
}

func (e EntityNotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.EntityType != "" {
		return fmt.Sprintf("%s not found", e.EntityType)
	}

	return "entity not found"
}

func (e EntityNotFoundError) Unwrap() error {
	return e.Err
}

// ValidationError reports malformed input rejected before any remote call,
// such as a bad identifier or an unknown package type.
type ValidationError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"-"`
}

func (e ValidationError) Error() string {
	return e.Message
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// ValidationKnownFieldsError carries the complete list of field errors found
// on an entity. It is never returned with a partial list.
type ValidationKnownFieldsError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Fields     any    `json:"fields,omitempty"`
}

func (e ValidationKnownFieldsError) Error() string {
	return e.Message
}

// ResponseError reports a remote service answering with a status outside the
// set the call expects.
type ResponseError struct {
	Service        string `json:"service"`
	Operation      string `json:"operation"`
	ResourceID     string `json:"resourceId,omitempty"`
	ExpectedStatus int    `json:"expectedStatus"`
	ActualStatus   int    `json:"actualStatus"`
	Code           string `json:"code,omitempty"`
	Err            error  `json:"-"`
}

func (e ResponseError) Error() string {
	return fmt.Sprintf("%s %s %s: expected status %d, got %d",
		e.Service, e.Operation, e.ResourceID, e.ExpectedStatus, e.ActualStatus)
}

func (e ResponseError) Unwrap() error {
	return e.Err
}

// ExternalServiceError is a ResponseError raised for failures the dependency
// is responsible for (5xx, transport failure, open breaker), so they can be
// alerted on separately from client-caused responses.
type ExternalServiceError struct {
	ResponseError
}

func (e ExternalServiceError) Error() string {
	return "external service failure: " + e.ResponseError.Error()
}

func (e ExternalServiceError) Unwrap() error {
	return e.ResponseError
}

// InvalidStateError reports data that contradicts what a dependency claimed,
// for example a completed validation with no result payload.
type InvalidStateError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"-"`
}

func (e InvalidStateError) Error() string {
	return e.Message
}

func (e InvalidStateError) Unwrap() error {
	return e.Err
}

// NewResponseError builds the error for an unexpected remote status. Statuses
// of 500 and above, and zero (no response at all), become ExternalServiceError.
func NewResponseError(service, operation, resourceID string, expected, actual int, cause error) error {
	if actual == 0 || actual >= 500 {
		return NewExternalServiceError(service, operation, resourceID, expected, actual, cause)
	}

	if cause == nil {
		cause = constant.ErrUnexpectedRemoteStatus
	}

	return ResponseError{
		Service:        service,
		Operation:      operation,
		ResourceID:     resourceID,
		ExpectedStatus: expected,
		ActualStatus:   actual,
		Code:           constant.ErrUnexpectedRemoteStatus.Error(),
		Err:            cause,
	}
}

// NewExternalServiceError builds an ExternalServiceError regardless of the
// status, for dependencies whose every unexpected outcome is their fault.
func NewExternalServiceError(service, operation, resourceID string, expected, actual int, cause error) error {
	if cause == nil {
		cause = constant.ErrRemoteServiceFailure
	}

	return ExternalServiceError{ResponseError: ResponseError{
		Service:        service,
		Operation:      operation,
		ResourceID:     resourceID,
		ExpectedStatus: expected,
		ActualStatus:   actual,
		Code:           constant.ErrRemoteServiceFailure.Error(),
		Err:            cause,
	}}
}

// NewServiceUnavailableError builds the ExternalServiceError of a call that
// was never sent because the service's breaker is open.
func NewServiceUnavailableError(service, operation, resourceID string, expected int, cause error) error {
	if cause == nil {
		cause = constant.ErrRemoteServiceUnavailable
	}

	return ExternalServiceError{ResponseError: ResponseError{
		Service:        service,
		Operation:      operation,
		ResourceID:     resourceID,
		ExpectedStatus: expected,
		Code:           constant.ErrRemoteServiceUnavailable.Error(),
		Err:            cause,
	}}
}

// ValidateBusinessError maps a coded sentinel from package constant to its
// typed business error. args are interpolated into the message.
func ValidateBusinessError(err error, entityType string, args ...any) error {
	switch {
	case errors.Is(err, constant.ErrEntryNotFound):
		return EntityNotFoundError{
			EntityType: entityType,
			Code:       constant.ErrEntryNotFound.Error(),
			Title:      "Accounts Filing Not Found",
			Message:    fmt.Sprintf("No accounts filing entry found with id %v.", args...),
			Err:        err,
		}
	case errors.Is(err, constant.ErrTransactionNotFound):
		return EntityNotFoundError{
			EntityType: entityType,
			Code:       constant.ErrTransactionNotFound.Error(),
			Title:      "Transaction Not Found",
			Message:    fmt.Sprintf("No transaction found with id %v.", args...),
			Err:        err,
		}
	case errors.Is(err, constant.ErrValidationStatusNotFound):
		return EntityNotFoundError{
			EntityType: entityType,
			Code:       constant.ErrValidationStatusNotFound.Error(),
			Title:      "Validation Status Not Available",
			Message:    fmt.Sprintf("The validation status for file %v is not available yet.", args...),
			Err:        err,
		}
	case errors.Is(err, constant.ErrInvalidPathParameter):
		return ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidPathParameter.Error(),
			Title:      "Invalid Path Parameter",
			Message:    fmt.Sprintf("The path parameter %v has an invalid format.", args...),
			Err:        err,
		}
	case errors.Is(err, constant.ErrInvalidPackageType):
		return ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidPackageType.Error(),
			Title:      "Invalid Package Type",
			Message:    fmt.Sprintf("%q is not a recognised package type.", args...),
			Err:        err,
		}
	case errors.Is(err, constant.ErrInvalidFileID):
		return ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidFileID.Error(),
			Title:      "Invalid File Id",
			Message:    fmt.Sprintf("%q is not a valid file id.", args...),
			Err:        err,
		}
	case errors.Is(err, constant.ErrInvalidRequestBody):
		return ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidRequestBody.Error(),
			Title:      "Invalid Request Body",
			Message:    fmt.Sprintf("The request body is invalid: %v", args...),
			Err:        err,
		}
	case errors.Is(err, constant.ErrMissingValidationData):
		return InvalidStateError{
			EntityType: entityType,
			Code:       constant.ErrMissingValidationData.Error(),
			Title:      "Missing Validation Data",
			Message:    fmt.Sprintf("The validator reported file %v as valid but returned no data.", args...),
			Err:        err,
		}
	case errors.Is(err, constant.ErrFileIDMismatch):
		return InvalidStateError{
			EntityType: entityType,
			Code:       constant.ErrFileIDMismatch.Error(),
			Title:      "File Id Mismatch",
			Message:    fmt.Sprintf("The validator answered for file %v when asked for file %v.", args...),
			Err:        err,
		}
	case errors.Is(err, constant.ErrIncompleteEntry):
		return InvalidStateError{
			EntityType: entityType,
			Code:       constant.ErrIncompleteEntry.Error(),
			Title:      "Incomplete Accounts Filing",
			Message:    fmt.Sprintf("Accounts filing %v is missing %v.", args...),
			Err:        err,
		}
	}

	return err
}
