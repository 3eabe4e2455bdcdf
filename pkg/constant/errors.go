package constant

import "errors"

// Business error codes. Each sentinel's message is its public code.
var (
	ErrEntryNotFound            = errors.New("AFA-0001")
	ErrTransactionNotFound      = errors.New("AFA-0002")
	ErrValidationStatusNotFound = errors.New("AFA-0003")
	ErrInvalidPathParameter     = errors.New("AFA-0004")
	ErrInvalidPackageType       = errors.New("AFA-0005")
	ErrInvalidFileID            = errors.New("AFA-0006")
	ErrInvalidRequestBody       = errors.New("AFA-0007")
	ErrEntryValidationFailed    = errors.New("AFA-0008")
	ErrMissingValidationData    = errors.New("AFA-0009")
	ErrIncompleteEntry          = errors.New("AFA-0010")
	ErrUnexpectedRemoteStatus   = errors.New("AFA-0011")
	ErrRemoteServiceFailure     = errors.New("AFA-0012")
	ErrRemoteServiceUnavailable = errors.New("AFA-0013")
	ErrInternalServer           = errors.New("AFA-0014")
	ErrFileIDMismatch           = errors.New("AFA-0015")
)
