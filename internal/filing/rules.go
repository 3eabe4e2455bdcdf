package filing

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ErrorTypeValidation  = "ch:validation"
	LocationTypeJSONPath = "json-path"

	LocationPackageType  = "$.package_type"
	LocationAccountsType = "$.accounts_type"
	LocationMadeUpDate   = "$.made_up_date"
	LocationFileID       = "$.file_id"

	madeUpDateLayout  = "2006-01-02"
	unknownMadeUpDate = "UNKNOWN"
	canonicalUUIDLen  = 36
)

// FieldError is one failed check on an entry.
type FieldError struct {
	Location     string `json:"location"`
	LocationType string `json:"location_type"`
	Type         string `json:"type"`
	Message      string `json:"error"`
}

// ValidationOutcome is the result of Validate. Errors is empty, never nil, when Valid.
type ValidationOutcome struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
}

// Validate runs every check on entry and reports all failures together.
func Validate(entry Entry) ValidationOutcome {
	errs := make([]FieldError, 0, 4)

	checks := []func(Entry) *FieldError{
		checkPackageType,
		checkAccountsType,
		checkMadeUpDate,
		checkFileID,
	}

	for _, check := range checks {
		if fe := check(entry); fe != nil {
			errs = append(errs, *fe)
		}
	}

	return ValidationOutcome{Valid: len(errs) == 0, Errors: errs}
}

func fieldError(location, message string) *FieldError {
	return &FieldError{
		Location:     location,
		LocationType: LocationTypeJSONPath,
		Type:         ErrorTypeValidation,
		Message:      message,
	}
}

func checkPackageType(entry Entry) *FieldError {
	if entry.PackageType == nil || strings.TrimSpace(string(*entry.PackageType)) == "" {
		return fieldError(LocationPackageType, "package type must not be blank")
	}

	return nil
}

func checkAccountsType(entry Entry) *FieldError {
	if strings.TrimSpace(string(entry.AccountsType)) == "" {
		return fieldError(LocationAccountsType, "accounts type must not be blank")
	}

	if !entry.AccountsType.IsKnown() {
		return fieldError(LocationAccountsType, "accounts type is not a valid type")
	}

	return nil
}

func checkMadeUpDate(entry Entry) *FieldError {
	date := strings.TrimSpace(stringValue(entry.MadeUpDate))
	overseas := entry.PackageType != nil && *entry.PackageType == PackageTypeOverseas

	switch {
	case date == "" && overseas:
		return nil
	case date == "":
		return fieldError(LocationMadeUpDate, "made up date must not be blank")
	case strings.EqualFold(date, unknownMadeUpDate):
		return fieldError(LocationMadeUpDate, "made up date must not be unknown")
	case !IsValidMadeUpDate(date):
		return fieldError(LocationMadeUpDate, "made up date must be a valid date in the format yyyy-MM-dd")
	}

	return nil
}

func checkFileID(entry Entry) *FieldError {
	fileID := strings.TrimSpace(stringValue(entry.FileID))

	if fileID == "" {
		return fieldError(LocationFileID, "file id must not be blank")
	}

	if !IsValidFileID(fileID) {
		return fieldError(LocationFileID, "file id must be a valid uuid")
	}

	return nil
}

// IsValidMadeUpDate parses s strictly as yyyy-MM-dd. Out of range days are
// rejected rather than rolled over.
func IsValidMadeUpDate(s string) bool {
	_, err := time.Parse(madeUpDateLayout, s)

	return err == nil
}

// IsValidFileID accepts only the canonical hyphenated 36 character UUID form.
func IsValidFileID(s string) bool {
	if len(s) != canonicalUUIDLen {
		return false
	}

	_, err := uuid.Parse(s)

	return err == nil
}
