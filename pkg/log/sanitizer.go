package log

import "fmt"

// SanitizeExternalResponse describes a dependency failure without echoing the
// dependency's response body, which may carry company data.
func SanitizeExternalResponse(service string, statusCode int) string {
	return fmt.Sprintf("%s returned status %d", service, statusCode)
}
