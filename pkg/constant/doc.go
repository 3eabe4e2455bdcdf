// Package constant holds shared error codes, header names and telemetry keys.
package constant
