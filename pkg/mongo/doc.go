// Package mongo wraps the MongoDB driver client with configuration checks,
// tracing and index helpers.
package mongo
