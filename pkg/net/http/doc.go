// Package http provides Fiber response helpers, error rendering and
// request middleware shared by the inbound HTTP adapter.
package http
