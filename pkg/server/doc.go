// Package server runs the Fiber server and shuts it down gracefully.
package server
