// Package circuitbreaker guards calls to remote services with sony/gobreaker,
// keeping one breaker per named service.
package circuitbreaker
