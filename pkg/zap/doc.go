// Package zap implements pkg/log.Logger on top of go.uber.org/zap.
package zap
