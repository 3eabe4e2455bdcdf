// Package opentelemetry wires OTLP exporters and offers span and propagation helpers.
package opentelemetry
