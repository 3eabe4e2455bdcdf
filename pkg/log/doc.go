// Package log defines the logging contract used across accounts-filing-api.
//
// Application code depends only on Logger and the typed Field constructors;
// the zap package provides the production backend.
package log
