// Package pkg holds the cross-cutting building blocks of accounts-filing-api:
// request-scoped tracking context, environment configuration, the business
// error taxonomy and the application launcher.
package pkg
