// Package filing holds the accounts filing entry, its classifications and
// the rules that decide whether an entry is ready to be submitted.
package filing
