// Package testcaller holds fixtures loaded by tests that call jsonload from
// outside the root package, the way a consuming package would.
package testcaller
