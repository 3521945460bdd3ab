// Package utils holds small process-level helpers: panic recovery for
// background goroutines.
package utils
