// Package utils provides shared, domain-free helpers (error wrapping, env
// lookups) used by the ledger node's config loader and its cmd/ entrypoints.
package utils

import "fmt"

// Wrap adds context to an error message. It returns nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a printf-style message, for callers building context
// from a runtime value (e.g. pkg/config's per-environment overlay name)
// instead of a fixed string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
