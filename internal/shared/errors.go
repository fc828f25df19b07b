// Package shared provides common utilities used across the codebase.
//
//nolint:revive // "shared" is an intentional package name for cross-cutting helpers.
package shared

import "errors"

// ErrInvalidArgument marks input that a pure computation rejects outright:
// a negative staircase height, an unknown policy name, a malformed move.
// Callers wrap it with context and match it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// IsInvalidArgument reports whether err carries ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
