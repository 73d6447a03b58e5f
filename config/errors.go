// SPDX-License-Identifier: MIT
// Package: lfalab/config
//
// errors.go — sentinel errors for the config package.
//
// Error policy:
//   • Every validation failure wraps ErrInvalidConfig with the offending
//     field path, so errors.Is(err, ErrInvalidConfig) holds for each of them.
//   • Validate reports all failures at once; use multierr.Errors to list them.

package config

import "errors"

// ErrInvalidConfig indicates an analysis description that cannot be turned
// into operators (unknown names, missing or out of range values).
var ErrInvalidConfig = errors.New("config: invalid analysis description")
