// Package errors provides error handling for artcat.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "check the mapping script path")
//
//	// Check errors
//	if errors.Is(err, errors.ErrPluginNotFound) {
//	    // handle unknown plugin
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Join         = crdb.Join
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors for the import pipeline.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrConfiguration indicates a fatal setup problem (unknown plugin,
	// unreadable mapping script, bad flag combination). A configuration
	// error aborts the run before any record is processed.
	ErrConfiguration = New("configuration error")

	// ErrPluginNotFound indicates the requested plugin name is not registered
	ErrPluginNotFound = New("plugin not found")

	// ErrDuplicatePlugin indicates a plugin name is already registered
	ErrDuplicatePlugin = New("plugin already registered")

	// ErrInvalidPlugin indicates a plugin fails its contract validation
	ErrInvalidPlugin = New("invalid plugin")

	// ErrValidation indicates a source record failed required-field or
	// coordinate-range checks. Per-record, recovered.
	ErrValidation = New("record validation failed")

	// ErrExport indicates the destination rejected a create call or the
	// call failed on the network. Per-record, recovered, never retried.
	ErrExport = New("export failed")

	// ErrDuplicateArtwork indicates the record matched an existing artwork
	// at or above the dedupe threshold. Expected outcome, not a failure.
	ErrDuplicateArtwork = New("duplicate artwork")
)

// IsConfiguration checks if an error is or wraps ErrConfiguration.
// Plugin lookup and registration failures count as configuration errors:
// they abort the run before any record is processed.
func IsConfiguration(err error) bool {
	return err != nil && IsAny(err, ErrConfiguration, ErrPluginNotFound, ErrDuplicatePlugin, ErrInvalidPlugin)
}

// IsValidation checks if an error is or wraps ErrValidation
func IsValidation(err error) bool {
	return err != nil && Is(err, ErrValidation)
}

// IsExport checks if an error is or wraps ErrExport
func IsExport(err error) bool {
	return err != nil && Is(err, ErrExport)
}

// NewConfigurationError creates a configuration error with a formatted message
func NewConfigurationError(format string, args ...interface{}) error {
	return Wrap(ErrConfiguration, Newf(format, args...).Error())
}

// WrapConfiguration wraps an error as a configuration error with context
func WrapConfiguration(err error, context string) error {
	return Wrap(Wrap(ErrConfiguration, err.Error()), context)
}
