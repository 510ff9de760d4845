// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package errs defines the ledger's rejection taxonomy. Every error here
// aborts the triggering operation with no partial effect; none is a
// process-level fault.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError rejects malformed or out-of-range input.
type ValidationError struct {
	message string
}

func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError rejects operations targeting a position id with no live record.
type NotFoundError struct {
	message string
}

func NotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{message: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string {
	return e.message
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// AuthorizationError rejects callers lacking the required role.
type AuthorizationError struct {
	message string
}

func Authorization(format string, args ...any) *AuthorizationError {
	return &AuthorizationError{message: fmt.Sprintf(format, args...)}
}

func (e *AuthorizationError) Error() string {
	return e.message
}

// IsAuthorization reports whether err is an AuthorizationError.
func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}
