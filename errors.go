// go-linkfob
// Copyright (c) 2025 The LinkFob Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-linkfob.
//
// go-linkfob is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-linkfob is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-linkfob; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package linkfob

import (
	"errors"
	"fmt"
)

// Codec and framer errors
var (
	// ErrURITooLong indicates the URL exceeds the defensive MaxURILength cap.
	ErrURITooLong = errors.New("uri exceeds maximum length")

	// ErrRecordTooLarge indicates an NDEF record does not fit a single-byte
	// TLV length field. Unreachable for records built by EncodeURIRecord
	// given the URL cap; treated as an internal invariant violation.
	ErrRecordTooLarge = errors.New("ndef record too large for type 2 tlv")

	// ErrRecordMalformed indicates record bytes too short or truncated.
	ErrRecordMalformed = errors.New("malformed ndef record")

	// ErrUnsupportedRecordType indicates the record is not a URI record.
	ErrUnsupportedRecordType = errors.New("unsupported ndef record type")

	// ErrNoMessageFound indicates no NDEF TLV start byte was seen within the
	// scan bound, or the TLV carried an empty message. This is the normal
	// result for a blank tag, not an error condition.
	ErrNoMessageFound = errors.New("no ndef message found on tag")

	// ErrMessageTruncated indicates the tag memory ended before the length
	// announced by the TLV header was collected.
	ErrMessageTruncated = errors.New("truncated tlv block")
)

// Tag operation errors
var (
	// ErrTagUnresponsive indicates the pre-flight read before a write
	// sequence failed; no write was attempted.
	ErrTagUnresponsive = errors.New("tag unresponsive")

	// ErrWriteVerification indicates read-back after a write did not match
	// the written bytes.
	ErrWriteVerification = errors.New("write verification failed")

	// ErrReservedPage indicates an attempt to address pages 0-3.
	ErrReservedPage = errors.New("page is reserved for tag system data")

	// ErrInvalidPageSize indicates page data was not exactly 4 bytes.
	ErrInvalidPageSize = errors.New("page data must be exactly 4 bytes")
)

// Transport errors
var (
	ErrTransportRead    = errors.New("transport read failed")
	ErrTransportWrite   = errors.New("transport write failed")
	ErrTransportTimeout = errors.New("transport timeout")
	ErrNotConnected     = errors.New("transport not connected")
)

// ErrorType classifies transport errors for retry decisions
type ErrorType int

const (
	// ErrorTypePermanent indicates an error that will not resolve by retrying.
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient indicates an error that may resolve by retrying.
	ErrorTypeTransient
	// ErrorTypeTimeout indicates the operation exceeded its time bound.
	ErrorTypeTimeout
)

// TransportError wraps a transport failure with operation context
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError with retryability derived from
// the error type
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient || errType == ErrorTypeTimeout,
	}
}

// NewTimeoutError creates a TransportError for an operation timeout
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportTimeout, ErrorTypeTimeout)
}

// PageWriteError reports the page index at which a write sequence failed.
// The pages before Page were written; the caller decides whether to retry
// the whole sequence.
type PageWriteError struct {
	Err  error
	Page uint8
}

// Error implements the error interface
func (e *PageWriteError) Error() string {
	return fmt.Sprintf("write failed at page %d: %v", e.Page, e.Err)
}

// Unwrap returns the underlying error
func (e *PageWriteError) Unwrap() error {
	return e.Err
}

// GetErrorType returns the classification of err
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, ErrTransportTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrTransportRead), errors.Is(err, ErrTransportWrite):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}

// IsRetryable returns true if the operation that produced err is worth
// retrying. A TransportError's explicit Retryable flag wins over the
// classification of its underlying error.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	switch {
	case errors.Is(err, ErrTransportTimeout),
		errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite):
		return true
	default:
		return false
	}
}
