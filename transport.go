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
	"context"
	"fmt"
	"time"
)

// PageSize is the fixed Type 2 Tag page size in bytes.
const PageSize = 4

// UserPageStart is the first page of tag user memory. Pages 0-3 hold the
// UID, lock bytes and capability container; this package never addresses
// them.
const UserPageStart = 4

// PageTransport moves fixed 4-byte pages between the fob and a tag.
// Implementations wrap the actual radio: a serial reader bridge, an I2C
// front-end, or an in-memory tag for tests. Every call must enforce its own
// upper time bound; the core never free-runs an unbounded read or write.
type PageTransport interface {
	// ReadPage reads the 4-byte page at the given index
	ReadPage(page uint8) ([]byte, error)

	// WritePage writes exactly 4 bytes to the page at the given index
	WritePage(page uint8, data []byte) error

	// Close closes the transport connection
	Close() error

	// SetTimeout sets the per-operation timeout for the transport
	SetTimeout(timeout time.Duration) error

	// IsConnected returns true if the transport is connected
	IsConnected() bool

	// Type returns the transport type
	Type() TransportType
}

// TagDetector is an optional capability of a PageTransport: a bounded,
// non-blocking check for tag presence. Transports that cannot probe without
// a page read simply don't implement it and callers fall back to treating a
// failed pre-flight read as absence.
type TagDetector interface {
	// DetectTag reports whether a tag is in the field, returning within
	// the given timeout
	DetectTag(timeout time.Duration) (bool, error)
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents a serial reader bridge.
	TransportUART TransportType = "uart"
	// TransportI2C represents an I2C bus transport.
	TransportI2C TransportType = "i2c"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// TransportWithRetry wraps a PageTransport with retry logic for transient
// failures. Retries live below the page contract: TagWriter still sees each
// page write succeed or fail exactly once and never re-runs a sequence
// itself.
type TransportWithRetry struct {
	transport PageTransport
	config    *RetryConfig
}

// NewTransportWithRetry creates a new transport wrapper with retry logic
func NewTransportWithRetry(transport PageTransport, config *RetryConfig) *TransportWithRetry {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &TransportWithRetry{
		transport: transport,
		config:    config,
	}
}

// ReadPage reads a page with retry on transient errors
func (t *TransportWithRetry) ReadPage(page uint8) ([]byte, error) {
	var result []byte
	err := RetryWithConfig(context.Background(), t.config, func() error {
		var err error
		result, err = t.transport.ReadPage(page)
		if err != nil {
			return &TransportError{
				Op:        "ReadPage",
				Err:       err,
				Type:      GetErrorType(err),
				Retryable: IsRetryable(err),
			}
		}
		return nil
	})
	return result, err
}

// WritePage writes a page with retry on transient errors
func (t *TransportWithRetry) WritePage(page uint8, data []byte) error {
	return RetryWithConfig(context.Background(), t.config, func() error {
		if err := t.transport.WritePage(page, data); err != nil {
			return &TransportError{
				Op:        "WritePage",
				Err:       err,
				Type:      GetErrorType(err),
				Retryable: IsRetryable(err),
			}
		}
		return nil
	})
}

// DetectTag forwards presence probing to the underlying transport when it
// has the capability
func (t *TransportWithRetry) DetectTag(timeout time.Duration) (bool, error) {
	if detector, ok := t.transport.(TagDetector); ok {
		return detector.DetectTag(timeout)
	}
	return false, ErrNotConnected
}

// Close closes the transport connection
func (t *TransportWithRetry) Close() error {
	if err := t.transport.Close(); err != nil {
		return fmt.Errorf("failed to close underlying transport: %w", err)
	}
	return nil
}

// SetTimeout sets the per-operation timeout for the transport
func (t *TransportWithRetry) SetTimeout(timeout time.Duration) error {
	if err := t.transport.SetTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set timeout on underlying transport: %w", err)
	}
	return nil
}

// IsConnected returns true if the transport is connected
func (t *TransportWithRetry) IsConnected() bool {
	return t.transport.IsConnected()
}

// Type returns the transport type
func (t *TransportWithRetry) Type() TransportType {
	return t.transport.Type()
}

// SetRetryConfig updates the retry configuration
func (t *TransportWithRetry) SetRetryConfig(config *RetryConfig) {
	t.config = config
}
