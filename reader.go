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
	"fmt"
)

// ReaderConfig holds configuration for TagReader
type ReaderConfig struct {
	// ScanPages bounds how many pages are read looking for a TLV block
	ScanPages int
}

// DefaultReaderConfig returns the default reader configuration
func DefaultReaderConfig() *ReaderConfig {
	return &ReaderConfig{
		ScanPages: MaxScanPages,
	}
}

// TagReader recovers a URL from a Type 2 tag by streaming pages through the
// TLV scanner and decoding the framed NDEF record. It is the inverse of
// TagWriter and is what write verification and the CLI use.
type TagReader struct {
	transport PageTransport
	config    *ReaderConfig
}

// NewTagReader creates a TagReader for the given transport
func NewTagReader(transport PageTransport, opts ...ReaderOption) *TagReader {
	r := &TagReader{
		transport: transport,
		config:    DefaultReaderConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadURI reads pages from page 4 up to the scan bound, locates the NDEF
// TLV block and decodes its URI record.
//
// A blank tag returns ErrNoMessageFound, which callers should treat as a
// normal outcome rather than a failure (compare schedule's absent-tag path).
// Malformed or non-URI records propagate their decode errors.
func (r *TagReader) ReadURI() (string, error) {
	message, err := r.readMessage()
	if err != nil {
		return "", err
	}
	return DecodeURIRecord(message)
}

// readMessage drives the TLV scanner over sequential page reads.
func (r *TagReader) readMessage() ([]byte, error) {
	scanner := newTLVScanner(r.config.ScanPages * PageSize)

	page := uint8(UserPageStart)
	for i := 0; i < r.config.ScanPages; i++ {
		data, err := r.transport.ReadPage(page)
		if err != nil {
			// A read failure mid-scan means the tag left the field or
			// the memory ended; the scanner state decides whether we
			// already hold a complete message.
			if msg, resErr := scanner.result(); resErr == nil {
				return msg, nil
			}
			return nil, fmt.Errorf("%w: page %d: %w", ErrTransportRead, page, err)
		}

		if scanner.feed(data) {
			break
		}
		page++
	}

	return scanner.result()
}
