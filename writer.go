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
	"bytes"
	"fmt"
	"time"
)

// WriterConfig holds configuration for TagWriter
type WriterConfig struct {
	// PageDelay is the settle time inserted after each successful page
	// write. Some NTAG clones drop writes issued faster than ~30ms apart.
	PageDelay time.Duration

	// VerifyWrites enables a read-back pass after the full sequence
	VerifyWrites bool
}

// DefaultWriterConfig returns the default writer configuration
func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		PageDelay:    30 * time.Millisecond,
		VerifyWrites: true,
	}
}

// TagWriter writes an NDEF URI message to a Type 2 tag page by page.
//
// A write is transactional in the abort sense: the first failed page write
// aborts the sequence and surfaces the page index in a *PageWriteError.
// Nothing is retried here; the caller owns the decision to re-run the whole
// sequence. Retries for flaky transports belong below the page contract
// (see TransportWithRetry).
type TagWriter struct {
	transport PageTransport
	config    *WriterConfig
}

// NewTagWriter creates a TagWriter for the given transport
func NewTagWriter(transport PageTransport, opts ...WriterOption) *TagWriter {
	w := &TagWriter{
		transport: transport,
		config:    DefaultWriterConfig(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteURI encodes a URL as an NDEF URI record, frames it in a TLV block
// and writes it to the tag starting at page 4, zero-padding the final page.
func (w *TagWriter) WriteURI(uri string) error {
	record, err := EncodeURIRecord(uri)
	if err != nil {
		return err
	}

	block, err := WrapMessage(record)
	if err != nil {
		return err
	}

	return w.writeBlock(block)
}

// writeBlock performs the pre-flight check and the page sequence.
func (w *TagWriter) writeBlock(block []byte) error {
	// Pre-flight: a cheap read of the first user page proves a tag is in
	// the field and answering before any page is modified.
	if _, err := w.transport.ReadPage(UserPageStart); err != nil {
		return fmt.Errorf("%w: %w", ErrTagUnresponsive, err)
	}

	page := uint8(UserPageStart)
	for i := 0; i < len(block); i += PageSize {
		if err := w.transport.WritePage(page, paddedPage(block, i)); err != nil {
			return &PageWriteError{Page: page, Err: err}
		}

		if w.config.PageDelay > 0 {
			time.Sleep(w.config.PageDelay)
		}
		page++
	}

	debugf("wrote %d bytes across %d pages", len(block), pageCount(len(block)))

	if w.config.VerifyWrites {
		return w.verifyBlock(block)
	}
	return nil
}

// verifyBlock reads the written pages back and compares them to the source.
func (w *TagWriter) verifyBlock(block []byte) error {
	page := uint8(UserPageStart)
	for i := 0; i < len(block); i += PageSize {
		data, err := w.transport.ReadPage(page)
		if err != nil {
			return fmt.Errorf("%w: read back page %d: %w", ErrWriteVerification, page, err)
		}
		if !bytes.Equal(data, paddedPage(block, i)) {
			return fmt.Errorf("%w: page %d mismatch", ErrWriteVerification, page)
		}
		page++
	}
	return nil
}

// paddedPage returns the 4-byte slice of data starting at offset,
// zero-padded when fewer than 4 bytes remain.
func paddedPage(data []byte, offset int) []byte {
	end := offset + PageSize
	if end > len(data) {
		page := make([]byte, PageSize)
		copy(page, data[offset:])
		return page
	}
	return data[offset:end]
}

// pageCount returns the number of pages needed for n bytes.
func pageCount(n int) int {
	return (n + PageSize - 1) / PageSize
}
