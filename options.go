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
	"time"
)

// WriterOption is a functional option for configuring a TagWriter
type WriterOption func(*TagWriter)

// WithPageDelay sets the settle delay inserted after each page write
func WithPageDelay(delay time.Duration) WriterOption {
	return func(w *TagWriter) {
		w.config.PageDelay = delay
	}
}

// WithWriteVerification toggles the read-back pass after a write sequence
func WithWriteVerification(enabled bool) WriterOption {
	return func(w *TagWriter) {
		w.config.VerifyWrites = enabled
	}
}

// WithWriterConfig replaces the whole writer configuration
func WithWriterConfig(config *WriterConfig) WriterOption {
	return func(w *TagWriter) {
		if config != nil {
			w.config = config
		}
	}
}

// ReaderOption is a functional option for configuring a TagReader
type ReaderOption func(*TagReader)

// WithScanPages bounds how many pages the reader scans for a TLV block
func WithScanPages(pages int) ReaderOption {
	return func(r *TagReader) {
		if pages > 0 && pages <= MaxScanPages {
			r.config.ScanPages = pages
		}
	}
}
