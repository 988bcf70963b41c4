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
	"sync"
	"time"
)

// MockPageTransport is an in-memory PageTransport for tests. It records
// every page write in order and supports per-page error injection and a
// removable tag presence flag.
type MockPageTransport struct {
	ReadErrors  map[uint8]error
	WriteErrors map[uint8]error
	pages       map[uint8][]byte
	WriteLog    []uint8
	Present     bool
	closed      bool
	mu          sync.Mutex
}

// NewMockPageTransport creates a mock transport holding a present, blank tag
func NewMockPageTransport() *MockPageTransport {
	return &MockPageTransport{
		pages:       make(map[uint8][]byte),
		ReadErrors:  make(map[uint8]error),
		WriteErrors: make(map[uint8]error),
		Present:     true,
	}
}

// LoadPages seeds tag memory starting at the given page
func (m *MockPageTransport) LoadPages(start uint8, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page := start
	for i := 0; i < len(data); i += PageSize {
		buf := make([]byte, PageSize)
		copy(buf, data[i:])
		m.pages[page] = buf
		page++
	}
}

// PageData returns a copy of the bytes stored at the given page
func (m *MockPageTransport) PageData(page uint8) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.pages[page]
	if !ok {
		return make([]byte, PageSize)
	}
	out := make([]byte, PageSize)
	copy(out, data)
	return out
}

// ReadPage implements PageTransport
func (m *MockPageTransport) ReadPage(page uint8) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || !m.Present {
		return nil, ErrTransportRead
	}
	if err, ok := m.ReadErrors[page]; ok {
		return nil, err
	}

	data, ok := m.pages[page]
	if !ok {
		return make([]byte, PageSize), nil
	}
	out := make([]byte, PageSize)
	copy(out, data)
	return out, nil
}

// WritePage implements PageTransport
func (m *MockPageTransport) WritePage(page uint8, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || !m.Present {
		return ErrTransportWrite
	}
	if len(data) != PageSize {
		return ErrInvalidPageSize
	}
	if err, ok := m.WriteErrors[page]; ok {
		return err
	}

	buf := make([]byte, PageSize)
	copy(buf, data)
	m.pages[page] = buf
	m.WriteLog = append(m.WriteLog, page)
	return nil
}

// DetectTag implements TagDetector
func (m *MockPageTransport) DetectTag(_ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, ErrNotConnected
	}
	return m.Present, nil
}

// Remove marks the tag as out of the field
func (m *MockPageTransport) Remove() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Present = false
}

// Insert marks the tag as present
func (m *MockPageTransport) Insert() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Present = true
}

// Close implements PageTransport
func (m *MockPageTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetTimeout implements PageTransport
func (*MockPageTransport) SetTimeout(_ time.Duration) error {
	return nil
}

// IsConnected implements PageTransport
func (m *MockPageTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Type returns TransportMock
func (*MockPageTransport) Type() TransportType {
	return TransportMock
}
