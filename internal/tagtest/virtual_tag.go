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

// Package tagtest provides a simulated Type 2 tag with page-level memory
// semantics for testing transports and higher layers without hardware.
package tagtest

import (
	"fmt"
	"sync"
)

const (
	pageSize = 4
	// NTAG213 layout: 45 pages, pages 0-3 hold UID, lock bytes and the
	// capability container.
	pageCount     = 45
	userPageStart = 4
)

// DefaultUID is the UID used when none is given.
var DefaultUID = []byte{0x04, 0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC}

// VirtualTag simulates a Type 2 tag's page memory. Pages 0-3 are populated
// with a plausible UID area and capability container and are write
// protected, matching real NTAG behavior.
type VirtualTag struct {
	uid     []byte
	memory  [pageCount][]byte
	present bool
	mu      sync.Mutex
}

// NewVirtualTag creates a present virtual tag with blank user memory.
func NewVirtualTag(uid []byte) *VirtualTag {
	if uid == nil {
		uid = DefaultUID
	}
	tag := &VirtualTag{uid: uid, present: true}
	tag.initSystemPages()
	return tag
}

func (v *VirtualTag) initSystemPages() {
	// Pages 0-1: 7-byte UID plus check bytes. The exact check byte values
	// do not matter here; the pages only need to be non-zero and stable.
	v.memory[0] = []byte{v.uid[0], v.uid[1], v.uid[2], 0x88}
	v.memory[1] = []byte{v.uid[3], v.uid[4], v.uid[5], v.uid[6]}
	// Page 2: check byte, internal, lock bytes
	v.memory[2] = []byte{0x42, 0x48, 0x00, 0x00}
	// Page 3: capability container for a 144-byte NDEF area
	v.memory[3] = []byte{0xE1, 0x10, 0x12, 0x00}
}

// UID returns the tag UID.
func (v *VirtualTag) UID() []byte {
	out := make([]byte, len(v.uid))
	copy(out, v.uid)
	return out
}

// Present reports whether the tag is in the field.
func (v *VirtualTag) Present() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.present
}

// Remove takes the tag out of the field.
func (v *VirtualTag) Remove() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.present = false
}

// Insert puts the tag back into the field.
func (v *VirtualTag) Insert() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.present = true
}

// ReadPage returns a copy of the 4 bytes at page. Uninitialized pages read
// as zeros.
func (v *VirtualTag) ReadPage(page uint8) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.present {
		return nil, fmt.Errorf("virtual tag: not present")
	}
	if int(page) >= pageCount {
		return nil, fmt.Errorf("virtual tag: page %d out of range", page)
	}
	if v.memory[page] == nil {
		return make([]byte, pageSize), nil
	}
	out := make([]byte, pageSize)
	copy(out, v.memory[page])
	return out, nil
}

// WritePage stores 4 bytes at page. System pages 0-3 reject writes.
func (v *VirtualTag) WritePage(page uint8, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.present {
		return fmt.Errorf("virtual tag: not present")
	}
	if int(page) >= pageCount {
		return fmt.Errorf("virtual tag: page %d out of range", page)
	}
	if page < userPageStart {
		return fmt.Errorf("virtual tag: page %d is write protected", page)
	}
	if len(data) != pageSize {
		return fmt.Errorf("virtual tag: data must be %d bytes, got %d", pageSize, len(data))
	}
	stored := make([]byte, pageSize)
	copy(stored, data)
	v.memory[page] = stored
	return nil
}

// UserMemory returns a copy of the user area as one flat byte slice.
func (v *VirtualTag) UserMemory() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]byte, 0, (pageCount-userPageStart)*pageSize)
	for page := userPageStart; page < pageCount; page++ {
		if v.memory[page] == nil {
			out = append(out, make([]byte, pageSize)...)
			continue
		}
		out = append(out, v.memory[page]...)
	}
	return out
}
