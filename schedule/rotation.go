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

package schedule

import (
	"errors"
	"sync"
)

// ErrEmptyRotation indicates a rotation was created with no entries.
var ErrEmptyRotation = errors.New("rotation requires at least one entry")

// Entry is one link in the rotation: a human-readable label and the URL
// rendered and written when the entry is current.
type Entry struct {
	Label string
	URL   string
}

// Rotation cycles through a fixed list of entries. It is safe for
// concurrent use.
type Rotation struct {
	entries []Entry
	idx     int
	mu      sync.Mutex
}

// NewRotation creates a rotation over entries, starting at the first.
func NewRotation(entries []Entry) (*Rotation, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyRotation
	}
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return &Rotation{entries: copied}, nil
}

// Current returns the entry at the current position.
func (r *Rotation) Current() Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[r.idx]
}

// Advance moves to the next entry, wrapping at the end, and returns the
// entry now current.
func (r *Rotation) Advance() Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.idx = (r.idx + 1) % len(r.entries)
	return r.entries[r.idx]
}

// Len returns the number of entries in the rotation.
func (r *Rotation) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
