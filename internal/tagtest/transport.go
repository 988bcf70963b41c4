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

package tagtest

import (
	"time"

	linkfob "github.com/LinkFobProject/go-linkfob"
)

// Transport exposes a VirtualTag through the page transport contract so
// readers, writers and the scheduler can be driven against simulated
// hardware.
type Transport struct {
	tag    *VirtualTag
	closed bool
}

// NewTransport creates a transport over tag. A nil tag gets a fresh blank
// virtual tag.
func NewTransport(tag *VirtualTag) *Transport {
	if tag == nil {
		tag = NewVirtualTag(nil)
	}
	return &Transport{tag: tag}
}

// Tag returns the underlying virtual tag for test assertions.
func (t *Transport) Tag() *VirtualTag {
	return t.tag
}

// ReadPage implements linkfob.PageTransport
func (t *Transport) ReadPage(page uint8) ([]byte, error) {
	if t.closed {
		return nil, linkfob.ErrNotConnected
	}
	data, err := t.tag.ReadPage(page)
	if err != nil {
		return nil, linkfob.NewTransportError("ReadPage", "virtual", err, linkfob.ErrorTypeTransient)
	}
	return data, nil
}

// WritePage implements linkfob.PageTransport
func (t *Transport) WritePage(page uint8, data []byte) error {
	if t.closed {
		return linkfob.ErrNotConnected
	}
	if err := t.tag.WritePage(page, data); err != nil {
		return linkfob.NewTransportError("WritePage", "virtual", err, linkfob.ErrorTypePermanent)
	}
	return nil
}

// DetectTag implements linkfob.TagDetector
func (t *Transport) DetectTag(_ time.Duration) (bool, error) {
	if t.closed {
		return false, linkfob.ErrNotConnected
	}
	return t.tag.Present(), nil
}

// Close implements linkfob.PageTransport
func (t *Transport) Close() error {
	t.closed = true
	return nil
}

// SetTimeout implements linkfob.PageTransport
func (*Transport) SetTimeout(_ time.Duration) error {
	return nil
}

// IsConnected implements linkfob.PageTransport
func (t *Transport) IsConnected() bool {
	return !t.closed
}

// Type implements linkfob.PageTransport
func (*Transport) Type() linkfob.TransportType {
	return linkfob.TransportMock
}
