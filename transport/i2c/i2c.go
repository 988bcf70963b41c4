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

// Package i2c provides a page transport for I2C-wired NTAG chips such as
// the NT3H2111. The chip exposes tag memory as 16-byte I2C blocks; page
// operations are translated to block reads and read-modify-write cycles.
package i2c

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	linkfob "github.com/LinkFobProject/go-linkfob"
)

const (
	// NT3H2111 I2C address.
	ntagAddr = 0x55

	blockSize    = 16
	pagesInBlock = blockSize / linkfob.PageSize

	// Max clock frequency (400 kHz).
	maxClockFreq = 400 * physic.KiloHertz
)

// bus is the slice of i2c.Bus this transport needs. Tests substitute an
// in-memory implementation.
type bus interface {
	Tx(addr uint16, w, r []byte) error
}

// Transport implements linkfob.PageTransport over an I2C bus
type Transport struct {
	bus     bus
	busName string
	timeout time.Duration
}

// New creates a new I2C transport on the named bus
func New(busName string) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	opened, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", busName, err)
	}

	_ = opened.SetSpeed(maxClockFreq) // Ignore error, continue with default speed

	return newWithBus(opened, busName), nil
}

func newWithBus(b bus, busName string) *Transport {
	return &Transport{
		bus:     b,
		busName: busName,
		timeout: 50 * time.Millisecond,
	}
}

// ReadPage reads the 4-byte page at the given index
func (t *Transport) ReadPage(page uint8) ([]byte, error) {
	if t.bus == nil {
		return nil, linkfob.ErrNotConnected
	}

	block, err := t.readBlock(page / pagesInBlock)
	if err != nil {
		return nil, linkfob.NewTransportError("ReadPage", t.busName, err, linkfob.ErrorTypeTransient)
	}

	offset := int(page%pagesInBlock) * linkfob.PageSize
	out := make([]byte, linkfob.PageSize)
	copy(out, block[offset:offset+linkfob.PageSize])
	return out, nil
}

// WritePage writes exactly 4 bytes to the page at the given index. The
// chip only accepts whole blocks, so the surrounding block is read back
// and rewritten with the page replaced.
func (t *Transport) WritePage(page uint8, data []byte) error {
	if t.bus == nil {
		return linkfob.ErrNotConnected
	}
	if len(data) != linkfob.PageSize {
		return linkfob.ErrInvalidPageSize
	}

	blockAddr := page / pagesInBlock
	block, err := t.readBlock(blockAddr)
	if err != nil {
		return linkfob.NewTransportError("WritePage", t.busName, err, linkfob.ErrorTypeTransient)
	}

	offset := int(page%pagesInBlock) * linkfob.PageSize
	copy(block[offset:offset+linkfob.PageSize], data)

	frame := make([]byte, 0, 1+blockSize)
	frame = append(frame, blockAddr)
	frame = append(frame, block...)
	if err := t.bus.Tx(ntagAddr, frame, nil); err != nil {
		return linkfob.NewTransportError("WritePage", t.busName,
			fmt.Errorf("i2c block write failed: %w", err), linkfob.ErrorTypeTransient)
	}

	// EEPROM programming time per block, NT3H2111 datasheet gives 4ms
	time.Sleep(5 * time.Millisecond)

	return nil
}

func (t *Transport) readBlock(blockAddr uint8) ([]byte, error) {
	block := make([]byte, blockSize)
	if err := t.bus.Tx(ntagAddr, []byte{blockAddr}, block); err != nil {
		return nil, fmt.Errorf("i2c block read failed: %w", err)
	}
	return block, nil
}

// DetectTag reports whether the chip answers on the bus. A wired chip is
// either present or the bus transaction fails, so the probe is a single
// block read.
func (t *Transport) DetectTag(_ time.Duration) (bool, error) {
	if t.bus == nil {
		return false, linkfob.ErrNotConnected
	}
	if _, err := t.readBlock(0); err != nil {
		return false, nil
	}
	return true, nil
}

// SetTimeout sets the per-operation timeout for the transport
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.timeout = timeout
	return nil
}

// Close closes the transport connection
func (t *Transport) Close() error {
	// periph.io handles bus cleanup automatically
	t.bus = nil
	return nil
}

// IsConnected returns true if the transport is connected
func (t *Transport) IsConnected() bool {
	return t.bus != nil
}

// Type returns the transport type
func (*Transport) Type() linkfob.TransportType {
	return linkfob.TransportI2C
}

// Ensure Transport implements the page transport contract
var (
	_ linkfob.PageTransport = (*Transport)(nil)
	_ linkfob.TagDetector   = (*Transport)(nil)
)

// ensure i2c.Bus satisfies the narrowed bus interface
var _ bus = (i2c.Bus)(nil)
