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

// Package uart provides a serial page transport. The reader bridge on the
// other end of the port forwards raw Type 2 commands to the tag and relays
// the replies unframed.
package uart

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	linkfob "github.com/LinkFobProject/go-linkfob"
)

const (
	// Type 2 tag command set forwarded by the bridge.
	cmdRead  = 0x30 // returns 16 bytes: four pages starting at the index
	cmdWrite = 0xA2 // writes 4 bytes, bridge replies with one ACK byte
	cmdProbe = 0x26 // REQA, bridge replies with 2-byte ATQA if a tag answers

	ackByte = 0x0A

	readReplyLen  = 16
	probeReplyLen = 2

	defaultBaudRate = 115200
	defaultTimeout  = 500 * time.Millisecond
)

// serialPort is the slice of serial.Port this transport needs. Tests
// substitute an in-memory implementation.
type serialPort interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Transport implements linkfob.PageTransport over a serial reader bridge
type Transport struct {
	port     serialPort
	portName string
	timeout  time.Duration
}

// New creates a new UART transport on the named serial port
func New(portName string) (*Transport, error) {
	mode := &serial.Mode{BaudRate: defaultBaudRate}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	transport := newWithPort(port, portName)
	if err := port.SetReadTimeout(transport.timeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", portName, err)
	}

	return transport, nil
}

func newWithPort(port serialPort, portName string) *Transport {
	return &Transport{
		port:     port,
		portName: portName,
		timeout:  defaultTimeout,
	}
}

// ReadPage reads the 4-byte page at the given index. The bridge returns 16
// bytes per read command; only the first page of the reply is kept.
func (t *Transport) ReadPage(page uint8) ([]byte, error) {
	if t.port == nil {
		return nil, linkfob.ErrNotConnected
	}

	if err := t.send([]byte{cmdRead, page}); err != nil {
		return nil, linkfob.NewTransportError("ReadPage", t.portName, err, linkfob.ErrorTypeTransient)
	}

	reply := make([]byte, readReplyLen)
	if err := t.receive(reply); err != nil {
		return nil, linkfob.NewTransportError("ReadPage", t.portName, err, linkfob.GetErrorType(err))
	}

	return reply[:linkfob.PageSize], nil
}

// WritePage writes exactly 4 bytes to the page at the given index
func (t *Transport) WritePage(page uint8, data []byte) error {
	if t.port == nil {
		return linkfob.ErrNotConnected
	}
	if len(data) != linkfob.PageSize {
		return linkfob.ErrInvalidPageSize
	}

	cmd := make([]byte, 0, 2+linkfob.PageSize)
	cmd = append(cmd, cmdWrite, page)
	cmd = append(cmd, data...)
	if err := t.send(cmd); err != nil {
		return linkfob.NewTransportError("WritePage", t.portName, err, linkfob.ErrorTypeTransient)
	}

	reply := make([]byte, 1)
	if err := t.receive(reply); err != nil {
		return linkfob.NewTransportError("WritePage", t.portName, err, linkfob.GetErrorType(err))
	}
	if reply[0] != ackByte {
		return linkfob.NewTransportError("WritePage", t.portName,
			fmt.Errorf("tag nak 0x%02X: %w", reply[0], linkfob.ErrTransportWrite),
			linkfob.ErrorTypeTransient)
	}

	return nil
}

// DetectTag sends a REQA and reports whether a tag answered within the
// timeout. A quiet field is absence, not an error.
func (t *Transport) DetectTag(timeout time.Duration) (bool, error) {
	if t.port == nil {
		return false, linkfob.ErrNotConnected
	}

	if err := t.port.SetReadTimeout(timeout); err != nil {
		return false, fmt.Errorf("failed to set probe timeout: %w", err)
	}
	defer func() { _ = t.port.SetReadTimeout(t.timeout) }()

	if err := t.send([]byte{cmdProbe}); err != nil {
		return false, linkfob.NewTransportError("DetectTag", t.portName, err, linkfob.ErrorTypeTransient)
	}

	atqa := make([]byte, probeReplyLen)
	filled := 0
	for filled < probeReplyLen {
		n, err := t.port.Read(atqa[filled:])
		if err != nil {
			return false, fmt.Errorf("serial read failed: %w", err)
		}
		if n == 0 {
			// Timed out with a quiet field
			return false, nil
		}
		filled += n
	}
	return true, nil
}

func (t *Transport) send(cmd []byte) error {
	n, err := t.port.Write(cmd)
	if err != nil {
		return fmt.Errorf("serial write failed: %w", err)
	}
	if n != len(cmd) {
		return fmt.Errorf("serial short write %d/%d: %w", n, len(cmd), linkfob.ErrTransportWrite)
	}
	return nil
}

// receive fills buf from the port or fails on timeout. go.bug.st/serial
// returns a zero-length read once the read timeout expires.
func (t *Transport) receive(buf []byte) error {
	filled := 0
	for filled < len(buf) {
		n, err := t.port.Read(buf[filled:])
		if err != nil {
			return fmt.Errorf("serial read failed: %w", err)
		}
		if n == 0 {
			return linkfob.ErrTransportTimeout
		}
		filled += n
	}
	return nil
}

// SetTimeout sets the per-operation timeout for the transport
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.timeout = timeout
	if t.port == nil {
		return nil
	}
	if err := t.port.SetReadTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set read timeout: %w", err)
	}
	return nil
}

// Close closes the transport connection
func (t *Transport) Close() error {
	if t.port == nil {
		return nil
	}
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	t.port = nil
	return nil
}

// IsConnected returns true if the transport is connected
func (t *Transport) IsConnected() bool {
	return t.port != nil
}

// Type returns the transport type
func (*Transport) Type() linkfob.TransportType {
	return linkfob.TransportUART
}

// Ensure Transport implements the page transport contract
var (
	_ linkfob.PageTransport = (*Transport)(nil)
	_ linkfob.TagDetector   = (*Transport)(nil)
)
