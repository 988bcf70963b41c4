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

// TLV type constants per NFC Forum Type 2 Tag specification
const (
	// TLVTypeNull is a single padding byte with no length field.
	TLVTypeNull = 0x00
	// TLVTypeNDEF starts an NDEF Message TLV block.
	TLVTypeNDEF = 0x03
	// TLVTypeTerminator marks the end of the data area.
	TLVTypeTerminator = 0xFE
)

// tlvMaxMessageLen is the largest message a single-byte length field carries.
const tlvMaxMessageLen = 255

// MaxScanPages bounds how many pages the scanner consumes before concluding
// no NDEF TLV is present. It guarantees termination on corrupt tags whose
// memory never yields a start byte or a terminator.
const MaxScanPages = 128

// WrapMessage frames an NDEF record inside a Type 2 Tag TLV block:
// the NDEF tag byte, a single-byte length, the record, and a terminator.
// The output is always exactly len(record)+3 bytes.
func WrapMessage(record []byte) ([]byte, error) {
	if len(record) > tlvMaxMessageLen {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrRecordTooLarge, len(record), tlvMaxMessageLen)
	}

	block := make([]byte, 0, len(record)+3)
	block = append(block, TLVTypeNDEF, byte(len(record)))
	block = append(block, record...)
	block = append(block, TLVTypeTerminator)

	return block, nil
}

// scanState enumerates the phases of the streaming TLV scanner.
type scanState int

const (
	scanSeeking scanState = iota
	scanLength
	scanCollecting
	scanDone
)

// tlvScanner unwraps an NDEF Message TLV from tag memory delivered one page
// at a time, so a reader never has to buffer a whole tag up front.
//
// The scan is deliberately lenient: every byte before the first 0x03 is
// skipped, whether it is a NULL TLV or junk. Tags in the field carry all
// kinds of leading padding and a strict TLV walk would reject many of them.
type tlvScanner struct {
	message   []byte
	remaining int
	bytesRead int
	state     scanState
}

// newTLVScanner returns a scanner limited to maxBytes of input.
func newTLVScanner(maxBytes int) *tlvScanner {
	return &tlvScanner{state: scanSeeking, remaining: maxBytes}
}

// feed consumes one page of tag memory. It returns true once the full
// message has been collected; further pages need not be read.
func (s *tlvScanner) feed(page []byte) bool {
	for _, b := range page {
		if s.state == scanDone || s.remaining <= 0 {
			return s.state == scanDone
		}
		s.remaining--
		s.consume(b)
	}
	return s.state == scanDone
}

// consume advances the state machine by one byte.
func (s *tlvScanner) consume(b byte) {
	switch s.state {
	case scanSeeking:
		if b == TLVTypeNDEF {
			s.state = scanLength
		}
	case scanLength:
		s.bytesRead = int(b)
		if s.bytesRead == 0 {
			// Empty NDEF TLV, nothing to collect.
			s.state = scanDone
			return
		}
		s.message = make([]byte, 0, s.bytesRead)
		s.state = scanCollecting
	case scanCollecting:
		s.message = append(s.message, b)
		if len(s.message) == s.bytesRead {
			s.state = scanDone
		}
	case scanDone:
	}
}

// result returns the collected message once feeding has stopped.
// ErrNoMessageFound means no TLV start byte appeared within the scan bound;
// ErrMessageTruncated means a header was found but the stream ended before
// the announced length was collected.
func (s *tlvScanner) result() ([]byte, error) {
	switch s.state {
	case scanDone:
		if len(s.message) == 0 {
			return nil, ErrNoMessageFound
		}
		return s.message, nil
	case scanSeeking:
		return nil, ErrNoMessageFound
	case scanLength, scanCollecting:
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrMessageTruncated, len(s.message), s.bytesRead)
	default:
		return nil, ErrNoMessageFound
	}
}
