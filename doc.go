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

/*
Package linkfob implements the tag side of the LinkFob keychain: encoding a
profile URL as an NDEF URI record, framing it in a Type 2 Tag TLV block, and
moving the result to and from NTAG-family tag memory four bytes at a time.

The keychain rotates through a configured list of (label, URL) entries,
refreshing its e-paper QR code and rewriting any tag held against the reader.
QR rendering and the radio that carries bytes to a physical tag are outside
this package; both are consumed through narrow interfaces (a render callback
in package schedule, and PageTransport here).

Basic Usage:

	import (
	    "github.com/LinkFobProject/go-linkfob"
	    "github.com/LinkFobProject/go-linkfob/transport/uart"
	)

	// Open a serial bridge to the tag reader
	transport, err := uart.New("/dev/ttyUSB0")
	if err != nil {
	    log.Fatal(err)
	}
	defer transport.Close()

	// Write a URL to a tag
	writer := linkfob.NewTagWriter(transport)
	if err := writer.WriteURI("https://linkfob.dev/p/alice"); err != nil {
	    log.Fatal(err)
	}

	// Read it back
	reader := linkfob.NewTagReader(transport)
	url, err := reader.ReadURI()
	if errors.Is(err, linkfob.ErrNoMessageFound) {
	    fmt.Println("tag is empty")
	}

Wire Format:

Records are written starting at tag page 4 (pages 0-3 hold the UID, lock
bytes and capability container and are never touched):

	[0x03][len][0xD1][0x01][payload_len][0x55][id][url bytes...][0xFE]

The encoder always stores the full URL with identifier code 0x00, trading a
few bytes of tag memory for a byte-stable wire image. The decoder accepts the
compact identifier codes 0x01-0x04 produced by other writers.

Error Handling:

All operations return errors that can be inspected with errors.Is:

	if errors.Is(err, linkfob.ErrTagUnresponsive) {
	    // no tag in field, try again later
	}

Thread Safety:

TagWriter and TagReader are not thread-safe. The intended call pattern is a
single cooperative loop (see package schedule); wrap with a mutex if you need
concurrent access.
*/
package linkfob
