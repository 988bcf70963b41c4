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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagReader_RoundTripThroughTagMemory(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()
	writer := NewTagWriter(transport, WithPageDelay(0))
	reader := NewTagReader(transport)

	uris := []string{
		"a",
		"https://linkfob.dev",
		"https://www.linkfob.dev/p/alice?ref=fob",
	}

	for _, uri := range uris {
		require.NoError(t, writer.WriteURI(uri))

		got, err := reader.ReadURI()
		require.NoError(t, err)
		assert.Equal(t, uri, got)
	}
}

func TestTagReader_BlankTag(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()
	reader := NewTagReader(transport, WithScanPages(8))

	_, err := reader.ReadURI()
	require.ErrorIs(t, err, ErrNoMessageFound)
}

func TestTagReader_SkipsLeadingPadding(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()

	record, err := EncodeURIRecord("https://linkfob.dev")
	require.NoError(t, err)
	block, err := WrapMessage(record)
	require.NoError(t, err)

	// Two pages of padding before the TLV block.
	padded := append(make([]byte, 2*PageSize), block...)
	transport.LoadPages(UserPageStart, padded)

	reader := NewTagReader(transport)
	got, err := reader.ReadURI()
	require.NoError(t, err)
	assert.Equal(t, "https://linkfob.dev", got)
}

func TestTagReader_CompressedRecordFromOtherWriter(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()

	// A record as another NDEF stack would write it: identifier code 0x04
	// abbreviating "https://".
	record := append([]byte{0xD1, 0x01, 0x0C, 0x55, 0x04}, []byte("linkfob.dev")...)
	block, err := WrapMessage(record)
	require.NoError(t, err)
	transport.LoadPages(UserPageStart, block)

	reader := NewTagReader(transport)
	got, err := reader.ReadURI()
	require.NoError(t, err)
	assert.Equal(t, "https://linkfob.dev", got)
}

func TestTagReader_EmptyTLV(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()
	transport.LoadPages(UserPageStart, []byte{0x03, 0x00, 0xFE, 0x00})

	reader := NewTagReader(transport)
	_, err := reader.ReadURI()
	require.ErrorIs(t, err, ErrNoMessageFound)
}

func TestTagReader_TruncatedByScanBound(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()
	// Header promises 200 bytes; the scan bound ends the stream first.
	transport.LoadPages(UserPageStart, []byte{0x03, 0xC8, 0xD1, 0x01})

	reader := NewTagReader(transport, WithScanPages(3))
	_, err := reader.ReadURI()
	require.ErrorIs(t, err, ErrMessageTruncated)
}

func TestTagReader_ReadFailureMidScan(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()
	transport.LoadPages(UserPageStart, []byte{0x03, 0x20, 0xD1, 0x01})
	transport.ReadErrors[6] = ErrTransportRead

	reader := NewTagReader(transport)
	_, err := reader.ReadURI()
	require.ErrorIs(t, err, ErrTransportRead)
}

func TestTagReader_NonURIRecord(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()

	// A text record ('T' type) inside a valid TLV block.
	record := []byte{0xD1, 0x01, 0x06, 0x54, 0x02, 'e', 'n', 'h', 'i'}
	block, err := WrapMessage(record)
	require.NoError(t, err)
	transport.LoadPages(UserPageStart, block)

	reader := NewTagReader(transport)
	_, err = reader.ReadURI()
	require.ErrorIs(t, err, ErrUnsupportedRecordType)
}
