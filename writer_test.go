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

func TestTagWriter_WriteURI(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()
	writer := NewTagWriter(transport, WithPageDelay(0))

	// "a" yields a 6-byte record, a 9-byte TLV block and therefore three
	// pages, the last padded with three zero bytes.
	require.NoError(t, writer.WriteURI("a"))

	assert.Equal(t, []uint8{4, 5, 6}, transport.WriteLog)
	assert.Equal(t, []byte{0x03, 0x06, 0xD1, 0x01}, transport.PageData(4))
	assert.Equal(t, []byte{0x02, 0x55, 0x00, 'a'}, transport.PageData(5))
	assert.Equal(t, []byte{0xFE, 0x00, 0x00, 0x00}, transport.PageData(6))
}

func TestTagWriter_NeverTouchesReservedPages(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()
	writer := NewTagWriter(transport, WithPageDelay(0))

	require.NoError(t, writer.WriteURI("https://www.linkfob.dev/p/alice"))

	for _, page := range transport.WriteLog {
		assert.GreaterOrEqual(t, page, uint8(UserPageStart))
	}
}

func TestTagWriter_URITooLong(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()
	writer := NewTagWriter(transport, WithPageDelay(0))

	uri := make([]byte, MaxURILength+1)
	for i := range uri {
		uri[i] = 'x'
	}

	err := writer.WriteURI(string(uri))
	require.ErrorIs(t, err, ErrURITooLong)
	assert.Empty(t, transport.WriteLog, "nothing should be written after a codec failure")
}

func TestTagWriter_PreflightFailure(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()
	transport.ReadErrors[UserPageStart] = ErrTransportRead
	writer := NewTagWriter(transport, WithPageDelay(0))

	err := writer.WriteURI("https://linkfob.dev")
	require.ErrorIs(t, err, ErrTagUnresponsive)
	assert.Empty(t, transport.WriteLog, "pre-flight failure must abort before any write")
}

func TestTagWriter_AbortsAtFailedPage(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()
	transport.WriteErrors[5] = ErrTransportWrite
	writer := NewTagWriter(transport, WithPageDelay(0))

	err := writer.WriteURI("a")

	var pageErr *PageWriteError
	require.ErrorAs(t, err, &pageErr)
	assert.Equal(t, uint8(5), pageErr.Page)
	assert.Equal(t, []uint8{4}, transport.WriteLog, "sequence must stop at the first failure")
}

func TestTagWriter_VerificationFailure(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()
	writer := NewTagWriter(transport, WithPageDelay(0))

	// Pages write fine, but the read-back of the final page fails.
	transport.ReadErrors[6] = ErrTransportRead

	err := writer.WriteURI("a")
	require.ErrorIs(t, err, ErrWriteVerification)
}

func TestTagWriter_VerificationDisabled(t *testing.T) {
	t.Parallel()
	transport := NewMockPageTransport()
	writer := NewTagWriter(transport, WithPageDelay(0), WithWriteVerification(false))

	// With verification off the failing read-back is never attempted.
	transport.ReadErrors[6] = ErrTransportRead

	require.NoError(t, writer.WriteURI("a"))
}

func TestPageCount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		bytes int
		pages int
	}{
		{1, 1},
		{4, 1},
		{5, 2},
		{9, 3},
		{21, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.pages, pageCount(tt.bytes), "pageCount(%d)", tt.bytes)
	}
}
