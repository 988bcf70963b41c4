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

	"github.com/hsanjuan/go-ndef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Records produced by other writers may use URI identifier codes for prefix
// abbreviation. go-ndef does, so it makes a good second implementation to
// decode against.
func TestDecodeURIRecord_GoNDEFInterop(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		uri  string
	}{
		{
			name: "https www abbreviated",
			uri:  "https://www.linkfob.dev/p/alice",
		},
		{
			name: "https abbreviated",
			uri:  "https://linkfob.dev/p/bob",
		},
		{
			name: "http www abbreviated",
			uri:  "http://www.example.com/x",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg := ndef.NewURIMessage(tt.uri)
			payload, err := msg.Marshal()
			require.NoError(t, err)

			got, err := DecodeURIRecord(payload)
			require.NoError(t, err)
			assert.Equal(t, tt.uri, got)
		})
	}
}

func TestEncodeURIRecord_GoNDEFCanParse(t *testing.T) {
	t.Parallel()

	const uri = "https://linkfob.dev/p/carol"
	record, err := EncodeURIRecord(uri)
	require.NoError(t, err)

	msg := &ndef.Message{}
	_, err = msg.Unmarshal(record)
	require.NoError(t, err)

	// go-ndef renders well-known-type records with a urn:nfc:wkt: prefix.
	assert.Equal(t, "urn:nfc:wkt:U:"+uri, msg.String())
}

func TestDecodeURIRecord_RejectsTextRecord(t *testing.T) {
	t.Parallel()

	msg := ndef.NewTextMessage("hello", "en")
	payload, err := msg.Marshal()
	require.NoError(t, err)

	_, err = DecodeURIRecord(payload)
	assert.ErrorIs(t, err, ErrUnsupportedRecordType)
}
