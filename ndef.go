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

// NDEF short-record URI profile constants
const (
	// uriRecordHeader is MB|ME|SR with TNF well-known (0x01).
	uriRecordHeader = 0xD1
	// uriTypeLength is always 1 for the single type byte 'U'.
	uriTypeLength = 0x01
	// ndefTypeURI is the NFC Forum well-known type 'U'.
	ndefTypeURI = 0x55
	// uriPrefixNone: the URL is stored verbatim with no prefix abbreviation.
	uriPrefixNone = 0x00

	// uriRecordOverhead is header + type length + payload length + type +
	// identifier code.
	uriRecordOverhead = 5

	// minURIRecordLen is the shortest decodable record: the four fixed
	// bytes plus the identifier code of an empty URI.
	minURIRecordLen = 5
)

// MaxURILength caps encodable URLs well below the 254 bytes a single-byte
// payload length could carry. The headroom is intentional: it keeps any
// encodable record inside the smallest NTAG user memory with room for the
// TLV wrapper and terminator.
const MaxURILength = 200

// uriPrefixes maps NFC Forum URI identifier codes to their abbreviated
// prefix. Only the codes the LinkFob decoder expands are listed; codes past
// the end of the table decode with an empty prefix.
var uriPrefixes = []string{
	"",
	"http://www.",
	"https://www.",
	"http://",
	"https://",
}

// EncodeURIRecord serializes a URL as a single NDEF short-record URI.
//
// The record always uses identifier code 0x00 and stores the full URL, even
// when the URL starts with an abbreviatable prefix such as "https://". The
// fob rewrites the same few URLs for its whole battery life, so a stable
// byte image is worth more than the saved prefix bytes. Changing this breaks
// byte-for-byte compatibility with deployed readers and test fixtures.
func EncodeURIRecord(uri string) ([]byte, error) {
	if len(uri) > MaxURILength {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrURITooLong, len(uri), MaxURILength)
	}

	record := make([]byte, 0, uriRecordOverhead+len(uri))
	record = append(record,
		uriRecordHeader,
		uriTypeLength,
		byte(1+len(uri)), // identifier code + URL bytes
		ndefTypeURI,
		uriPrefixNone,
	)
	record = append(record, uri...)

	return record, nil
}

// DecodeURIRecord recovers a URL from NDEF URI record bytes.
//
// Unlike the encoder, the decoder honors the compact identifier codes
// 0x01-0x04 so that tags written by other NDEF stacks still resolve.
// Identifier codes beyond the prefix table are not rejected; the payload is
// returned without a prefix.
func DecodeURIRecord(data []byte) (string, error) {
	if len(data) < minURIRecordLen {
		return "", fmt.Errorf("%w: %d bytes, need at least %d", ErrRecordMalformed, len(data), minURIRecordLen)
	}

	if data[3] != ndefTypeURI {
		return "", fmt.Errorf("%w: 0x%02X", ErrUnsupportedRecordType, data[3])
	}

	payloadLen := int(data[2])
	if payloadLen < 1 {
		return "", fmt.Errorf("%w: empty uri payload", ErrRecordMalformed)
	}
	if 4+payloadLen > len(data) {
		return "", fmt.Errorf("%w: payload length %d exceeds record size %d",
			ErrRecordMalformed, payloadLen, len(data)-4)
	}

	idCode := data[4]
	uriBytes := data[5 : 4+payloadLen]

	prefix := ""
	if int(idCode) < len(uriPrefixes) {
		prefix = uriPrefixes[idCode]
	}

	return prefix + string(uriBytes), nil
}
