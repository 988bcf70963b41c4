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

package i2c

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	linkfob "github.com/LinkFobProject/go-linkfob"
	"github.com/LinkFobProject/go-linkfob/internal/tagtest"
)

// fakeBus maps block transactions onto a virtual tag's page memory.
type fakeBus struct {
	tag  *tagtest.VirtualTag
	fail bool
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	if b.fail || !b.tag.Present() {
		return errors.New("i2c: no ack from device")
	}
	if addr != ntagAddr {
		return errors.New("i2c: wrong address")
	}
	if len(w) == 0 {
		return errors.New("i2c: missing block address")
	}

	blockAddr := w[0]
	firstPage := blockAddr * pagesInBlock

	if len(w) == 1+blockSize {
		// Block write
		for i := uint8(0); i < pagesInBlock; i++ {
			pageData := w[1+int(i)*linkfob.PageSize : 1+int(i+1)*linkfob.PageSize]
			if err := b.tag.WritePage(firstPage+i, pageData); err != nil {
				return err
			}
		}
		return nil
	}

	// Block read
	for i := uint8(0); i < pagesInBlock; i++ {
		data, err := b.tag.ReadPage(firstPage + i)
		if err != nil {
			data = make([]byte, linkfob.PageSize)
		}
		copy(r[int(i)*linkfob.PageSize:], data)
	}
	return nil
}

func TestTransportCreation(t *testing.T) {
	t.Parallel()

	transport := &Transport{busName: "/dev/i2c-1"}

	assert.Equal(t, linkfob.TransportI2C, transport.Type())
	assert.False(t, transport.IsConnected())
}

func TestTransport_RoundTrip(t *testing.T) {
	t.Parallel()

	tag := tagtest.NewVirtualTag(nil)
	transport := newWithBus(&fakeBus{tag: tag}, "fake")

	const uri = "https://linkfob.dev/p/bob"
	writer := linkfob.NewTagWriter(transport, linkfob.WithPageDelay(0))
	require.NoError(t, writer.WriteURI(uri))

	reader := linkfob.NewTagReader(transport)
	got, err := reader.ReadURI()
	require.NoError(t, err)
	assert.Equal(t, uri, got)
}

func TestTransport_ReadPageOffsets(t *testing.T) {
	t.Parallel()

	tag := tagtest.NewVirtualTag(nil)
	require.NoError(t, tag.WritePage(7, []byte{0x01, 0x02, 0x03, 0x04}))
	transport := newWithBus(&fakeBus{tag: tag}, "fake")

	data, err := transport.ReadPage(7)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, data)
}

func TestTransport_BusFailure(t *testing.T) {
	t.Parallel()

	transport := newWithBus(&fakeBus{tag: tagtest.NewVirtualTag(nil), fail: true}, "fake")

	_, err := transport.ReadPage(4)
	require.Error(t, err)
	assert.True(t, linkfob.IsRetryable(err))
}

func TestTransport_DetectTag(t *testing.T) {
	t.Parallel()

	bus := &fakeBus{tag: tagtest.NewVirtualTag(nil)}
	transport := newWithBus(bus, "fake")

	present, err := transport.DetectTag(50 * time.Millisecond)
	require.NoError(t, err)
	assert.True(t, present)

	bus.fail = true
	present, err = transport.DetectTag(50 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, present)
}

func TestTransport_Close(t *testing.T) {
	t.Parallel()

	transport := newWithBus(&fakeBus{tag: tagtest.NewVirtualTag(nil)}, "fake")
	require.NoError(t, transport.Close())
	assert.False(t, transport.IsConnected())

	err := transport.WritePage(4, []byte{0, 0, 0, 0})
	assert.ErrorIs(t, err, linkfob.ErrNotConnected)
}
