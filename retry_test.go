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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryWithConfig_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := RetryWithConfig(context.Background(), fastRetryConfig(), func() error {
		attempts++
		if attempts < 3 {
			return ErrTransportTimeout
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithConfig_StopsOnPermanentError(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := RetryWithConfig(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return ErrTagUnresponsive
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTagUnresponsive)
	assert.Equal(t, 1, attempts, "permanent errors should not be retried")
}

func TestRetryWithConfig_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := RetryWithConfig(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return ErrTransportRead
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransportRead)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithConfig_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := RetryWithConfig(ctx, fastRetryConfig(), func() error {
		attempts++
		cancel()
		return ErrTransportTimeout
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithConfig_NilConfigUsesDefaults(t *testing.T) {
	t.Parallel()

	err := RetryWithConfig(context.Background(), nil, func() error {
		return nil
	})
	assert.NoError(t, err)
}
