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

// Package schedule drives the periodic link cycle: on each interval the
// current rotation entry is rendered, the tag is probed once, and the URL
// is written if a tag answered the probe. Ticks are externally clocked so
// callers without a timer loop can drive the scheduler themselves.
package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	linkfob "github.com/LinkFobProject/go-linkfob"
)

// Renderer displays the current entry, typically as a QR code.
type Renderer interface {
	Render(label, url string) error
}

// TagProber reports whether a tag is in the field. The probe must return
// within the given timeout.
type TagProber interface {
	DetectTag(timeout time.Duration) (bool, error)
}

// URIWriter writes a URL to the tag currently in the field.
type URIWriter interface {
	WriteURI(uri string) error
}

// Config configures the cycle scheduler
type Config struct {
	// Interval is the time between cycles
	Interval time.Duration

	// ProbeTimeout bounds the single tag presence probe per cycle
	ProbeTimeout time.Duration

	// Logger receives cycle events. Defaults to a disabled logger.
	Logger zerolog.Logger
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		Interval:     60 * time.Second,
		ProbeTimeout: 100 * time.Millisecond,
		Logger:       zerolog.Nop(),
	}
}

// Scheduler runs the render/probe/write cycle over a rotation
type Scheduler struct {
	rotation *Rotation
	renderer Renderer
	prober   TagProber
	writer   URIWriter
	config   *Config

	OnCycle        func(Entry)
	OnWriteSuccess func(Entry)
	OnWriteError   func(Entry, error)

	lastTick time.Time
}

// NewScheduler creates a scheduler over rotation. The prober and writer may
// be nil, in which case cycles render without touching a tag.
func NewScheduler(rotation *Rotation, renderer Renderer, prober TagProber, writer URIWriter, config *Config) *Scheduler {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Interval <= 0 {
		config.Interval = 60 * time.Second
	}
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = 100 * time.Millisecond
	}
	return &Scheduler{
		rotation: rotation,
		renderer: renderer,
		prober:   prober,
		writer:   writer,
		config:   config,
	}
}

// Tick advances the scheduler clock to now and runs one cycle if at least
// Interval has elapsed since the previous cycle. The first call only
// records its time; the scheduler never fires on an unset clock. Returns
// whether a cycle ran.
//
// Tick never blocks beyond one probe and one write sequence. Callers on a
// cooperative loop can interleave it with other work.
func (s *Scheduler) Tick(now time.Time) bool {
	if s.lastTick.IsZero() {
		s.lastTick = now
		return false
	}
	if now.Sub(s.lastTick) < s.config.Interval {
		return false
	}
	s.lastTick = now
	s.runCycle()
	return true
}

// Run drives Tick from a wall clock until ctx is cancelled. The clock is
// sampled more often than Interval so a cycle fires close to its due time.
func (s *Scheduler) Run(ctx context.Context) error {
	resolution := s.config.Interval / 10
	if resolution < 10*time.Millisecond {
		resolution = 10 * time.Millisecond
	}

	ticker := time.NewTicker(resolution)
	defer ticker.Stop()

	s.Tick(time.Now())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

// runCycle renders the current entry, writes it to a present tag, and
// advances the rotation. Rendering and advancing happen regardless of tag
// presence; the write is attempted at most once with no retry.
func (s *Scheduler) runCycle() {
	entry := s.rotation.Current()

	s.config.Logger.Debug().
		Str("label", entry.Label).
		Str("url", entry.URL).
		Msg("cycle started")

	if s.renderer != nil {
		if err := s.renderer.Render(entry.Label, entry.URL); err != nil {
			s.config.Logger.Warn().Err(err).
				Str("label", entry.Label).
				Msg("render failed")
		}
	}

	s.writeIfPresent(entry)

	s.rotation.Advance()

	if s.OnCycle != nil {
		s.OnCycle(entry)
	}
}

func (s *Scheduler) writeIfPresent(entry Entry) {
	if s.prober == nil || s.writer == nil {
		return
	}

	present, err := s.prober.DetectTag(s.config.ProbeTimeout)
	if err != nil {
		s.config.Logger.Warn().Err(err).Msg("tag probe failed")
		return
	}
	if !present {
		s.config.Logger.Debug().Msg("no tag in field, skipping write")
		return
	}

	if err := s.writer.WriteURI(entry.URL); err != nil {
		logEvent := s.config.Logger.Warn().Err(err).Str("label", entry.Label)
		var pwErr *linkfob.PageWriteError
		if errors.As(err, &pwErr) {
			logEvent = logEvent.Uint8("page", pwErr.Page)
		}
		logEvent.Msg("tag write failed")

		if s.OnWriteError != nil {
			s.OnWriteError(entry, err)
		}
		return
	}

	s.config.Logger.Info().
		Str("label", entry.Label).
		Str("url", entry.URL).
		Msg("tag written")

	if s.OnWriteSuccess != nil {
		s.OnWriteSuccess(entry)
	}
}
