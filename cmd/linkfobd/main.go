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

// linkfobd runs the fob cycle as a daemon: it rotates through the
// configured links, renders the current one, writes it to the tag when one
// is in the field, and streams activity to local WebSocket clients.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	linkfob "github.com/LinkFobProject/go-linkfob"
	"github.com/LinkFobProject/go-linkfob/agent"
	"github.com/LinkFobProject/go-linkfob/schedule"
	"github.com/LinkFobProject/go-linkfob/transport/i2c"
	"github.com/LinkFobProject/go-linkfob/transport/uart"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "linkfobd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/linkfob/fob.toml", "Path to the fob configuration file")
	devicePath := flag.String("device", "", "Device path override (e.g., /dev/ttyUSB0 or /dev/i2c-1)")
	debug := flag.Bool("debug", false, "Enable debug output")
	flag.Parse()

	cfg, err := loadDaemonConfig(*configPath)
	if err != nil {
		return err
	}
	if *devicePath != "" {
		cfg.Device = *devicePath
	}
	if *debug {
		cfg.Debug = true
	}

	logger := newLogger(cfg.Debug)
	if cfg.Debug {
		linkfob.SetDebugEnabled(true)
	}

	transport, err := newTransport(cfg.Device)
	if err != nil {
		return err
	}
	defer func() { _ = transport.Close() }()

	logger.Info().
		Str("device", cfg.Device).
		Str("transport", string(transport.Type())).
		Dur("interval", cfg.Interval).
		Msg("fob daemon starting")

	sched, err := buildScheduler(cfg, transport, logger)
	if err != nil {
		return err
	}

	broadcaster := agent.NewBroadcaster(logger.With().Str("component", "agent").Logger())
	broadcaster.Attach(sched)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           broadcaster.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("listen", cfg.Listen).Msg("agent listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("agent server failed")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler stopped: %w", err)
	}

	logger.Info().Msg("fob daemon stopped")
	return nil
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()
}

// newTransport creates a page transport from a device path.
func newTransport(path string) (linkfob.PageTransport, error) {
	if path == "" {
		return nil, errors.New("empty device path")
	}

	// Check for I2C pattern
	if strings.Contains(strings.ToLower(path), "i2c") {
		transport, err := i2c.New(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create I2C transport: %w", err)
		}
		return transport, nil
	}

	// Default to UART for serial ports
	transport, err := uart.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create UART transport: %w", err)
	}
	return transport, nil
}

func buildScheduler(
	cfg daemonConfig,
	transport linkfob.PageTransport,
	logger zerolog.Logger,
) (*schedule.Scheduler, error) {
	rotation, err := schedule.NewRotation(cfg.Entries)
	if err != nil {
		return nil, fmt.Errorf("invalid link rotation: %w", err)
	}

	retrying := linkfob.NewTransportWithRetry(transport, nil)
	writer := linkfob.NewTagWriter(retrying,
		linkfob.WithPageDelay(cfg.PageDelay),
		linkfob.WithWriteVerification(cfg.VerifyWrites),
	)

	var prober schedule.TagProber
	if detector, ok := transport.(linkfob.TagDetector); ok {
		prober = detector
	}

	schedConfig := &schedule.Config{
		Interval:     cfg.Interval,
		ProbeTimeout: cfg.ProbeTimeout,
		Logger:       logger.With().Str("component", "schedule").Logger(),
	}

	renderer := &logRenderer{logger: logger.With().Str("component", "render").Logger()}
	return schedule.NewScheduler(rotation, renderer, prober, writer, schedConfig), nil
}

// logRenderer stands in for the display: the current link is emitted as a
// log line. A real fob swaps in an e-paper QR renderer here.
type logRenderer struct {
	logger zerolog.Logger
}

func (r *logRenderer) Render(label, url string) error {
	r.logger.Info().Str("label", label).Str("url", url).Msg("showing link")
	return nil
}
