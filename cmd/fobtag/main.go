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

// fobtag reads or writes a single tag and exits. Useful for provisioning
// tags and checking what a fob wrote.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	linkfob "github.com/LinkFobProject/go-linkfob"
	"github.com/LinkFobProject/go-linkfob/transport/i2c"
	"github.com/LinkFobProject/go-linkfob/transport/uart"
)

type config struct {
	devicePath *string
	writeURL   *string
	pageDelay  *time.Duration
	noVerify   *bool
	debug      *bool
}

func parseFlags() *config {
	cfg := &config{
		devicePath: flag.String("device", "/dev/ttyUSB0",
			"Device path (e.g., /dev/ttyUSB0 or /dev/i2c-1)"),
		writeURL: flag.String("write", "", "URL to write to the tag (if not specified, will only read)"),
		pageDelay: flag.Duration("page-delay", 30*time.Millisecond,
			"Settle delay between page writes (default: 30ms)"),
		noVerify: flag.Bool("no-verify", false, "Skip read-back verification after writing"),
		debug:    flag.Bool("debug", false, "Enable debug output"),
	}
	flag.Parse()

	if *cfg.debug {
		linkfob.SetDebugEnabled(true)
	}

	return cfg
}

// newTransport creates a page transport from a device path.
func newTransport(path string) (linkfob.PageTransport, error) {
	if path == "" {
		return nil, errors.New("empty device path")
	}

	if strings.Contains(strings.ToLower(path), "i2c") {
		transport, err := i2c.New(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create I2C transport: %w", err)
		}
		return transport, nil
	}

	transport, err := uart.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create UART transport: %w", err)
	}
	return transport, nil
}

func printTagInfo(transport linkfob.PageTransport) {
	// The capability container tells us the tag speaks NDEF and how much
	// user memory it has.
	cc, err := transport.ReadPage(3)
	if err != nil {
		_, _ = fmt.Printf("Capability container unreadable: %v\n", err)
		return
	}
	_, _ = fmt.Printf("Capability container: % X\n", cc)
	if len(cc) == 4 && cc[0] == 0xE1 {
		_, _ = fmt.Printf("NDEF capable, %d bytes user memory\n", int(cc[2])*8)
	}
}

func readTag(transport linkfob.PageTransport) error {
	reader := linkfob.NewTagReader(transport)
	url, err := reader.ReadURI()
	if err != nil {
		if errors.Is(err, linkfob.ErrNoMessageFound) {
			_, _ = fmt.Println("Tag is blank")
			return nil
		}
		return fmt.Errorf("read failed: %w", err)
	}

	_, _ = fmt.Printf("URL: %s\n", url)
	return nil
}

func writeTag(transport linkfob.PageTransport, cfg *config) error {
	writer := linkfob.NewTagWriter(transport,
		linkfob.WithPageDelay(*cfg.pageDelay),
		linkfob.WithWriteVerification(!*cfg.noVerify),
	)

	if err := writer.WriteURI(*cfg.writeURL); err != nil {
		var pwErr *linkfob.PageWriteError
		if errors.As(err, &pwErr) {
			return fmt.Errorf("write aborted at page %d: %w", pwErr.Page, pwErr.Err)
		}
		return fmt.Errorf("write failed: %w", err)
	}

	_, _ = fmt.Println("Write successful!")
	return nil
}

func main() {
	cfg := parseFlags()

	transport, err := newTransport(*cfg.devicePath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "fobtag: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = transport.Close() }()

	_, _ = fmt.Printf("Opening device: %s\n", *cfg.devicePath)
	printTagInfo(transport)

	if *cfg.writeURL != "" {
		err = writeTag(transport, cfg)
	} else {
		err = readTag(transport)
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "fobtag: %v\n", err)
		os.Exit(1)
	}
}
