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

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/LinkFobProject/go-linkfob/schedule"
)

type daemonConfig struct {
	Device       string
	Listen       string
	Entries      []schedule.Entry
	Interval     time.Duration
	ProbeTimeout time.Duration
	PageDelay    time.Duration
	VerifyWrites bool
	Debug        bool
}

func defaultDaemonConfig() daemonConfig {
	return daemonConfig{
		Device:       "/dev/ttyUSB0",
		Listen:       "localhost:8471",
		Interval:     60 * time.Second,
		ProbeTimeout: 100 * time.Millisecond,
		PageDelay:    30 * time.Millisecond,
		VerifyWrites: true,
	}
}

type fileLink struct {
	Label string `toml:"label"`
	URL   string `toml:"url"`
}

type fileConfig struct {
	Device       string     `toml:"device"`
	Listen       string     `toml:"listen"`
	Interval     string     `toml:"interval"`
	ProbeTimeout string     `toml:"probe_timeout"`
	PageDelay    string     `toml:"page_delay"`
	Links        []fileLink `toml:"links"`
	VerifyWrites bool       `toml:"verify_writes"`
	Debug        bool       `toml:"debug"`
}

func loadDaemonConfig(path string) (daemonConfig, error) {
	cfg := defaultDaemonConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return daemonConfig{}, fmt.Errorf("load fob config: %w", err)
	}

	if meta.IsDefined("device") {
		device := strings.TrimSpace(raw.Device)
		if device != "" {
			cfg.Device = device
		}
	}

	if meta.IsDefined("listen") {
		cfg.Listen = strings.TrimSpace(raw.Listen)
	}

	if meta.IsDefined("interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Interval))
		if err != nil {
			return daemonConfig{}, fmt.Errorf("parse interval: %w", err)
		}
		cfg.Interval = d
	}

	if meta.IsDefined("probe_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ProbeTimeout))
		if err != nil {
			return daemonConfig{}, fmt.Errorf("parse probe_timeout: %w", err)
		}
		cfg.ProbeTimeout = d
	}

	if meta.IsDefined("page_delay") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.PageDelay))
		if err != nil {
			return daemonConfig{}, fmt.Errorf("parse page_delay: %w", err)
		}
		cfg.PageDelay = d
	}

	if meta.IsDefined("verify_writes") {
		cfg.VerifyWrites = raw.VerifyWrites
	}

	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}

	if meta.IsDefined("links") {
		cfg.Entries = normalizeLinks(raw.Links)
	}

	if len(cfg.Entries) == 0 {
		return daemonConfig{}, fmt.Errorf("fob config %s: at least one [[links]] entry is required", path)
	}

	return cfg, nil
}

func normalizeLinks(in []fileLink) []schedule.Entry {
	out := make([]schedule.Entry, 0, len(in))
	for _, link := range in {
		url := strings.TrimSpace(link.URL)
		if url == "" {
			continue
		}
		label := strings.TrimSpace(link.Label)
		if label == "" {
			label = url
		}
		out = append(out, schedule.Entry{Label: label, URL: url})
	}
	return out
}
