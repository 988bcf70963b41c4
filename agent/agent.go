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

// Package agent exposes fob activity to local clients over WebSocket. A
// companion app subscribes to /ws and receives cycle and write events as
// they happen.
package agent

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/LinkFobProject/go-linkfob/schedule"
)

// Event is the wire envelope for everything sent to clients.
type Event struct {
	Payload any    `json:"payload"`
	Type    string `json:"type"`
}

// Event types sent to clients.
const (
	EventCycle        = "cycle"
	EventWriteSuccess = "writeSuccess"
	EventWriteError   = "writeError"
)

// CyclePayload describes the entry that just became current.
type CyclePayload struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// WritePayload describes the outcome of a tag write.
type WritePayload struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

// Broadcaster fans events out to all connected WebSocket clients
type Broadcaster struct {
	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]string
	mu       sync.RWMutex
	logger   zerolog.Logger
}

// NewBroadcaster creates a broadcaster with no connected clients
func NewBroadcaster(logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[*websocket.Conn]string),
		logger:  logger,
		upgrader: websocket.Upgrader{
			// Local companion apps connect from arbitrary origins
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
	}
}

// HandleWebSocket upgrades the request and registers the client until its
// connection drops.
func (b *Broadcaster) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	id := uuid.NewString()
	b.mu.Lock()
	b.clients[conn] = id
	b.mu.Unlock()

	b.logger.Info().Str("client", id).Msg("client connected")

	// Drain the connection so close frames are processed; clients only
	// listen, inbound payloads are discarded.
	go func() {
		defer b.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (b *Broadcaster) drop(conn *websocket.Conn) {
	b.mu.Lock()
	id, ok := b.clients[conn]
	delete(b.clients, conn)
	b.mu.Unlock()

	_ = conn.Close()
	if ok {
		b.logger.Info().Str("client", id).Msg("client disconnected")
	}
}

// Broadcast sends event to every connected client. Clients that fail a
// write are dropped.
func (b *Broadcaster) Broadcast(event Event) {
	b.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(b.clients))
	for conn := range b.clients {
		conns = append(conns, conn)
	}
	b.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			b.logger.Warn().Err(err).Msg("websocket write failed, dropping client")
			b.drop(conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Attach wires the broadcaster into a scheduler's callbacks
func (b *Broadcaster) Attach(sched *schedule.Scheduler) {
	sched.OnCycle = func(entry schedule.Entry) {
		b.Broadcast(Event{
			Type:    EventCycle,
			Payload: CyclePayload{Label: entry.Label, URL: entry.URL},
		})
	}
	sched.OnWriteSuccess = func(entry schedule.Entry) {
		b.Broadcast(Event{
			Type:    EventWriteSuccess,
			Payload: WritePayload{Label: entry.Label, URL: entry.URL},
		})
	}
	sched.OnWriteError = func(entry schedule.Entry, err error) {
		b.Broadcast(Event{
			Type:    EventWriteError,
			Payload: WritePayload{Label: entry.Label, URL: entry.URL, Error: err.Error()},
		})
	}
}

// Handler returns the HTTP routes for the agent
func (b *Broadcaster) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", b.HandleWebSocket)
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintln(w, "linkfob agent running")
	})
	return mux
}
