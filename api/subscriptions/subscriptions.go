// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package subscriptions streams committed ledger events over websocket.
package subscriptions

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/sledhq/sled/api/restutil"
	"github.com/sledhq/sled/ledger"
	"github.com/sledhq/sled/log"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = pongTimeout / 2

	eventChanBuffer = 256
)

type Subscriptions struct {
	ledger   *ledger.Ledger
	upgrader websocket.Upgrader
	done     chan struct{}
}

func New(ledger *ledger.Ledger, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		ledger: ledger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(req *http.Request) bool {
				origin := req.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// Close stops all active subscription connections.
func (s *Subscriptions) Close() {
	close(s.done)
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already responded
		return nil
	}
	defer conn.Close()

	events := make(chan *ledger.Event, eventChanBuffer)
	sub := s.ledger.SubscribeEvents(events)
	defer sub.Unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongTimeout))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case ev := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				logger.Debug("failed to write event", "error", err)
				return nil
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case err := <-sub.Err():
			logger.Debug("event subscription ended", "error", err)
			return nil
		case <-closed:
			return nil
		case <-s.done:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "service shutting down"),
			)
			return nil
		}
	}
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleSubscribeEvents))
}
