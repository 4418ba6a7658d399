package events

import (
	"context"
	"net/http"
	"time"

	ws "github.com/coder/websocket"
)

const (
	outBufferSize = 32
	pingInterval  = 30 * time.Second
)

// subscriber is one WebSocket connection attached to the hub.
type subscriber struct {
	hub  *Hub
	conn *ws.Conn
	out  chan []byte
}

func (s *subscriber) run(ctx context.Context) {
	s.hub.add(s)
	defer s.hub.remove(s)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.writeLoop(ctx)
	s.readLoop(ctx)
}

// readLoop discards inbound frames; the feed is one-way. A read error
// means the peer is gone and triggers cleanup.
func (s *subscriber) readLoop(ctx context.Context) {
	for {
		if _, _, err := s.conn.Read(ctx); err != nil {
			return
		}
	}
}

func (s *subscriber) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-s.out:
			if !ok {
				return
			}
			if err := s.conn.Write(ctx, ws.MessageText, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Handler upgrades the request to a WebSocket and serves the feed until
// the client disconnects.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			hub.logger.Warn("websocket accept", "error", err)
			return
		}
		s := &subscriber{hub: hub, conn: conn, out: make(chan []byte, outBufferSize)}
		s.run(r.Context())
	}
}
