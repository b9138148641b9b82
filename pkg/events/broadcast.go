package events

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"

	// Register transports
	_ "go.nanomsg.org/mangos/v3/transport/all"
)

// Topic prefixes for the wire feed, one per entity kind.
const topicPrefix = "matslogic."

// Broadcaster publishes mutation events on a mangos PUB socket so external
// consumers (dashboards, cache invalidators) can follow changes. Frames are
// "<topic> <json>", topic being e.g. "matslogic.edge".
type Broadcaster struct {
	sock   mangos.Socket
	mu     sync.Mutex
	closed bool
}

// NewBroadcaster creates a broadcaster bound to addr,
// e.g. "tcp://0.0.0.0:9410".
func NewBroadcaster(addr string) (*Broadcaster, error) {
	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}
	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to bind PUB socket to %s: %w", addr, err)
	}
	return &Broadcaster{sock: sock}, nil
}

// Publish implements Publisher. Send failures are swallowed: the feed is
// best-effort and must never fail a committed write.
func (b *Broadcaster) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	frame := make([]byte, 0, len(topicPrefix)+len(ev.Entity)+1+len(payload))
	frame = append(frame, topicPrefix...)
	frame = append(frame, ev.Entity...)
	frame = append(frame, ' ')
	frame = append(frame, payload...)

	_ = b.sock.Send(frame)
}

// Close shuts down the PUB socket.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.sock.Close()
}
