// Package events broadcasts election lifecycle notifications to WebSocket
// subscribers: kiosk and dashboard clients use the feed to refresh when the
// phase flips, results land, or an administrator resets the election.
package events

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Event types pushed over the feed.
const (
	TypeElectionCreated   = "election_created"
	TypeElectionEnded     = "election_ended"
	TypeElectionReset     = "election_reset"
	TypeResultsPublished  = "results_published"
	TypeResultsHidden     = "results_hidden"
	TypeCandidatePromoted = "candidate_promoted"
	TypeBallotCast        = "ballot_cast"
)

// Event is a single feed notification. Data never carries voter identity,
// only aggregate or structural information.
type Event struct {
	Type       string         `json:"type"`
	ElectionID int64          `json:"election_id,omitempty"`
	At         time.Time      `json:"at"`
	Data       map[string]any `json:"data,omitempty"`
}

// Hub fans events out to every connected subscriber.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	logger      *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		logger:      logger.With("component", "events"),
	}
}

func (h *Hub) add(s *subscriber) {
	h.mu.Lock()
	h.subscribers[s] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[s]; ok {
		delete(h.subscribers, s)
		close(s.out)
	}
	h.mu.Unlock()
}

// Publish stamps the event and sends it to every subscriber. Slow
// subscribers lose the event rather than stall the rest.
func (h *Hub) Publish(eventType string, electionID int64, data map[string]any) {
	evt := Event{Type: eventType, ElectionID: electionID, At: time.Now().UTC(), Data: data}
	payload, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("marshal event", "type", eventType, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subscribers {
		select {
		case s.out <- payload:
		default:
		}
	}
}

// SubscriberCount reports how many feed connections are open.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
