// Package events carries advisory notifications. Observers must not mutate
// ledger or pool state in response to an event.
package events

import (
	"sync"
	"time"

	"ledgerwallet_go/metrics"
	"ledgerwallet_go/utils"
)

// Kind identifies an event type
type Kind string

const (
	// MinerTxQueued marks a miner identity adding its own transaction to the pool.
	MinerTxQueued Kind = "MINER_TX_QUEUED"
	// TransferSubmitted marks any successfully submitted transfer.
	TransferSubmitted Kind = "TRANSFER_SUBMITTED"
)

// Event is a read-only notification.
type Event struct {
	Kind      Kind   `json:"kind"`
	Address   string `json:"address"`
	TxID      string `json:"txId"`
	Timestamp string `json:"timestamp"`
}

// New stamps an event with the current time.
func New(kind Kind, address, txID string) Event {
	return Event{Kind: kind, Address: address, TxID: txID, Timestamp: time.Now().UTC().Format(time.RFC3339Nano)}
}

// Observer receives events. Notify must not block.
type Observer interface {
	Notify(ev Event)
}

// Observers fans an event out to each member in order.
type Observers []Observer

// Notify implements Observer
func (o Observers) Notify(ev Event) {
	for _, obs := range o {
		if obs != nil {
			obs.Notify(ev)
		}
	}
}

// LogObserver writes events through the process logger.
type LogObserver struct{}

// Notify implements Observer
func (LogObserver) Notify(ev Event) {
	switch ev.Kind {
	case MinerTxQueued:
		utils.LogInfo("Miner %s added transaction %s to mining pool", ev.Address, ev.TxID)
	default:
		utils.LogDebug("Event %s: address=%s tx=%s", ev.Kind, ev.Address, ev.TxID)
	}
}

// Hub broadcasts events to subscribers. Slow subscribers drop events
// rather than block the publisher.
type Hub struct {
	subscribers map[chan Event]struct{}
	buffer      int
	mutex       sync.RWMutex
}

// NewHub creates a hub whose subscriber channels hold buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{subscribers: make(map[chan Event]struct{}), buffer: buffer}
}

// Subscribe registers a new subscriber channel
func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, h.buffer)
	h.mutex.Lock()
	h.subscribers[ch] = struct{}{}
	n := len(h.subscribers)
	h.mutex.Unlock()
	metrics.EventSubscribers.Set(float64(n))
	return ch
}

// Unsubscribe removes and closes ch
func (h *Hub) Unsubscribe(ch chan Event) {
	h.mutex.Lock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
	n := len(h.subscribers)
	h.mutex.Unlock()
	metrics.EventSubscribers.Set(float64(n))
}

// Notify implements Observer
func (h *Hub) Notify(ev Event) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			utils.LogWarn("Event hub: subscriber buffer full, dropping %s", ev.Kind)
		}
	}
}

// Subscribers returns the current subscriber count
func (h *Hub) Subscribers() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.subscribers)
}
