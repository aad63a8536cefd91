// mempool/mempool.go
package mempool

import (
	"sync"

	"ledgerwallet_go/blockchain"
	"ledgerwallet_go/metrics"
	"ledgerwallet_go/utils"
)

// Mempool holds signed transactions awaiting inclusion
type Mempool struct {
	items    map[string]*blockchain.Transaction
	capacity int
	mutex    sync.RWMutex
}

var _ blockchain.Pool = (*Mempool)(nil)

// NewMempool creates a new mempool. capacity <= 0 selects the default.
func NewMempool(capacity int) *Mempool {
	if capacity <= 0 {
		capacity = blockchain.DefaultMempoolCapacity
	}
	return &Mempool{
		items:    make(map[string]*blockchain.Transaction),
		capacity: capacity,
	}
}

// Accept enqueues a signed transaction. Malformed input is logged and dropped.
func (mp *Mempool) Accept(tx *blockchain.Transaction) {
	if tx == nil || !tx.IsSigned() {
		mp.reject(tx, "unsigned")
		return
	}
	if !tx.VerifySignature() {
		mp.reject(tx, "bad_signature")
		return
	}

	mp.mutex.Lock()
	defer mp.mutex.Unlock()

	if _, exists := mp.items[tx.GetID()]; exists {
		mp.reject(tx, "duplicate")
		return
	}
	if len(mp.items) >= mp.capacity {
		mp.reject(tx, "full")
		return
	}

	mp.items[tx.GetID()] = tx
	metrics.MempoolAccepted.Inc()
	metrics.MempoolSize.Set(float64(len(mp.items)))
	utils.LogDebug("Mempool: accepted tx %s from %s", tx.GetID(), tx.Sender)
}

func (mp *Mempool) reject(tx *blockchain.Transaction, reason string) {
	metrics.MempoolRejected.WithLabelValues(reason).Inc()
	id := "<nil>"
	if tx != nil {
		id = tx.GetID()
	}
	utils.LogWarn("Mempool: rejected tx %s (%s)", id, reason)
}

// GetItem retrieves a transaction from the mempool
func (mp *Mempool) GetItem(id string) (*blockchain.Transaction, bool) {
	mp.mutex.RLock()
	defer mp.mutex.RUnlock()

	item, exists := mp.items[id]
	return item, exists
}

// RemoveItem removes a transaction from the mempool
func (mp *Mempool) RemoveItem(id string) {
	mp.mutex.Lock()
	defer mp.mutex.Unlock()

	delete(mp.items, id)
	metrics.MempoolSize.Set(float64(len(mp.items)))
}

// RemoveProcessedItems removes transactions after they've been included
func (mp *Mempool) RemoveProcessedItems(items []*blockchain.Transaction) {
	mp.mutex.Lock()
	defer mp.mutex.Unlock()

	for _, item := range items {
		delete(mp.items, item.GetID())
	}
	metrics.MempoolSize.Set(float64(len(mp.items)))
}

// GetPendingItems returns up to max pending transactions, oldest first.
func (mp *Mempool) GetPendingItems(max int) []*blockchain.Transaction {
	all := mp.GetAllItems()
	if max > 0 && len(all) > max {
		all = all[:max]
	}
	return all
}

// GetAllItems returns all transactions in the mempool ordered by timestamp
func (mp *Mempool) GetAllItems() []*blockchain.Transaction {
	mp.mutex.RLock()
	result := make([]*blockchain.Transaction, 0, len(mp.items))
	for _, item := range mp.items {
		result = append(result, item)
	}
	mp.mutex.RUnlock()

	sortByTimestamp(result)
	return result
}

// PendingBySender returns the total amount plus fees queued by sender.
func (mp *Mempool) PendingBySender(sender string) float64 {
	mp.mutex.RLock()
	defer mp.mutex.RUnlock()

	total := 0.0
	for _, item := range mp.items {
		if item.Sender == sender {
			total += item.Amount + item.Fee
		}
	}
	return total
}

// GetSize returns the number of items in the mempool
func (mp *Mempool) GetSize() int {
	mp.mutex.RLock()
	defer mp.mutex.RUnlock()

	return len(mp.items)
}

// Clear removes all items from the mempool
func (mp *Mempool) Clear() {
	mp.mutex.Lock()
	defer mp.mutex.Unlock()

	mp.items = make(map[string]*blockchain.Transaction)
	metrics.MempoolSize.Set(0)
}
