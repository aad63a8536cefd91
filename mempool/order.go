package mempool

import (
	"sort"
	"time"

	"ledgerwallet_go/blockchain"
)

// sortByTimestamp orders oldest first; unparsable timestamps sort last, ties by ID.
func sortByTimestamp(txs []*blockchain.Transaction) {
	parsed := make(map[string]time.Time, len(txs))
	for _, tx := range txs {
		ts, err := time.Parse(time.RFC3339Nano, tx.Timestamp)
		if err != nil {
			ts = time.Unix(1<<62, 0)
		}
		parsed[tx.ID] = ts
	}
	sort.SliceStable(txs, func(i, j int) bool {
		ti, tj := parsed[txs[i].ID], parsed[txs[j].ID]
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return txs[i].ID < txs[j].ID
	})
}
