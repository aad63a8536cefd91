package blockchain

// MempoolItem interface for items that can be stored in the mempool
type MempoolItem interface {
	GetID() string
	GetTimestamp() string
}

// LedgerView reads confirmed balances. What "current" means is up to the
// implementation; callers must not cache results across operations.
type LedgerView interface {
	BalanceOf(address string) float64
}

// Pool accepts fully signed transactions for later inclusion.
type Pool interface {
	Accept(tx *Transaction)
}
