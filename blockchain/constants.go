package blockchain

const (
	// FeeRate is the proportional surcharge applied to every transfer amount.
	FeeRate = 0.01
	// DefaultMempoolCapacity bounds the number of pending transactions.
	DefaultMempoolCapacity = 10000
)
