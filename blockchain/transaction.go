package blockchain

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/minio/sha256-simd"

	"ledgerwallet_go/wallet"
)

// Transaction is a value transfer from one address to another.
// Hash and Signature cover only Sender, Receiver, Amount and Fee.
type Transaction struct {
	ID        string  `json:"id"`
	Sender    string  `json:"sender"`
	Receiver  string  `json:"receiver"`
	Amount    float64 `json:"amount"`
	Fee       float64 `json:"fee"`
	Hash      string  `json:"hash"`
	Signature string  `json:"signature"`
	Timestamp string  `json:"timestamp"`
}

// NewTransaction creates an unsigned transaction.
func NewTransaction(sender, receiver string, amount, fee float64) *Transaction {
	return &Transaction{
		ID:        uuid.New().String(),
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		Fee:       fee,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// GetID returns the pool key of a transaction
func (t *Transaction) GetID() string {
	return t.ID
}

// GetTimestamp returns the creation timestamp of a transaction
func (t *Transaction) GetTimestamp() string {
	return t.Timestamp
}

// CanonicalBytes is the byte layout fed to the content digest:
//
//	u32 len(sender) || sender || u32 len(receiver) || receiver || f64 amount || f64 fee
//
// Integers and IEEE-754 bits are big-endian.
func (t *Transaction) CanonicalBytes() []byte {
	buf := make([]byte, 0, 4+len(t.Sender)+4+len(t.Receiver)+16)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(t.Sender)))
	buf = append(buf, t.Sender...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(t.Receiver)))
	buf = append(buf, t.Receiver...)
	buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(t.Amount))
	buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(t.Fee))
	return buf
}

// ContentHash returns SHA-256 of CanonicalBytes.
func (t *Transaction) ContentHash() []byte {
	h := sha256.Sum256(t.CanonicalBytes())
	return h[:]
}

// IsSigned reports whether both hash and signature are populated.
func (t *Transaction) IsSigned() bool {
	return t.Hash != "" && t.Signature != ""
}

// VerifySignature checks that Hash matches the signed fields and that
// Signature was produced over it by the key behind Sender.
func (t *Transaction) VerifySignature() bool {
	if !t.IsSigned() {
		return false
	}
	contentHash := t.ContentHash()
	if hex.EncodeToString(contentHash) != t.Hash {
		return false
	}
	return wallet.VerifyHex(t.Sender, contentHash, t.Signature)
}
