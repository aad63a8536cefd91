package blockchain

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/minio/sha256-simd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerwallet_go/wallet"
)

func signedTx(t *testing.T, sender *wallet.Identity, receiver string, amount float64) *Transaction {
	t.Helper()
	tx := NewTransaction(sender.Address(), receiver, amount, CalculateFee(amount))
	h := tx.ContentHash()
	tx.Hash = hex.EncodeToString(h)
	tx.Signature = sender.Sign(h).Hex()
	return tx
}

func TestCalculateFee(t *testing.T) {
	assert.Equal(t, 0.5, CalculateFee(50))
	assert.Equal(t, 0.0, CalculateFee(0))
	assert.Equal(t, 50.5, RequiredBalance(50))
}

func TestNewTransactionIsUnsigned(t *testing.T) {
	tx := NewTransaction("a", "b", 10, 0.1)
	assert.NotEmpty(t, tx.ID)
	assert.NotEmpty(t, tx.Timestamp)
	assert.Empty(t, tx.Signature)
	assert.False(t, tx.IsSigned())
	assert.False(t, tx.VerifySignature())
	assert.Equal(t, tx.ID, tx.GetID())
	assert.Equal(t, tx.Timestamp, tx.GetTimestamp())
}

func TestContentHashIgnoresSignatureAndMetadata(t *testing.T) {
	tx := NewTransaction("alice", "bob", 50, 0.5)
	before := tx.ContentHash()

	tx.Signature = "deadbeef"
	tx.Hash = "cafe"
	tx.ID = "other"
	tx.Timestamp = "later"
	assert.Equal(t, before, tx.ContentHash())

	expected := sha256.Sum256(tx.CanonicalBytes())
	assert.Equal(t, expected[:], before)
}

func TestContentHashBindsFields(t *testing.T) {
	base := NewTransaction("alice", "bob", 50, 0.5)
	variants := []*Transaction{
		NewTransaction("alice2", "bob", 50, 0.5),
		NewTransaction("alice", "bob2", 50, 0.5),
		NewTransaction("alice", "bob", 51, 0.5),
		NewTransaction("alice", "bob", 50, 0.51),
		// Length prefixes keep field boundaries unambiguous.
		NewTransaction("alic", "ebob", 50, 0.5),
	}
	for _, v := range variants {
		assert.NotEqual(t, base.ContentHash(), v.ContentHash(), "%+v", v)
	}
}

func TestVerifySignature(t *testing.T) {
	alice := wallet.NewIdentity(false, rand.Reader)
	bob := wallet.NewIdentity(false, rand.Reader)

	tx := signedTx(t, alice, bob.Address(), 50)
	require.True(t, tx.IsSigned())
	assert.True(t, tx.VerifySignature())

	tampered := *tx
	tampered.Amount = 500
	assert.False(t, tampered.VerifySignature(), "hash no longer matches fields")

	tampered = *tx
	tampered.Amount = 500
	tampered.Hash = hex.EncodeToString(tampered.ContentHash())
	assert.False(t, tampered.VerifySignature(), "signature does not cover new hash")

	forged := *tx
	forged.Sender = bob.Address()
	forged.Hash = hex.EncodeToString(forged.ContentHash())
	forged.Signature = alice.Sign(forged.ContentHash()).Hex()
	assert.False(t, forged.VerifySignature(), "signed by someone other than sender")
}
