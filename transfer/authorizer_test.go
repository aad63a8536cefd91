package transfer

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/minio/sha256-simd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerwallet_go/blockchain"
	"ledgerwallet_go/currency"
	"ledgerwallet_go/events"
	"ledgerwallet_go/mempool"
	"ledgerwallet_go/utils"
	"ledgerwallet_go/wallet"
)

// MockLedger returns fixed balances and counts lookups.
type MockLedger struct {
	mu       sync.Mutex
	balances map[string]float64
	queries  int
}

func (m *MockLedger) BalanceOf(address string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	return m.balances[address]
}

// MockPool records every submission.
type MockPool struct {
	mu       sync.Mutex
	accepted []*blockchain.Transaction
}

func (m *MockPool) Accept(tx *blockchain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accepted = append(m.accepted, tx)
}

func (m *MockPool) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accepted)
}

type recordingObserver struct {
	mu  sync.Mutex
	got []events.Event
}

func (r *recordingObserver) Notify(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, ev)
}

func (r *recordingObserver) kinds() []events.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Kind, 0, len(r.got))
	for _, ev := range r.got {
		out = append(out, ev.Kind)
	}
	return out
}

type fixture struct {
	sender   *wallet.Identity
	receiver *wallet.Identity
	ledger   *MockLedger
	pool     *MockPool
	observer *recordingObserver
	builds   int
	auth     *Authorizer
}

func newFixture(t *testing.T, senderIsMiner bool, balance float64) *fixture {
	t.Helper()
	utils.InitLogger(false, true)

	f := &fixture{
		sender:   wallet.NewIdentity(senderIsMiner, rand.Reader),
		receiver: wallet.NewIdentity(false, rand.Reader),
		pool:     &MockPool{},
		observer: &recordingObserver{},
	}
	f.ledger = &MockLedger{balances: map[string]float64{f.sender.Address(): balance}}
	builder := func(sender, receiver string, amount, fee float64) *blockchain.Transaction {
		f.builds++
		return blockchain.NewTransaction(sender, receiver, amount, fee)
	}
	f.auth = NewAuthorizer(f.ledger, f.pool, WithObserver(f.observer), WithTxBuilder(builder))
	return f
}

func TestAuthorizeTransferSuccess(t *testing.T) {
	f := newFixture(t, false, 100)

	receipt, err := f.auth.AuthorizeTransfer(f.sender, f.receiver, 50)
	require.NoError(t, err)
	require.Equal(t, 1, f.pool.Count())

	tx := f.pool.accepted[0]
	assert.Equal(t, f.sender.Address(), tx.Sender)
	assert.Equal(t, f.receiver.Address(), tx.Receiver)
	assert.Equal(t, 50.0, tx.Amount)
	assert.Equal(t, 0.5, tx.Fee)
	assert.NotEmpty(t, tx.Signature)
	assert.Equal(t, *tx, *receipt)
	assert.NotSame(t, tx, receipt)

	// Hash is reproducible from the canonical fields alone.
	independent := blockchain.Transaction{Sender: tx.Sender, Receiver: tx.Receiver, Amount: tx.Amount, Fee: tx.Fee}
	digest := sha256.Sum256(independent.CanonicalBytes())
	assert.Equal(t, hex.EncodeToString(digest[:]), tx.Hash)

	assert.True(t, wallet.VerifyHex(f.sender.Address(), digest[:], tx.Signature))
	assert.False(t, wallet.VerifyHex(f.receiver.Address(), digest[:], tx.Signature))

	assert.Equal(t, []events.Kind{events.TransferSubmitted}, f.observer.kinds())
}

func TestAuthorizeTransferInsufficientFunds(t *testing.T) {
	f := newFixture(t, true, 10)

	receipt, err := f.auth.AuthorizeTransfer(f.sender, f.receiver, 50)
	require.Error(t, err)
	assert.Nil(t, receipt)

	var insufficient *InsufficientFundsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, f.sender.Address(), insufficient.Address)
	assert.Equal(t, 10.0, insufficient.Balance)
	assert.Equal(t, 50.5, insufficient.Required)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Contains(t, err.Error(), f.sender.Address())

	assert.Equal(t, 0, f.pool.Count())
	assert.Equal(t, 0, f.builds, "no transaction may be constructed on failure")
	assert.Empty(t, f.observer.kinds())
}

func TestAffordabilityGate(t *testing.T) {
	cases := []struct {
		name    string
		balance float64
		amount  float64
	}{
		{"zero_balance", 0, 1},
		{"covers_amount_not_fee", 50, 50},
		{"just_below", 50.49, 50},
		{"large", 1000, 999},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, false, tc.balance)
			_, err := f.auth.AuthorizeTransfer(f.sender, f.receiver, tc.amount)
			assert.ErrorIs(t, err, ErrInsufficientFunds)
			assert.Equal(t, 0, f.pool.Count())
			assert.Equal(t, 0, f.builds)
		})
	}
}

func TestAffordabilityBoundaryIsInclusive(t *testing.T) {
	amount := 50.0
	f := newFixture(t, false, blockchain.RequiredBalance(amount))

	_, err := f.auth.AuthorizeTransfer(f.sender, f.receiver, amount)
	require.NoError(t, err)
	assert.Equal(t, 1, f.pool.Count())
}

func TestZeroAmountTransfer(t *testing.T) {
	f := newFixture(t, false, 0)
	_, err := f.auth.AuthorizeTransfer(f.sender, f.receiver, 0)
	require.NoError(t, err)
	require.Equal(t, 1, f.pool.Count())
	assert.Equal(t, 0.0, f.pool.accepted[0].Fee)
}

func TestInvalidAmountsTouchNothing(t *testing.T) {
	for _, amount := range []float64{-1, math.NaN(), math.Inf(1)} {
		f := newFixture(t, false, 1e9)
		_, err := f.auth.AuthorizeTransfer(f.sender, f.receiver, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Equal(t, 0, f.ledger.queries)
		assert.Equal(t, 0, f.pool.Count())
		assert.Equal(t, 0, f.builds)
	}
}

func TestBalanceIsQueriedEveryCall(t *testing.T) {
	f := newFixture(t, false, 100)
	for i := 0; i < 3; i++ {
		_, err := f.auth.AuthorizeTransfer(f.sender, f.receiver, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.ledger.queries)

	f.ledger.mu.Lock()
	f.ledger.balances[f.sender.Address()] = 0
	f.ledger.mu.Unlock()
	_, err := f.auth.AuthorizeTransfer(f.sender, f.receiver, 1)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestMinerEmitsAdvisoryNotice(t *testing.T) {
	f := newFixture(t, true, 100)
	_, err := f.auth.AuthorizeTransfer(f.sender, f.receiver, 10)
	require.NoError(t, err)

	assert.Equal(t, []events.Kind{events.TransferSubmitted, events.MinerTxQueued}, f.observer.kinds())
	// Notice has no effect on ledger or pool.
	assert.Equal(t, 1, f.pool.Count())
	assert.Equal(t, 100.0, f.ledger.balances[f.sender.Address()])
}

// Both transfers pass the balance check because the ledger has not changed
// between them. Preventing the combined overdraft is up to the ledger/pool
// at inclusion time.
func TestSequentialTransfersAreNotReconciled(t *testing.T) {
	f := newFixture(t, false, 60)

	_, err := f.auth.AuthorizeTransfer(f.sender, f.receiver, 50)
	require.NoError(t, err)
	_, err = f.auth.AuthorizeTransfer(f.sender, f.receiver, 50)
	require.NoError(t, err)

	assert.Equal(t, 2, f.pool.Count())
}

func TestConcurrentAuthorizations(t *testing.T) {
	f := newFixture(t, false, 1e6)
	f.auth = NewAuthorizer(f.ledger, f.pool, WithObserver(f.observer))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.auth.AuthorizeTransfer(f.sender, f.receiver, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, f.pool.Count())
}

func TestWithRealLedgerAndMempool(t *testing.T) {
	utils.InitLogger(false, true)
	ledger := currency.NewLedger()
	pool := mempool.NewMempool(0)
	alice := wallet.NewIdentity(false, rand.Reader)
	bob := wallet.NewIdentity(false, rand.Reader)
	require.NoError(t, ledger.Credit(alice.Address(), 100))

	auth := NewAuthorizer(ledger, pool)
	receipt, err := auth.AuthorizeTransfer(alice, bob, 50)
	require.NoError(t, err)

	stored, ok := pool.GetItem(receipt.ID)
	require.True(t, ok, "signed transaction must pass mempool validation")
	assert.True(t, stored.VerifySignature())

	_, err = auth.AuthorizeTransfer(bob, alice, 1)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 1, pool.GetSize())
}

func TestNewAuthorizerRequiresCollaborators(t *testing.T) {
	assert.Panics(t, func() { NewAuthorizer(nil, &MockPool{}) })
	assert.Panics(t, func() { NewAuthorizer(&MockLedger{}, nil) })
}
