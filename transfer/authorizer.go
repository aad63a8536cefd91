// Package transfer authorizes value transfers: balance check, build,
// hash, sign and submit, in that order.
//
// The balance check and the pool submission are not atomic. Two concurrent
// authorizations for one sender can both pass the check; closing that gap
// belongs to the ledger and pool at inclusion time.
package transfer

import (
	"encoding/hex"
	"fmt"
	"math"

	"ledgerwallet_go/blockchain"
	"ledgerwallet_go/events"
	"ledgerwallet_go/metrics"
	"ledgerwallet_go/utils"
	"ledgerwallet_go/wallet"
)

// TxBuilder constructs an unsigned transaction.
type TxBuilder func(sender, receiver string, amount, fee float64) *blockchain.Transaction

// Authorizer signs and submits transfers against a ledger and a pool.
type Authorizer struct {
	ledger   blockchain.LedgerView
	pool     blockchain.Pool
	observer events.Observer
	newTx    TxBuilder
}

// Option configures an Authorizer
type Option func(*Authorizer)

// WithObserver sets the sink for advisory events.
func WithObserver(o events.Observer) Option {
	return func(a *Authorizer) { a.observer = o }
}

// WithTxBuilder replaces blockchain.NewTransaction.
func WithTxBuilder(b TxBuilder) Option {
	return func(a *Authorizer) { a.newTx = b }
}

// NewAuthorizer creates an Authorizer. By default events go to the log.
func NewAuthorizer(ledger blockchain.LedgerView, pool blockchain.Pool, opts ...Option) *Authorizer {
	if ledger == nil || pool == nil {
		panic("transfer: ledger and pool are required")
	}
	a := &Authorizer{
		ledger:   ledger,
		pool:     pool,
		observer: events.LogObserver{},
		newTx:    blockchain.NewTransaction,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AuthorizeTransfer moves amount from sender to receiver. The only
// recoverable failures are ErrInvalidAmount and *InsufficientFundsError;
// on either, nothing is built and the pool is not touched.
func (a *Authorizer) AuthorizeTransfer(sender wallet.Signer, receiver wallet.Addresser, amount float64) (*blockchain.Transaction, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		metrics.TransferAuthorizations.WithLabelValues("invalid_amount").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	fee := blockchain.CalculateFee(amount)
	senderAddr := sender.Address()

	balance := a.ledger.BalanceOf(senderAddr)
	required := amount + fee
	if balance < required {
		metrics.TransferAuthorizations.WithLabelValues("insufficient_funds").Inc()
		utils.LogDebug("Transfer refused: %s has %v, needs %v", senderAddr, balance, required)
		return nil, &InsufficientFundsError{Address: senderAddr, Balance: balance, Required: required}
	}

	tx := a.newTx(senderAddr, receiver.Address(), amount, fee)

	contentHash := tx.ContentHash()
	tx.Hash = hex.EncodeToString(contentHash)
	tx.Signature = sender.Sign(contentHash).Hex()
	if !tx.VerifySignature() {
		panic(fmt.Sprintf("transfer: signature for tx %s does not verify against %s", tx.ID, senderAddr))
	}

	a.pool.Accept(tx)

	metrics.TransferAuthorizations.WithLabelValues("submitted").Inc()
	metrics.TransferAmount.Observe(amount)
	utils.LogInfo("Transfer %s submitted: %s -> %s amount=%v fee=%v", tx.ID, tx.Sender, tx.Receiver, tx.Amount, tx.Fee)

	a.notify(events.New(events.TransferSubmitted, senderAddr, tx.ID))
	if sender.IsMiner() {
		metrics.MinerNotifications.Inc()
		a.notify(events.New(events.MinerTxQueued, senderAddr, tx.ID))
	}
	receipt := *tx
	return &receipt, nil
}

func (a *Authorizer) notify(ev events.Event) {
	if a.observer != nil {
		a.observer.Notify(ev)
	}
}
