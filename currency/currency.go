package currency

import (
	"fmt"
	"math"
	"sync"
	"time"

	"ledgerwallet_go/utils"
)

// Account represents an address and its confirmed balance
type Account struct {
	Address      string  `json:"address"`      // Account address (compressed public key, hex)
	Balance      float64 `json:"balance"`      // Confirmed balance
	CreatedAt    string  `json:"createdAt"`    // Account creation timestamp
	LastActivity string  `json:"lastActivity"` // Last activity timestamp
}

// Ledger is an in-memory store of confirmed balances.
type Ledger struct {
	accounts    map[string]*Account
	totalSupply float64
	mutex       sync.RWMutex
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[string]*Account),
	}
}

// GenesisAllocate credits initial balances and logs the resulting supply.
func (l *Ledger) GenesisAllocate(allocations map[string]float64) error {
	for addr, amount := range allocations {
		if err := l.Credit(addr, amount); err != nil {
			return fmt.Errorf("genesis allocation for %s: %w", addr, err)
		}
	}
	utils.LogInfo("Ledger initialized with total supply of %v", l.TotalSupply())
	return nil
}

func validAmount(amount float64) bool {
	return amount >= 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}

// account must be called with the write lock held.
func (l *Ledger) account(address string) *Account {
	acc, exists := l.accounts[address]
	if !exists {
		now := time.Now().UTC().Format(time.RFC3339)
		acc = &Account{Address: address, CreatedAt: now, LastActivity: now}
		l.accounts[address] = acc
	}
	return acc
}

// Credit mints amount into address
func (l *Ledger) Credit(address string, amount float64) error {
	if !validAmount(amount) {
		return fmt.Errorf("invalid amount %v: must be a finite non-negative number", amount)
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()

	acc := l.account(address)
	acc.Balance += amount
	acc.LastActivity = time.Now().UTC().Format(time.RFC3339)
	l.totalSupply += amount

	utils.LogDebug("Credited %v to %s", amount, address)
	return nil
}

// Debit removes amount from address
func (l *Ledger) Debit(address string, amount float64) error {
	if !validAmount(amount) {
		return fmt.Errorf("invalid amount %v: must be a finite non-negative number", amount)
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()

	acc, exists := l.accounts[address]
	if !exists || acc.Balance < amount {
		have := 0.0
		if exists {
			have = acc.Balance
		}
		return fmt.Errorf("insufficient balance: %s has %v, needs %v", address, have, amount)
	}
	acc.Balance -= amount
	acc.LastActivity = time.Now().UTC().Format(time.RFC3339)
	l.totalSupply -= amount
	return nil
}

// BalanceOf returns the confirmed balance, zero for unknown addresses.
func (l *Ledger) BalanceOf(address string) float64 {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	acc, exists := l.accounts[address]
	if !exists {
		return 0
	}
	return acc.Balance
}

// GetAccount returns a copy of the account, if any
func (l *Ledger) GetAccount(address string) (Account, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	acc, exists := l.accounts[address]
	if !exists {
		return Account{}, false
	}
	return *acc, true
}

// TotalSupply returns the sum of all balances
func (l *Ledger) TotalSupply() float64 {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.totalSupply
}
