package blockchain

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"ledgerwallet_go/utils"
)

// Database keys prefixes for better organization
const (
	accountKeyPrefix = "account_" // Prefix for account balance records
)

// ErrBalanceTooLow is returned by Debit when the account cannot cover the amount.
var ErrBalanceTooLow = errors.New("balance too low")

// AccountRecord is the persisted form of an account balance.
type AccountRecord struct {
	Address   string  `json:"address"`
	Balance   float64 `json:"balance"`
	UpdatedAt string  `json:"updatedAt"`
}

// LedgerDB is a LevelDB backed store of confirmed balances.
type LedgerDB struct {
	db        *leveldb.DB
	batchLock sync.Mutex
	path      string
}

// NewLedgerDB opens (or creates) the ledger database under dataDir.
func NewLedgerDB(dataDir string) (*LedgerDB, error) {
	dbPath := filepath.Join(dataDir, "ledger")

	options := &opt.Options{
		BlockCacheCapacity:  8 * 1024 * 1024, // 8MB block cache
		WriteBuffer:         4 * 1024 * 1024, // 4MB write buffer
		CompactionTableSize: 2 * 1024 * 1024, // 2MB compaction table size
	}

	db, err := leveldb.OpenFile(dbPath, options)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	utils.LogInfo("Ledger database initialized at: %s", dbPath)

	return &LedgerDB{
		db:   db,
		path: dbPath,
	}, nil
}

// Close closes the database connection
func (ldb *LedgerDB) Close() error {
	if ldb.db != nil {
		return ldb.db.Close()
	}
	return nil
}

func accountKey(address string) []byte {
	return []byte(accountKeyPrefix + address)
}

func (ldb *LedgerDB) getRecord(address string) (*AccountRecord, error) {
	data, err := ldb.db.Get(accountKey(address), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return &AccountRecord{Address: address}, nil
		}
		return nil, fmt.Errorf("failed to retrieve account %s: %w", address, err)
	}

	var rec AccountRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account %s: %w", address, err)
	}
	return &rec, nil
}

func (ldb *LedgerDB) putRecord(rec *AccountRecord) error {
	rec.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal account %s: %w", rec.Address, err)
	}
	if err := ldb.db.Put(accountKey(rec.Address), data, nil); err != nil {
		return fmt.Errorf("failed to save account %s: %w", rec.Address, err)
	}
	return nil
}

// BalanceOf returns the stored balance. Read failures are logged and
// reported as zero so that affordability checks fail closed.
func (ldb *LedgerDB) BalanceOf(address string) float64 {
	rec, err := ldb.getRecord(address)
	if err != nil {
		utils.LogError("LedgerDB: %v", err)
		return 0
	}
	return rec.Balance
}

// Credit adds amount to address.
func (ldb *LedgerDB) Credit(address string, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("invalid credit amount %v: must not be negative", amount)
	}
	ldb.batchLock.Lock()
	defer ldb.batchLock.Unlock()

	rec, err := ldb.getRecord(address)
	if err != nil {
		return err
	}
	rec.Balance += amount
	if err := ldb.putRecord(rec); err != nil {
		return err
	}
	utils.LogDebug("LedgerDB: credited %v to %s (balance %v)", amount, address, rec.Balance)
	return nil
}

// Debit subtracts amount from address, refusing to go negative.
func (ldb *LedgerDB) Debit(address string, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("invalid debit amount %v: must not be negative", amount)
	}
	ldb.batchLock.Lock()
	defer ldb.batchLock.Unlock()

	rec, err := ldb.getRecord(address)
	if err != nil {
		return err
	}
	if rec.Balance < amount {
		return fmt.Errorf("%w: %s has %v, needs %v", ErrBalanceTooLow, address, rec.Balance, amount)
	}
	rec.Balance -= amount
	return ldb.putRecord(rec)
}

// GetAllAccounts returns every stored account record.
func (ldb *LedgerDB) GetAllAccounts() ([]*AccountRecord, error) {
	accounts := make([]*AccountRecord, 0)

	iter := ldb.db.NewIterator(util.BytesPrefix([]byte(accountKeyPrefix)), nil)
	defer iter.Release()

	for iter.Next() {
		var rec AccountRecord
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal account: %w", err)
		}
		accounts = append(accounts, &rec)
	}

	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}
