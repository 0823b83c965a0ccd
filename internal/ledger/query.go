package ledger

import (
	"math/big"

	"synnergy-multiledger/internal/entity"
)

// Default/cap transaction history pagination (SPEC_FULL.md §6 "Defaults").
const (
	defaultTxLimit = 100
	maxTxLimit     = 1000
)

// TokenSummary pairs a TokenID with its metadata, returned by ListTokens.
type TokenSummary struct {
	TokenID  entity.TokenID
	Metadata entity.TokenMetadata
}

// TokenBalance pairs a TokenID with an account's balance in it, returned by
// GetBalancesFor.
type TokenBalance struct {
	TokenID entity.TokenID
	Balance *big.Int
}

// AllowanceDetails is the full value half of an allowance entry, returned
// by GetAllowanceDetails.
type AllowanceDetails struct {
	Amount    *big.Int
	ExpiresAt *uint64
}

// Info is a small summary of ledger-wide counts, returned by GetInfo.
type Info struct {
	TokenCount       int
	TransactionCount uint64
	ControllerCount  int
}

// GetBalance returns acct's balance in token; a missing entry reads as
// zero (SPEC_FULL.md §4.G).
func (l *Ledger) GetBalance(token entity.TokenID, acct entity.Account) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.getBalance(token, acct)
}

// GetTotalSupply returns token's current total supply.
func (l *Ledger) GetTotalSupply(token entity.TokenID) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	meta, ok, err := l.getToken(token)
	if err != nil {
		return nil, genericf("%v", err)
	}
	if !ok {
		return nil, ErrTokenNotFound
	}
	return meta.TotalSupply, nil
}

// GetTokenMetadata returns token's metadata.
func (l *Ledger) GetTokenMetadata(token entity.TokenID) (entity.TokenMetadata, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	meta, ok, err := l.getToken(token)
	if err != nil {
		return entity.TokenMetadata{}, genericf("%v", err)
	}
	if !ok {
		return entity.TokenMetadata{}, ErrTokenNotFound
	}
	return meta, nil
}

// ListTokens returns every known token and its metadata, in ascending
// TokenID order (the ordered map's native iteration order).
func (l *Ledger) ListTokens() ([]TokenSummary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []TokenSummary
	var rangeErr error
	l.tokens.Range(nil, nil, func(key, value []byte) bool {
		var id entity.TokenID
		copy(id[:], key)
		m, err := entity.DecodeMetadata(value)
		if err != nil {
			rangeErr = err
			return false
		}
		out = append(out, TokenSummary{TokenID: id, Metadata: m})
		return true
	})
	if rangeErr != nil {
		return nil, genericf("%v", rangeErr)
	}
	return out, nil
}

// GetBalancesFor iterates every known token and reports (owner,
// subaccount)'s balance wherever it is positive (SPEC_FULL.md §4.G).
func (l *Ledger) GetBalancesFor(owner entity.Principal, subaccount [32]byte) ([]TokenBalance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct := entity.Account{Owner: owner, Subaccount: subaccount}

	var out []TokenBalance
	var rangeErr error
	l.tokens.Range(nil, nil, func(key, _ []byte) bool {
		var id entity.TokenID
		copy(id[:], key)
		bal, err := l.getBalance(id, acct)
		if err != nil {
			rangeErr = err
			return false
		}
		if bal.Sign() > 0 {
			out = append(out, TokenBalance{TokenID: id, Balance: bal})
		}
		return true
	})
	if rangeErr != nil {
		return nil, genericf("%v", rangeErr)
	}
	return out, nil
}

// GetHolderCount returns the number of accounts with a positive balance in
// token, exploiting the balance map's (token_id, account_key) key ordering
// to range over exactly token's prefix (SPEC_FULL.md §4.B).
func (l *Ledger) GetHolderCount(token entity.TokenID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	from := append([]byte(nil), token[:]...)
	to := incrementBytes(token[:])
	count := 0
	l.balances.Range(from, to, func(_, _ []byte) bool {
		count++
		return true
	})
	return count
}

// GetAllowance returns the live allowance (owner, spender) has granted in
// token, or zero if none exists or it has expired.
func (l *Ledger) GetAllowance(token entity.TokenID, owner, spender entity.Account) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.getAllowanceAmount(token, owner, spender, l.clock.Now())
}

// GetAllowanceDetails returns the full (amount, expires_at) allowance
// entry, lazily expiring it the same way GetAllowance does.
func (l *Ledger) GetAllowanceDetails(token entity.TokenID, owner, spender entity.Account) (AllowanceDetails, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	a, ok, err := l.getAllowanceRaw(token, owner, spender)
	if err != nil {
		return AllowanceDetails{}, genericf("%v", err)
	}
	if !ok {
		return AllowanceDetails{Amount: big.NewInt(0)}, nil
	}
	if a.ExpiresAt != nil && *a.ExpiresAt <= now {
		key := entity.AllowanceKey(token, owner, spender)
		_ = l.allowances.Remove(key[:])
		return AllowanceDetails{Amount: big.NewInt(0)}, nil
	}
	return AllowanceDetails{Amount: entity.DecodeAmount128(a.Amount[:]), ExpiresAt: a.ExpiresAt}, nil
}

// GetTransactions reads up to limit raw log entries starting at start
// (default 100, capped at 1000) and, when tokenID is non-nil, filters the
// slice down to that token afterward — callers must tolerate fewer than
// limit results (SPEC_FULL.md §4.G, §9 "Pagination by filter").
func (l *Ledger) GetTransactions(tokenID *entity.TokenID, start, limit *uint64) ([]entity.StoredTx, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.log.Len()
	lim := uint64(defaultTxLimit)
	if limit != nil {
		lim = *limit
	}
	if lim > maxTxLimit {
		lim = maxTxLimit
	}
	s := uint64(0)
	if start != nil {
		s = *start
	}

	var out []entity.StoredTx
	for i := s; i < n && i < s+lim; i++ {
		rec, err := l.log.Get(i)
		if err != nil {
			return nil, genericf("%v", err)
		}
		tx, err := entity.DecodeStoredTx(rec)
		if err != nil {
			return nil, genericf("%v", err)
		}
		if tokenID != nil && tx.TokenID != *tokenID {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// GetTransactionCount returns the total number of log entries, equal to
// the transaction counter (SPEC_FULL.md §3, §8 property 2).
func (l *Ledger) GetTransactionCount() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counter.Get()
}

// GetStorageStats reports the byte size of every region currently in use.
func (l *Ledger) GetStorageStats() map[uint8]int {
	return l.mgr.StorageStats()
}

// HealthCheck reports whether the ledger is reachable and serving queries.
func (l *Ledger) HealthCheck() bool { return true }

// GetInfo reports small ledger-wide counts useful for a status endpoint.
func (l *Ledger) GetInfo() Info {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Info{
		TokenCount:       l.tokens.Len(),
		TransactionCount: l.counter.Get(),
		ControllerCount:  len(l.controllers.ListControllers()),
	}
}

// incrementBytes returns the lexicographically-next byte string after b
// (big-endian increment), or nil if b is all 0xFF (meaning "no upper
// bound" to Range).
func incrementBytes(b []byte) []byte {
	out := append([]byte(nil), b...)
	for i := len(out) - 1; i >= 0; i-- {
		out[i]++
		if out[i] != 0 {
			return out
		}
	}
	return nil
}
