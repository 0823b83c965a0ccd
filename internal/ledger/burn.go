package ledger

import (
	"math/big"

	"synnergy-multiledger/internal/entity"
)

// BurnArgs mirrors burn_tokens' arguments (SPEC_FULL.md §6). The caller's
// own default account is always the source.
type BurnArgs struct {
	Amount *big.Int
	Memo   []byte
}

// BurnFromArgs mirrors burn_tokens_from's arguments (SPEC_FULL.md §6).
type BurnFromArgs struct {
	From   entity.Account
	Amount *big.Int
	Memo   []byte
}

// Burn destroys amount from the caller's default account. No fee, not
// deduplicated (SPEC_FULL.md §4.F).
func (l *Ledger) Burn(caller entity.Principal, token entity.TokenID, args BurnArgs) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.burnFromLocked(token, entity.DefaultAccount(caller), args.Amount, args.Memo)
}

// BurnFrom destroys amount from an arbitrary account. Controller-only
// (SPEC_FULL.md §4.F).
func (l *Ledger) BurnFrom(caller entity.Principal, token entity.TokenID, args BurnFromArgs) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.controllers.IsController(caller) {
		return 0, genericf("Not authorized")
	}
	return l.burnFromLocked(token, args.From, args.Amount, args.Memo)
}

// burnFromLocked implements the shared Burn/BurnFrom state transition.
// Callers must already hold l.mu.
func (l *Ledger) burnFromLocked(token entity.TokenID, from entity.Account, amount *big.Int, memo []byte) (uint64, error) {
	if amount == nil || amount.Sign() <= 0 {
		return 0, genericf("amount must be positive")
	}
	if len(memo) > entity.MemoLen {
		return 0, genericf("memo exceeds %d bytes", entity.MemoLen)
	}

	meta, ok, err := l.getToken(token)
	if err != nil {
		return 0, genericf("%v", err)
	}
	if !ok {
		return 0, genericf("Token not found")
	}

	bal, err := l.getBalance(token, from)
	if err != nil {
		return 0, genericf("%v", err)
	}
	if bal.Cmp(amount) < 0 {
		return 0, &InsufficientFunds{Balance: bal}
	}
	newBal, _ := entity.CheckedSub128(bal, amount) // amount <= bal, checked above
	newSupply, err := entity.CheckedSub128(meta.TotalSupply, amount)
	if err != nil {
		return 0, genericf("supply underflow")
	}

	if err := l.setBalance(token, from, newBal); err != nil {
		return 0, genericf("%v", err)
	}
	meta.TotalSupply = newSupply
	if err := l.putToken(token, meta); err != nil {
		return 0, genericf("%v", err)
	}

	tx := entity.StoredTx{
		Op:        entity.OpBurn,
		TokenID:   token,
		FromOwner: from.OwnerField(),
		Amount:    entity.EncodeAmount128(amount),
		Timestamp: l.clock.Now(),
		Memo:      entity.TruncateMemo(memo),
	}
	return l.appendTx(tx)
}
