package ledger

import (
	"math/big"

	"synnergy-multiledger/internal/entity"
)

// MintArgs mirrors mint_tokens' arguments (SPEC_FULL.md §6).
type MintArgs struct {
	To     entity.Account
	Amount *big.Int
	Memo   []byte
}

// Mint credits amount to To and increases total supply. Controller-only,
// no fee, not deduplicated (SPEC_FULL.md §4.F).
func (l *Ledger) Mint(caller entity.Principal, token entity.TokenID, args MintArgs) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.controllers.IsController(caller) {
		return 0, genericf("Not authorized")
	}
	if args.Amount == nil || args.Amount.Sign() <= 0 {
		return 0, genericf("amount must be positive")
	}
	if len(args.Memo) > entity.MemoLen {
		return 0, genericf("memo exceeds %d bytes", entity.MemoLen)
	}

	meta, ok, err := l.getToken(token)
	if err != nil {
		return 0, genericf("%v", err)
	}
	if !ok {
		return 0, genericf("Token not found")
	}

	toBal, err := l.getBalance(token, args.To)
	if err != nil {
		return 0, genericf("%v", err)
	}
	newTo, err := entity.CheckedAdd128(toBal, args.Amount)
	if err != nil {
		return 0, genericf("amount overflow")
	}
	newSupply, err := entity.CheckedAdd128(meta.TotalSupply, args.Amount)
	if err != nil {
		return 0, genericf("supply overflow")
	}

	if err := l.setBalance(token, args.To, newTo); err != nil {
		return 0, genericf("%v", err)
	}
	meta.TotalSupply = newSupply
	if err := l.putToken(token, meta); err != nil {
		return 0, genericf("%v", err)
	}

	tx := entity.StoredTx{
		Op:        entity.OpMint,
		TokenID:   token,
		ToOwner:   args.To.OwnerField(),
		Amount:    entity.EncodeAmount128(args.Amount),
		Timestamp: l.clock.Now(),
		Memo:      entity.TruncateMemo(args.Memo),
	}
	return l.appendTx(tx)
}
