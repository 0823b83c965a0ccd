package ledger

import (
	"math/big"

	"synnergy-multiledger/internal/entity"
)

// TransferArgs mirrors the distilled spec's TransferArgs (SPEC_FULL.md §6).
type TransferArgs struct {
	From          entity.Account
	To            entity.Account
	Amount        *big.Int
	Fee           *big.Int // nil defaults to the token's configured fee
	Memo          []byte
	CreatedAtTime *uint64
}

// Transfer executes a user-initiated balance transfer (SPEC_FULL.md §4.F).
// All checks run before any write, so a failure never leaves a partial
// mutation behind: validation errors and the insufficient-funds check both
// happen strictly before balances, supply, the log, or dedup are touched.
func (l *Ledger) Transfer(token entity.TokenID, args TransferArgs) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	vres, err := l.validate(validationArgs{
		Token: token, From: args.From, To: args.To,
		Amount: args.Amount, Fee: args.Fee, Memo: args.Memo,
		CreatedAtTime: args.CreatedAtTime, Now: now, Class: dedupTransfer,
	})
	if err != nil {
		return 0, err
	}

	need, err := entity.CheckedAdd128(args.Amount, vres.Fee)
	if err != nil {
		return 0, genericf("amount overflow")
	}

	fromBal, err := l.getBalance(token, args.From)
	if err != nil {
		return 0, genericf("%v", err)
	}
	if fromBal.Cmp(need) < 0 {
		return 0, &InsufficientFunds{Balance: fromBal}
	}

	toBal, err := l.getBalance(token, args.To)
	if err != nil {
		return 0, genericf("%v", err)
	}
	newTo, err := entity.CheckedAdd128(toBal, args.Amount)
	if err != nil {
		return 0, genericf("amount overflow")
	}

	meta, _, err := l.getToken(token)
	if err != nil {
		return 0, genericf("%v", err)
	}
	newSupply, err := entity.CheckedSub128(meta.TotalSupply, vres.Fee)
	if err != nil {
		return 0, genericf("supply underflow")
	}
	newFrom, _ := entity.CheckedSub128(fromBal, need) // need <= fromBal, checked above

	// Every check above has passed; from here no step can fail, so the
	// writes below are effectively atomic.
	if err := l.setBalance(token, args.From, newFrom); err != nil {
		return 0, genericf("%v", err)
	}
	if err := l.setBalance(token, args.To, newTo); err != nil {
		return 0, genericf("%v", err)
	}
	meta.TotalSupply = newSupply
	if err := l.putToken(token, meta); err != nil {
		return 0, genericf("%v", err)
	}

	tx := entity.StoredTx{
		Op:        entity.OpTransfer,
		TokenID:   token,
		FromOwner: args.From.OwnerField(),
		ToOwner:   args.To.OwnerField(),
		Amount:    entity.EncodeAmount128(args.Amount),
		Fee:       entity.EncodeAmount128(vres.Fee),
		Timestamp: now,
		Memo:      vres.Memo,
	}
	txID, err := l.appendTx(tx)
	if err != nil {
		return 0, genericf("%v", err)
	}
	if args.CreatedAtTime != nil {
		if err := l.recordDedup(dedupTransfer, vres.Fingerprint, txID); err != nil {
			return 0, genericf("%v", err)
		}
	}
	return txID, nil
}
