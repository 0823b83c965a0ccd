package ledger

import (
	"math/big"

	"synnergy-multiledger/internal/entity"
)

// TransferFromArgs mirrors the distilled spec's TransferFromArgs
// (SPEC_FULL.md §6). Spender is the caller's account (caller +
// spender_subaccount).
type TransferFromArgs struct {
	Spender       entity.Account
	From          entity.Account
	To            entity.Account
	Amount        *big.Int
	Fee           *big.Int
	Memo          []byte
	CreatedAtTime *uint64
}

// TransferFrom spends an existing allowance on From's behalf, debiting
// From's balance and allowance and crediting To (SPEC_FULL.md §4.F). The
// spec's "no separate insufficient-allowance variant" is honored here by
// reporting a missing or exhausted allowance as InsufficientFunds with the
// allowance amount standing in for the usual balance field.
func (l *Ledger) TransferFrom(token entity.TokenID, args TransferFromArgs) (uint64, error) {
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

	allowance, err := l.getAllowanceAmount(token, args.From, args.Spender, now)
	if err != nil {
		return 0, genericf("%v", err)
	}
	if allowance.Cmp(need) < 0 {
		return 0, &InsufficientFunds{Balance: allowance}
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

	newFrom, _ := entity.CheckedSub128(fromBal, need)       // need <= fromBal, checked above
	newAllowance, _ := entity.CheckedSub128(allowance, need) // need <= allowance, checked above

	var expiresAt *uint64
	if a, ok, err := l.getAllowanceRaw(token, args.From, args.Spender); err != nil {
		return 0, genericf("%v", err)
	} else if ok {
		expiresAt = a.ExpiresAt
	}

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
	if err := l.setAllowance(token, args.From, args.Spender, newAllowance, expiresAt); err != nil {
		return 0, genericf("%v", err)
	}

	tx := entity.StoredTx{
		Op:           entity.OpTransferFrom,
		TokenID:      token,
		FromOwner:    args.From.OwnerField(),
		ToOwner:      args.To.OwnerField(),
		SpenderOwner: args.Spender.OwnerField(),
		Amount:       entity.EncodeAmount128(args.Amount),
		Fee:          entity.EncodeAmount128(vres.Fee),
		Timestamp:    now,
		Memo:         vres.Memo,
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
