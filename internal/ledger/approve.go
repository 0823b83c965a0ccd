package ledger

import (
	"math/big"

	"synnergy-multiledger/internal/entity"
)

// ApproveArgs mirrors the distilled spec's ApproveArgs (SPEC_FULL.md §6).
// From is the owner's account (caller + from_subaccount).
type ApproveArgs struct {
	From              entity.Account
	Spender           entity.Account
	Amount            *big.Int
	ExpiresAt         *uint64
	ExpectedAllowance *big.Int
	Fee               *big.Int
	Memo              []byte
	CreatedAtTime     *uint64
}

// Approve sets (overwrites) an allowance, debiting the fee from the owner's
// balance and destroying it from supply (SPEC_FULL.md §4.F).
func (l *Ledger) Approve(token entity.TokenID, args ApproveArgs) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	spender := args.Spender
	vres, err := l.validate(validationArgs{
		Token: token, From: args.From, To: args.Spender, Spender: &spender,
		Amount: args.Amount, Fee: args.Fee, Memo: args.Memo,
		CreatedAtTime: args.CreatedAtTime, Now: now, Class: dedupApprove,
		ExpectedAllowance: args.ExpectedAllowance, ExpiresAt: args.ExpiresAt,
	})
	if err != nil {
		return 0, err
	}

	ownerBal, err := l.getBalance(token, args.From)
	if err != nil {
		return 0, genericf("%v", err)
	}
	if ownerBal.Cmp(vres.Fee) < 0 {
		return 0, &InsufficientFunds{Balance: ownerBal}
	}
	newOwnerBal, _ := entity.CheckedSub128(ownerBal, vres.Fee) // fee <= ownerBal, checked above

	meta, _, err := l.getToken(token)
	if err != nil {
		return 0, genericf("%v", err)
	}
	newSupply, err := entity.CheckedSub128(meta.TotalSupply, vres.Fee)
	if err != nil {
		return 0, genericf("supply underflow")
	}

	if err := l.setBalance(token, args.From, newOwnerBal); err != nil {
		return 0, genericf("%v", err)
	}
	meta.TotalSupply = newSupply
	if err := l.putToken(token, meta); err != nil {
		return 0, genericf("%v", err)
	}
	if err := l.setAllowance(token, args.From, args.Spender, args.Amount, args.ExpiresAt); err != nil {
		return 0, genericf("%v", err)
	}

	tx := entity.StoredTx{
		Op:           entity.OpApprove,
		TokenID:      token,
		FromOwner:    args.From.OwnerField(),
		ToOwner:      args.Spender.OwnerField(),
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
		if err := l.recordDedup(dedupApprove, vres.Fingerprint, txID); err != nil {
			return 0, genericf("%v", err)
		}
	}
	return txID, nil
}
