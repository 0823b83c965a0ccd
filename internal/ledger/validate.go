package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"
	"time"

	"synnergy-multiledger/internal/entity"
)

const (
	futureTolerance = 5 * time.Minute
	dedupWindow     = 24 * time.Hour
)

// dedupClass picks which of the two dedup maps a fingerprint belongs to
// (SPEC_FULL.md §3 "Dedup entry": separate maps for transfer-class and
// approve-class operations).
type dedupClass int

const (
	dedupTransfer dedupClass = iota
	dedupApprove
)

// validationArgs bundles the inputs shared by Transfer, TransferFrom and
// Approve's pre-flight validation (SPEC_FULL.md §4.E). Spender is non-nil
// only for Approve, where it is folded into the fingerprint to disambiguate
// different-spender approvals at the same (owner, amount, memo, t) — see
// DESIGN.md's note on the spec's fingerprint-ambiguity open question.
type validationArgs struct {
	Token entity.TokenID
	From  entity.Account
	To    entity.Account

	Spender *entity.Account
	Class   dedupClass

	Amount        *big.Int
	Fee           *big.Int
	Memo          []byte
	CreatedAtTime *uint64
	Now           uint64

	ExpectedAllowance *big.Int
	ExpiresAt         *uint64
}

// validationResult carries the values validate derives so operation code
// never recomputes them.
type validationResult struct {
	Fee         *big.Int
	Memo        [entity.MemoLen]byte
	Fingerprint [32]byte
}

// validate runs the ordered pre-flight checks of SPEC_FULL.md §4.E. It
// changes no balance, supply, allowance amount or log entry; its only
// writes are removing a stale or unreadable dedup entry and lazily
// removing an expired allowance. The caller must already hold l.mu.
func (l *Ledger) validate(args validationArgs) (validationResult, error) {
	var res validationResult

	token, ok, err := l.getToken(args.Token)
	if err != nil {
		return res, genericf("%v", err)
	}
	if !ok {
		return res, genericf("Token not found")
	}

	if len(args.Memo) > entity.MemoLen {
		return res, genericf("memo exceeds %d bytes", entity.MemoLen)
	}
	res.Memo = entity.TruncateMemo(args.Memo)

	fee := args.Fee
	if fee == nil {
		fee = token.Fee
	} else if fee.Cmp(token.Fee) != 0 {
		return res, &BadFee{ExpectedFee: token.Fee}
	}
	res.Fee = fee

	res.Fingerprint = l.fingerprint(args, res.Memo)

	// Steps 4-5 only apply when the caller supplied created_at_time; a
	// caller that omits it opts out of replay protection entirely (it has
	// no idempotency token to dedup against), matching how the teacher's
	// own token layer treats an absent timestamp as "don't track".
	if args.CreatedAtTime != nil {
		t := *args.CreatedAtTime
		if t > args.Now+uint64(futureTolerance.Nanoseconds()) {
			return res, &CreatedInFuture{LedgerTime: args.Now}
		}
		if args.Now > t && args.Now-t > uint64(dedupWindow.Nanoseconds()) {
			return res, &TooOld{}
		}

		dedupMap := l.transferDedup
		if args.Class == dedupApprove {
			dedupMap = l.approveDedup
		}
		if raw, found := dedupMap.Get(res.Fingerprint[:]); found {
			txID := binary.BigEndian.Uint64(raw)
			if rec, err := l.log.Get(txID); err == nil {
				if stored, err := entity.DecodeStoredTx(rec); err == nil &&
					args.Now >= stored.Timestamp && args.Now-stored.Timestamp <= uint64(dedupWindow.Nanoseconds()) {
					return res, &Duplicate{DuplicateOf: txID}
				}
			}
			_ = dedupMap.Remove(res.Fingerprint[:]) // stale or unreadable: opportunistic cleanup
		}
	}

	if args.Class == dedupApprove {
		if args.ExpectedAllowance != nil {
			current, err := l.getAllowanceAmount(args.Token, args.From, *args.Spender, args.Now)
			if err != nil {
				return res, genericf("%v", err)
			}
			if current.Cmp(args.ExpectedAllowance) != 0 {
				return res, &AllowanceChanged{CurrentAllowance: current}
			}
		}
		if args.ExpiresAt != nil && *args.ExpiresAt < args.Now {
			return res, &Expired{LedgerTime: args.Now}
		}
	}

	return res, nil
}

// fingerprint computes the SHA-256 dedup fingerprint of SPEC_FULL.md §4.E
// step 5: token || from_key || to_key || amount_be || memo || created_at_time_be,
// with the spender's account key folded in for Approve.
func (l *Ledger) fingerprint(args validationArgs, memo [entity.MemoLen]byte) [32]byte {
	h := sha256.New()
	h.Write(args.Token[:])
	fromKey := args.From.Key()
	toKey := args.To.Key()
	h.Write(fromKey[:])
	h.Write(toKey[:])
	amt := entity.EncodeAmount128(args.Amount)
	h.Write(amt[:])
	h.Write(memo[:])
	var ts [8]byte
	if args.CreatedAtTime != nil {
		binary.BigEndian.PutUint64(ts[:], *args.CreatedAtTime)
	}
	h.Write(ts[:])
	if args.Class == dedupApprove && args.Spender != nil {
		spenderKey := args.Spender.Key()
		h.Write(spenderKey[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
