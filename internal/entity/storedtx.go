package entity

import (
	"encoding/binary"
	"fmt"
)

// Op identifies the kind of operation a StoredTx records.
type Op uint8

const (
	OpTransfer     Op = 0
	OpMint         Op = 1
	OpBurn         Op = 2
	OpApprove      Op = 3
	OpTransferFrom Op = 4
)

// StoredTxSize is the fixed width, in bytes, of every record appended to
// the transaction log (SPEC_FULL.md §3). It must never change once a
// region has records written under it.
//
// NOTE on a spec inconsistency: the distilled spec lists from_key/to_key/
// spender_key as full 64-byte account keys while also mandating a fixed
// 256-byte total record — the two claims are numerically incompatible
// (three 64-byte keys alone take 192 of the 256 bytes, and the full field
// list would total 314 bytes). We
// resolve this in favor of the 256-byte total, since it is both the
// O(1)-indexing invariant the log depends on and an explicitly tested
// property (§8 #4): from/to/spender are stored here as the 32-byte owner
// field only (Account.OwnerField, i.e. the account key with its
// subaccount dropped), and the freed bytes are folded into _reserved.
// Full subaccount precision is preserved where it actually matters for
// the ledger's invariants: the live balance and allowance maps, which
// key on the complete 64-byte Account.Key().
const StoredTxSize = 256

const (
	offOp           = 0
	offFlags        = 1
	offTokenID      = 2
	offFromOwner    = offTokenID + TokenIDLen    // 34
	offToOwner      = offFromOwner + 32          // 66
	offSpenderOwner = offToOwner + 32            // 98
	offAmount       = offSpenderOwner + 32       // 130
	offFee          = offAmount + AmountLen      // 146
	offTimestamp    = offFee + AmountLen         // 162
	offMemo         = offTimestamp + 8           // 170
	offReserved     = offMemo + MemoLen          // 202
	reservedLen     = StoredTxSize - offReserved // 54
)

// MemoLen is the maximum number of memo bytes retained in a StoredTx;
// longer memos are truncated (SPEC_FULL.md §3).
const MemoLen = 32

// StoredTx is the decoded form of one 256-byte transaction log record.
type StoredTx struct {
	Op           Op
	TokenID      TokenID
	FromOwner    [32]byte
	ToOwner      [32]byte
	SpenderOwner [32]byte
	Amount       [AmountLen]byte
	Fee          [AmountLen]byte
	Timestamp    uint64
	Memo         [MemoLen]byte
}

// Encode serializes tx into its fixed 256-byte wire form.
func (tx StoredTx) Encode() [StoredTxSize]byte {
	var buf [StoredTxSize]byte
	buf[offOp] = byte(tx.Op)
	// offFlags left zero: reserved.
	copy(buf[offTokenID:offTokenID+TokenIDLen], tx.TokenID[:])
	copy(buf[offFromOwner:offFromOwner+32], tx.FromOwner[:])
	copy(buf[offToOwner:offToOwner+32], tx.ToOwner[:])
	copy(buf[offSpenderOwner:offSpenderOwner+32], tx.SpenderOwner[:])
	copy(buf[offAmount:offAmount+AmountLen], tx.Amount[:])
	copy(buf[offFee:offFee+AmountLen], tx.Fee[:])
	binary.BigEndian.PutUint64(buf[offTimestamp:offTimestamp+8], tx.Timestamp)
	copy(buf[offMemo:offMemo+MemoLen], tx.Memo[:])
	// buf[offReserved:] left zero.
	return buf
}

// DecodeStoredTx reverses Encode. It returns an error if b is not exactly
// StoredTxSize bytes or names an unknown op.
func DecodeStoredTx(b []byte) (StoredTx, error) {
	var tx StoredTx
	if len(b) != StoredTxSize {
		return tx, fmt.Errorf("entity: stored tx length %d, want %d", len(b), StoredTxSize)
	}
	op := Op(b[offOp])
	if op > OpTransferFrom {
		return tx, fmt.Errorf("entity: unknown stored tx op %d", op)
	}
	tx.Op = op
	copy(tx.TokenID[:], b[offTokenID:offTokenID+TokenIDLen])
	copy(tx.FromOwner[:], b[offFromOwner:offFromOwner+32])
	copy(tx.ToOwner[:], b[offToOwner:offToOwner+32])
	copy(tx.SpenderOwner[:], b[offSpenderOwner:offSpenderOwner+32])
	copy(tx.Amount[:], b[offAmount:offAmount+AmountLen])
	copy(tx.Fee[:], b[offFee:offFee+AmountLen])
	tx.Timestamp = binary.BigEndian.Uint64(b[offTimestamp : offTimestamp+8])
	copy(tx.Memo[:], b[offMemo:offMemo+MemoLen])
	return tx, nil
}

// TruncateMemo returns memo truncated to MemoLen bytes, left-justified and
// zero-padded, matching the StoredTx.Memo field's encoding.
func TruncateMemo(memo []byte) [MemoLen]byte {
	var out [MemoLen]byte
	n := len(memo)
	if n > MemoLen {
		n = MemoLen
	}
	copy(out[:n], memo[:n])
	return out
}

var _ = reservedLen // documents the byte budget; not otherwise referenced
