package entity

import (
	"encoding/binary"
	"fmt"
)

// AllowanceKeyLen is the width of an allowance entry's key: token_id(32) +
// owner account key(64) + spender account key(64).
const AllowanceKeyLen = TokenIDLen + AccountKeyLen + AccountKeyLen

// AllowanceKey returns the canonical key for (token, owner, spender).
func AllowanceKey(token TokenID, owner, spender Account) [AllowanceKeyLen]byte {
	var out [AllowanceKeyLen]byte
	copy(out[0:TokenIDLen], token[:])
	ownerKey := owner.Key()
	spenderKey := spender.Key()
	copy(out[TokenIDLen:TokenIDLen+AccountKeyLen], ownerKey[:])
	copy(out[TokenIDLen+AccountKeyLen:], spenderKey[:])
	return out
}

// allowanceValueLen is the width of an encoded Allowance value: 16-byte
// amount, 1-byte has-expiry flag, 8-byte expiry (zero when absent).
const allowanceValueLen = AmountLen + 1 + 8

// Allowance is the value half of an allowance entry.
type Allowance struct {
	Amount    [AmountLen]byte
	ExpiresAt *uint64 // nil means no expiry
}

// EncodeAllowance serializes a into its fixed on-disk form.
func EncodeAllowance(a Allowance) []byte {
	buf := make([]byte, allowanceValueLen)
	copy(buf[0:AmountLen], a.Amount[:])
	if a.ExpiresAt != nil {
		buf[AmountLen] = 1
		binary.BigEndian.PutUint64(buf[AmountLen+1:], *a.ExpiresAt)
	}
	return buf
}

// DecodeAllowance reverses EncodeAllowance.
func DecodeAllowance(b []byte) (Allowance, error) {
	var a Allowance
	if len(b) != allowanceValueLen {
		return a, fmt.Errorf("entity: allowance value length %d, want %d", len(b), allowanceValueLen)
	}
	copy(a.Amount[:], b[0:AmountLen])
	if b[AmountLen] == 1 {
		exp := binary.BigEndian.Uint64(b[AmountLen+1:])
		a.ExpiresAt = &exp
	}
	return a, nil
}
