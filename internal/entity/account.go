// Package entity implements the deterministic, round-trippable encodings
// the rest of the ledger is built on: accounts, token IDs, amounts, stored
// transactions, and allowances (SPEC_FULL.md §3, §4.C). Every encoder here
// is a pure function of its input; none of them touch storage.
package entity

// OwnerLen is the maximum number of bytes a Principal (owner) may occupy
// inside its fixed-width key field. Real principals are at most 29 bytes;
// the extra headroom keeps the length-prefix scheme unambiguous without
// depending on that external bound holding exactly.
const OwnerLen = 31

// AccountKeyLen is the size of the canonical serialized Account key: a
// 32-byte owner field (1 length byte + up to 31 owner bytes) followed by a
// 32-byte subaccount.
const AccountKeyLen = 64

// Principal is an opaque caller identity, supplied by the host runtime in
// production (out of scope here, SPEC_FULL.md §1) and passed in directly by
// callers of this package.
type Principal []byte

// Account is (owner, optional 32-byte subaccount). The zero Subaccount
// represents the default subaccount.
type Account struct {
	Owner      Principal
	Subaccount [32]byte
}

// DefaultAccount returns owner's account with the default (all-zero)
// subaccount.
func DefaultAccount(owner Principal) Account {
	return Account{Owner: owner}
}

// Key returns the 64-byte canonical serialization of a. Two accounts
// compare equal under this package's invariants iff their Key()s are equal
// (SPEC_FULL.md §3).
func (a Account) Key() [AccountKeyLen]byte {
	var out [AccountKeyLen]byte
	n := len(a.Owner)
	if n > OwnerLen {
		n = OwnerLen // defensive: callers are expected to supply ≤29-byte principals
	}
	out[0] = byte(n)
	copy(out[1:1+n], a.Owner[:n])
	copy(out[32:64], a.Subaccount[:])
	return out
}

// OwnerField returns just the 32-byte owner portion of a's canonical key
// (length byte plus up to 31 owner bytes), with the subaccount dropped.
// StoredTx records use this narrower field instead of the full 64-byte
// account key; see DESIGN.md for why.
func (a Account) OwnerField() [32]byte {
	key := a.Key()
	var out [32]byte
	copy(out[:], key[:32])
	return out
}

// DecodeAccountKey reverses Key, reconstructing an Account from its 64-byte
// canonical form.
func DecodeAccountKey(key [AccountKeyLen]byte) Account {
	n := int(key[0])
	if n > OwnerLen {
		n = OwnerLen
	}
	owner := make(Principal, n)
	copy(owner, key[1:1+n])
	var a Account
	a.Owner = owner
	copy(a.Subaccount[:], key[32:64])
	return a
}
