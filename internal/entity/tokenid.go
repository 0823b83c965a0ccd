package entity

import "crypto/sha256"

// TokenIDLen is the size in bytes of a TokenID.
const TokenIDLen = 32

// TokenID is the 32-byte content address of a token's (name, symbol,
// decimals) tuple (SPEC_FULL.md §3). Two tokens with identical name, symbol
// and decimals are, by construction, the same token.
type TokenID [TokenIDLen]byte

// DeriveTokenID computes SHA-256(name || symbol || [decimals]) with the
// fields concatenated byte-for-byte and no separators, exactly the scheme
// the teacher's content-addressed identifiers (e.g. its contract/code hash
// derivation in common_structs.go) follow.
func DeriveTokenID(name, symbol string, decimals uint8) TokenID {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte(symbol))
	h.Write([]byte{decimals})
	var id TokenID
	copy(id[:], h.Sum(nil))
	return id
}
