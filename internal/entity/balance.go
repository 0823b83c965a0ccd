package entity

// BalanceKeyLen is the width of a balance entry's key: token_id(32) +
// account key(64).
const BalanceKeyLen = TokenIDLen + AccountKeyLen

// BalanceKey returns the canonical key for (token, account).
func BalanceKey(token TokenID, account Account) [BalanceKeyLen]byte {
	var out [BalanceKeyLen]byte
	copy(out[0:TokenIDLen], token[:])
	key := account.Key()
	copy(out[TokenIDLen:], key[:])
	return out
}
