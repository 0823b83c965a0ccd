package entity

import "testing"

// TestDeriveTokenIDDeterministic ensures identical (name, symbol, decimals)
// always produce the same TokenID.
func TestDeriveTokenIDDeterministic(t *testing.T) {
	a := DeriveTokenID("Alpha", "ALP", 8)
	b := DeriveTokenID("Alpha", "ALP", 8)
	if a != b {
		t.Fatalf("expected identical token ids")
	}
}

// TestDeriveTokenIDDistinguishesDecimals verifies decimals participate in
// the hash, not just name/symbol.
func TestDeriveTokenIDDistinguishesDecimals(t *testing.T) {
	a := DeriveTokenID("Alpha", "ALP", 8)
	b := DeriveTokenID("Alpha", "ALP", 9)
	if a == b {
		t.Fatalf("expected distinct token ids for distinct decimals")
	}
}
