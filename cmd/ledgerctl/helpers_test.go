package main

import (
	"math/big"
	"strings"
	"testing"
)

func TestDecodeHexControllerEmptyIsNil(t *testing.T) {
	p, err := decodeHexController("")
	if err != nil {
		t.Fatalf("decodeHexController(\"\") error: %v", err)
	}
	if p != nil {
		t.Fatalf("decodeHexController(\"\") = %v, want nil", p)
	}
}

func TestDecodeHexControllerInvalidHex(t *testing.T) {
	if _, err := decodeHexController("zz"); err == nil {
		t.Fatal("expected an error for invalid hex")
	}
}

func TestParseTokenIDArgRoundTrip(t *testing.T) {
	// 32 bytes == 64 hex chars.
	in := "aa" + strings.Repeat("00", 31)
	if len(in) != 64 {
		t.Fatalf("test fixture length %d, want 64", len(in))
	}
	id, err := parseTokenIDArg(in)
	if err != nil {
		t.Fatalf("parseTokenIDArg: %v", err)
	}
	if id[0] != 0xaa {
		t.Fatalf("id[0] = %x, want 0xaa", id[0])
	}
}

func TestParseTokenIDArgWrongLength(t *testing.T) {
	if _, err := parseTokenIDArg("aabb"); err == nil {
		t.Fatal("expected an error for a too-short token id")
	}
}

func TestParseAccountArgOwnerOnly(t *testing.T) {
	acct, err := parseAccountArg("aa01")
	if err != nil {
		t.Fatalf("parseAccountArg: %v", err)
	}
	if len(acct.Owner) != 2 || acct.Owner[0] != 0xaa || acct.Owner[1] != 0x01 {
		t.Fatalf("owner = %x, want aa01", []byte(acct.Owner))
	}
	var zero [32]byte
	if acct.Subaccount != zero {
		t.Fatalf("subaccount = %x, want all-zero", acct.Subaccount)
	}
}

func TestParseAccountArgWithSubaccount(t *testing.T) {
	sub := strings.Repeat("11", 32)
	acct, err := parseAccountArg("aa:" + sub)
	if err != nil {
		t.Fatalf("parseAccountArg: %v", err)
	}
	if acct.Subaccount[0] != 0x11 {
		t.Fatalf("subaccount[0] = %x, want 0x11", acct.Subaccount[0])
	}
}

func TestParseAccountArgBadSubaccountLength(t *testing.T) {
	if _, err := parseAccountArg("aa:bbcc"); err == nil {
		t.Fatal("expected an error for a short subaccount")
	}
}

func TestParseAmountArgEmptyIsNil(t *testing.T) {
	v, err := parseAmountArg("")
	if err != nil {
		t.Fatalf("parseAmountArg(\"\") error: %v", err)
	}
	if v != nil {
		t.Fatalf("parseAmountArg(\"\") = %v, want nil", v)
	}
}

func TestParseAmountArgRejectsNegative(t *testing.T) {
	if _, err := parseAmountArg("-1"); err == nil {
		t.Fatal("expected an error for a negative amount")
	}
}

func TestParseAmountArgValid(t *testing.T) {
	v, err := parseAmountArg("12345")
	if err != nil {
		t.Fatalf("parseAmountArg: %v", err)
	}
	if v.Cmp(big.NewInt(12345)) != 0 {
		t.Fatalf("v = %s, want 12345", v)
	}
}

func TestParseMemoArgEmptyIsNil(t *testing.T) {
	m, err := parseMemoArg("")
	if err != nil {
		t.Fatalf("parseMemoArg(\"\") error: %v", err)
	}
	if m != nil {
		t.Fatalf("parseMemoArg(\"\") = %v, want nil", m)
	}
}

func TestParseMemoArgDecodes(t *testing.T) {
	m, err := parseMemoArg("deadbeef")
	if err != nil {
		t.Fatalf("parseMemoArg: %v", err)
	}
	want := []byte{0xde, 0xad, 0xbe, 0xef}
	if len(m) != len(want) {
		t.Fatalf("len(m) = %d, want %d", len(m), len(want))
	}
	for i := range want {
		if m[i] != want[i] {
			t.Fatalf("m[%d] = %x, want %x", i, m[i], want[i])
		}
	}
}
