package ledger

import (
	"math/big"
	"testing"
	"time"

	"synnergy-multiledger/internal/entity"
)

var (
	controller = entity.Principal{0x01}
	userX      = entity.Principal{0x02}
	userY      = entity.Principal{0x03}
	spenderS   = entity.Principal{0x04}
)

func mustCreateToken(t *testing.T, l *Ledger, fee int64, supply int64) entity.TokenID {
	t.Helper()
	var feeArg, supplyArg *big.Int
	if fee >= 0 {
		feeArg = big.NewInt(fee)
	}
	if supply > 0 {
		supplyArg = big.NewInt(supply)
	}
	id, err := l.CreateToken(controller, CreateTokenArgs{
		Name: "A", Symbol: "A", Decimals: 8, Fee: feeArg, TotalSupply: supplyArg,
	})
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	return id
}

// TestScenarioS1CreateMintTransferBalance is SPEC_FULL.md §8 scenario S1.
func TestScenarioS1CreateMintTransferBalance(t *testing.T) {
	l, _ := newTestLedger(controller)
	tok := mustCreateToken(t, l, 10, 0)

	accX := entity.DefaultAccount(userX)
	accY := entity.DefaultAccount(userY)

	mintID, err := l.Mint(controller, tok, MintArgs{To: accX, Amount: big.NewInt(1000)})
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if mintID != 0 {
		t.Fatalf("mint tx_id = %d, want 0", mintID)
	}

	xferID, err := l.Transfer(tok, TransferArgs{
		From: accX, To: accY, Amount: big.NewInt(300), Fee: big.NewInt(10),
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if xferID != 1 {
		t.Fatalf("transfer tx_id = %d, want 1", xferID)
	}

	balX, _ := l.GetBalance(tok, accX)
	balY, _ := l.GetBalance(tok, accY)
	supply, _ := l.GetTotalSupply(tok)
	if balX.Cmp(big.NewInt(690)) != 0 {
		t.Fatalf("balance(X) = %s, want 690", balX)
	}
	if balY.Cmp(big.NewInt(300)) != 0 {
		t.Fatalf("balance(Y) = %s, want 300", balY)
	}
	if supply.Cmp(big.NewInt(990)) != 0 {
		t.Fatalf("total_supply = %s, want 990", supply)
	}
	if got := l.GetTransactionCount(); got != 2 {
		t.Fatalf("transaction count = %d, want 2", got)
	}
}

// TestScenarioS2DuplicateDetection is SPEC_FULL.md §8 scenario S2.
func TestScenarioS2DuplicateDetection(t *testing.T) {
	l, clock := newTestLedger(controller)
	tok := mustCreateToken(t, l, 0, 0)
	accX := entity.DefaultAccount(userX)
	accY := entity.DefaultAccount(userY)
	l.Mint(controller, tok, MintArgs{To: accX, Amount: big.NewInt(1000)})

	ts := clock.now
	first, err := l.Transfer(tok, TransferArgs{From: accX, To: accY, Amount: big.NewInt(100), CreatedAtTime: &ts})
	if err != nil {
		t.Fatalf("first transfer: %v", err)
	}

	_, err = l.Transfer(tok, TransferArgs{From: accX, To: accY, Amount: big.NewInt(100), CreatedAtTime: &ts})
	dup, ok := err.(*Duplicate)
	if !ok {
		t.Fatalf("second transfer error = %v (%T), want *Duplicate", err, err)
	}
	if dup.DuplicateOf != first {
		t.Fatalf("Duplicate.DuplicateOf = %d, want %d", dup.DuplicateOf, first)
	}
	if got := l.GetTransactionCount(); got != 2 {
		t.Fatalf("transaction count = %d, want 2 (mint + first transfer; no entry for the duplicate)", got)
	}

	clock.now = ts + uint64(24*time.Hour) + 2
	third, err := l.Transfer(tok, TransferArgs{From: accX, To: accY, Amount: big.NewInt(100), CreatedAtTime: &ts})
	if err != nil {
		t.Fatalf("post-window transfer: %v", err)
	}
	if third == first {
		t.Fatalf("post-window transfer should get a fresh tx_id")
	}
}

// TestScenarioS3ApproveExpectedAllowanceRace is SPEC_FULL.md §8 scenario S3.
func TestScenarioS3ApproveExpectedAllowanceRace(t *testing.T) {
	l, _ := newTestLedger(controller)
	tok := mustCreateToken(t, l, 0, 0)
	accX := entity.DefaultAccount(userX)
	accS := entity.DefaultAccount(spenderS)
	l.Mint(controller, tok, MintArgs{To: accX, Amount: big.NewInt(1000)})

	if _, err := l.Approve(tok, ApproveArgs{From: accX, Spender: accS, Amount: big.NewInt(50)}); err != nil {
		t.Fatalf("first approve: %v", err)
	}

	_, err := l.Approve(tok, ApproveArgs{
		From: accX, Spender: accS, Amount: big.NewInt(200), ExpectedAllowance: big.NewInt(49),
	})
	ac, ok := err.(*AllowanceChanged)
	if !ok {
		t.Fatalf("second approve error = %v (%T), want *AllowanceChanged", err, err)
	}
	if ac.CurrentAllowance.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("CurrentAllowance = %s, want 50", ac.CurrentAllowance)
	}

	got, _ := l.GetAllowance(tok, accX, accS)
	if got.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("allowance after failed CAS = %s, want unchanged 50", got)
	}
}

// TestScenarioS4TransferFromDebitsAllowanceAndBalance is SPEC_FULL.md §8
// scenario S4.
func TestScenarioS4TransferFromDebitsAllowanceAndBalance(t *testing.T) {
	l, _ := newTestLedger(controller)
	tok := mustCreateToken(t, l, 10, 0)
	accX := entity.DefaultAccount(userX)
	accY := entity.DefaultAccount(userY)
	accS := entity.DefaultAccount(spenderS)
	l.Mint(controller, tok, MintArgs{To: accX, Amount: big.NewInt(1000)})
	if _, err := l.Approve(tok, ApproveArgs{From: accX, Spender: accS, Amount: big.NewInt(50)}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if _, err := l.TransferFrom(tok, TransferFromArgs{
		Spender: accS, From: accX, To: accY, Amount: big.NewInt(30), Fee: big.NewInt(10),
	}); err != nil {
		t.Fatalf("TransferFrom: %v", err)
	}

	balX, _ := l.GetBalance(tok, accX)
	balY, _ := l.GetBalance(tok, accY)
	allowance, _ := l.GetAllowance(tok, accX, accS)
	// 1000 minted, -10 approve fee, -(30 + 10) transfer_from.
	if balX.Cmp(big.NewInt(950)) != 0 {
		t.Fatalf("balance(X) = %s, want 950", balX)
	}
	if balY.Cmp(big.NewInt(30)) != 0 {
		t.Fatalf("balance(Y) = %s, want 30", balY)
	}
	if allowance.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("allowance = %s, want 10", allowance)
	}
}

// TestScenarioS5FeeMismatch is SPEC_FULL.md §8 scenario S5.
func TestScenarioS5FeeMismatch(t *testing.T) {
	l, _ := newTestLedger(controller)
	tok := mustCreateToken(t, l, 10, 0)
	accX := entity.DefaultAccount(userX)
	accY := entity.DefaultAccount(userY)
	l.Mint(controller, tok, MintArgs{To: accX, Amount: big.NewInt(1000)})

	_, err := l.Transfer(tok, TransferArgs{From: accX, To: accY, Amount: big.NewInt(100), Fee: big.NewInt(5)})
	bf, ok := err.(*BadFee)
	if !ok {
		t.Fatalf("error = %v (%T), want *BadFee", err, err)
	}
	if bf.ExpectedFee.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("ExpectedFee = %s, want 10", bf.ExpectedFee)
	}
	if got := l.GetTransactionCount(); got != 1 {
		t.Fatalf("transaction count = %d, want 1 (mint only)", got)
	}
	balX, _ := l.GetBalance(tok, accX)
	if balX.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("balance(X) = %s, want unchanged 1000", balX)
	}
}

// TestScenarioS6RemoveLastController is SPEC_FULL.md §8 scenario S6.
func TestScenarioS6RemoveLastController(t *testing.T) {
	l, _ := newTestLedger(controller)
	if err := l.Controllers().RemoveController(controller); err == nil {
		t.Fatalf("expected error removing the last controller")
	}
	if !l.Controllers().IsController(controller) {
		t.Fatalf("controller set should be unchanged")
	}
}

// TestMintBurnRoundTrip verifies SPEC_FULL.md §8's idempotence law:
// mint(a, n); burn(a, n) restores balance and supply and writes exactly two
// log entries.
func TestMintBurnRoundTrip(t *testing.T) {
	l, _ := newTestLedger(controller)
	tok := mustCreateToken(t, l, 0, 0)
	accX := entity.DefaultAccount(userX)

	if _, err := l.Mint(controller, tok, MintArgs{To: accX, Amount: big.NewInt(500)}); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := l.Burn(userX, tok, BurnArgs{Amount: big.NewInt(500)}); err != nil {
		t.Fatalf("Burn: %v", err)
	}

	bal, _ := l.GetBalance(tok, accX)
	supply, _ := l.GetTotalSupply(tok)
	if bal.Sign() != 0 {
		t.Fatalf("balance after round trip = %s, want 0", bal)
	}
	if supply.Sign() != 0 {
		t.Fatalf("supply after round trip = %s, want 0", supply)
	}
	if got := l.GetTransactionCount(); got != 2 {
		t.Fatalf("transaction count = %d, want 2", got)
	}
}

// TestTransferInsufficientFunds verifies an over-amount transfer is
// rejected without mutating any state.
func TestTransferInsufficientFunds(t *testing.T) {
	l, _ := newTestLedger(controller)
	tok := mustCreateToken(t, l, 0, 0)
	accX := entity.DefaultAccount(userX)
	accY := entity.DefaultAccount(userY)
	l.Mint(controller, tok, MintArgs{To: accX, Amount: big.NewInt(10)})

	_, err := l.Transfer(tok, TransferArgs{From: accX, To: accY, Amount: big.NewInt(11)})
	if _, ok := err.(*InsufficientFunds); !ok {
		t.Fatalf("error = %v (%T), want *InsufficientFunds", err, err)
	}
}

// TestMintRequiresController verifies non-controllers cannot mint.
func TestMintRequiresController(t *testing.T) {
	l, _ := newTestLedger(controller)
	tok := mustCreateToken(t, l, 0, 0)
	_, err := l.Mint(userX, tok, MintArgs{To: entity.DefaultAccount(userX), Amount: big.NewInt(1)})
	if err == nil {
		t.Fatalf("expected authorization error")
	}
}

// TestCreateTokenRejectsDuplicateIdentity verifies two tokens with the same
// (name, symbol, decimals) cannot coexist (SPEC_FULL.md §3).
func TestCreateTokenRejectsDuplicateIdentity(t *testing.T) {
	l, _ := newTestLedger(controller)
	mustCreateToken(t, l, 0, 0)
	_, err := l.CreateToken(controller, CreateTokenArgs{Name: "A", Symbol: "A", Decimals: 8})
	if err == nil {
		t.Fatalf("expected error creating a duplicate token identity")
	}
}

// TestTimestampWindowBoundaries checks the exact boundary behavior named in
// SPEC_FULL.md §8 ("Boundary tests").
func TestTimestampWindowBoundaries(t *testing.T) {
	l, clock := newTestLedger(controller)
	tok := mustCreateToken(t, l, 0, 0)
	accX := entity.DefaultAccount(userX)
	accY := entity.DefaultAccount(userY)
	l.Mint(controller, tok, MintArgs{To: accX, Amount: big.NewInt(1000)})

	dayNs := uint64(24 * time.Hour)
	okTs := clock.now - dayNs
	if _, err := l.Transfer(tok, TransferArgs{From: accX, To: accY, Amount: big.NewInt(1), CreatedAtTime: &okTs}); err != nil {
		t.Fatalf("created_at_time exactly now-24h should be accepted: %v", err)
	}

	tooOldTs := clock.now - dayNs - 1
	_, err := l.Transfer(tok, TransferArgs{From: accX, To: accY, Amount: big.NewInt(1), CreatedAtTime: &tooOldTs})
	if _, ok := err.(*TooOld); !ok {
		t.Fatalf("error = %v (%T), want *TooOld", err, err)
	}

	futureOkTs := clock.now + uint64(5*time.Minute)
	if _, err := l.Transfer(tok, TransferArgs{From: accX, To: accY, Amount: big.NewInt(1), CreatedAtTime: &futureOkTs}); err != nil {
		t.Fatalf("created_at_time exactly now+5m should be accepted: %v", err)
	}

	futureBadTs := clock.now + uint64(5*time.Minute) + 1
	_, err = l.Transfer(tok, TransferArgs{From: accX, To: accY, Amount: big.NewInt(1), CreatedAtTime: &futureBadTs})
	if _, ok := err.(*CreatedInFuture); !ok {
		t.Fatalf("error = %v (%T), want *CreatedInFuture", err, err)
	}
}

// TestMemoTruncation verifies a 33-byte memo is silently truncated to 32
// bytes and that the truncated form is what gets fingerprinted (so a
// resubmission with the already-truncated 32-byte memo dedups against it).
func TestMemoTruncation(t *testing.T) {
	l, _ := newTestLedger(controller)
	tok := mustCreateToken(t, l, 0, 0)
	accX := entity.DefaultAccount(userX)
	accY := entity.DefaultAccount(userY)
	l.Mint(controller, tok, MintArgs{To: accX, Amount: big.NewInt(1000)})

	longMemo := make([]byte, 33)
	for i := range longMemo {
		longMemo[i] = byte(i)
	}
	ts := uint64(1_700_000_000_000_000_000)
	first, err := l.Transfer(tok, TransferArgs{From: accX, To: accY, Amount: big.NewInt(1), Memo: longMemo, CreatedAtTime: &ts})
	if err != nil {
		t.Fatalf("transfer with 33-byte memo: %v", err)
	}

	truncated := longMemo[:32]
	_, err = l.Transfer(tok, TransferArgs{From: accX, To: accY, Amount: big.NewInt(1), Memo: truncated, CreatedAtTime: &ts})
	dup, ok := err.(*Duplicate)
	if !ok {
		t.Fatalf("resubmission with pre-truncated memo should dedup; error = %v (%T)", err, err)
	}
	if dup.DuplicateOf != first {
		t.Fatalf("Duplicate.DuplicateOf = %d, want %d", dup.DuplicateOf, first)
	}
}

// TestHolderCountAndBalancesFor exercises GetHolderCount and
// GetBalancesFor across multiple tokens and accounts.
func TestHolderCountAndBalancesFor(t *testing.T) {
	l, _ := newTestLedger(controller)
	tokA := mustCreateToken(t, l, 0, 0)
	idB, err := l.CreateToken(controller, CreateTokenArgs{Name: "B", Symbol: "B", Decimals: 2})
	if err != nil {
		t.Fatalf("CreateToken B: %v", err)
	}
	accX := entity.DefaultAccount(userX)
	accY := entity.DefaultAccount(userY)

	l.Mint(controller, tokA, MintArgs{To: accX, Amount: big.NewInt(10)})
	l.Mint(controller, tokA, MintArgs{To: accY, Amount: big.NewInt(20)})
	l.Mint(controller, idB, MintArgs{To: accX, Amount: big.NewInt(5)})

	if got := l.GetHolderCount(tokA); got != 2 {
		t.Fatalf("GetHolderCount(A) = %d, want 2", got)
	}
	if got := l.GetHolderCount(idB); got != 1 {
		t.Fatalf("GetHolderCount(B) = %d, want 1", got)
	}

	balances, err := l.GetBalancesFor(userX, [32]byte{})
	if err != nil {
		t.Fatalf("GetBalancesFor: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("len(GetBalancesFor(X)) = %d, want 2", len(balances))
	}
}

// TestGetTransactionsPaginationFiltersByToken verifies the "read limit then
// filter" pagination semantics of SPEC_FULL.md §4.G / §9.
func TestGetTransactionsPaginationFiltersByToken(t *testing.T) {
	l, _ := newTestLedger(controller)
	tokA := mustCreateToken(t, l, 0, 0)
	idB, _ := l.CreateToken(controller, CreateTokenArgs{Name: "B", Symbol: "B", Decimals: 2})
	accX := entity.DefaultAccount(userX)

	l.Mint(controller, tokA, MintArgs{To: accX, Amount: big.NewInt(1)})
	l.Mint(controller, idB, MintArgs{To: accX, Amount: big.NewInt(1)})
	l.Mint(controller, tokA, MintArgs{To: accX, Amount: big.NewInt(1)})

	limit := uint64(2)
	txs, err := l.GetTransactions(&tokA, nil, &limit)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("len(txs) = %d, want 1 (only tx 0 of the first 2 reads matches token A)", len(txs))
	}
}
