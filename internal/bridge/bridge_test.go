package bridge

import (
	"math/big"
	"testing"

	"synnergy-multiledger/internal/entity"
	"synnergy-multiledger/internal/ledger"
	"synnergy-multiledger/internal/pmem"
)

var relayerController = entity.Principal{0x07}

func newTestAdapter(t *testing.T) (*Adapter, entity.TokenID) {
	t.Helper()
	mgr := pmem.OpenMemory()
	l, err := ledger.Open(mgr, relayerController, ledger.SystemClock{})
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	id, err := l.CreateToken(relayerController, ledger.CreateTokenArgs{
		Name: "Wrapped", Symbol: "wBTC", Decimals: 8,
	})
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	return New(l, relayerController), id
}

func TestDepositMintsIntoRecipient(t *testing.T) {
	a, tok := newTestAdapter(t)
	recipient := entity.DefaultAccount(entity.Principal{0x42})

	txID, err := a.Deposit(tok, recipient, big.NewInt(5_000), []byte("ext-tx-1"))
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if txID != 0 {
		t.Fatalf("tx_id = %d, want 0", txID)
	}

	bal, err := a.ledger.GetBalance(tok, recipient)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if bal.Cmp(big.NewInt(5_000)) != 0 {
		t.Fatalf("balance = %s, want 5000", bal)
	}
}

func TestWithdrawBurnsFromSender(t *testing.T) {
	a, tok := newTestAdapter(t)
	sender := entity.DefaultAccount(entity.Principal{0x99})

	if _, err := a.Deposit(tok, sender, big.NewInt(1_000), nil); err != nil {
		t.Fatalf("seed Deposit: %v", err)
	}

	if _, err := a.Withdraw(tok, sender, big.NewInt(600), []byte("dest-addr")); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}

	bal, err := a.ledger.GetBalance(tok, sender)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if bal.Cmp(big.NewInt(400)) != 0 {
		t.Fatalf("balance = %s, want 400", bal)
	}
}

func TestWithdrawInsufficientFundsFails(t *testing.T) {
	a, tok := newTestAdapter(t)
	sender := entity.DefaultAccount(entity.Principal{0x55})

	if _, err := a.Withdraw(tok, sender, big.NewInt(1), nil); err == nil {
		t.Fatal("expected an error withdrawing against a zero balance")
	}
}
