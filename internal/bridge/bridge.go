// Package bridge expresses the cross-chain bridge use case named in
// SPEC_FULL.md §1 directly in terms of the ledger engine, grounded on the
// teacher's cross_chain_bridge.go (StartBridgeTransfer/CompleteBridgeTransfer
// locking and releasing escrowed balances). It holds no state of its own:
// a deposit is a Mint, a withdrawal is a BurnFrom, and wrapped-asset
// accounting lives entirely in the ledger's balances and supply, matching
// the spec's explicit non-goal of a parallel bridge ledger.
package bridge

import (
	"math/big"

	"synnergy-multiledger/internal/entity"
	"synnergy-multiledger/internal/ledger"
)

// Adapter is a thin, controller-only front end over a *ledger.Ledger for a
// bridge relayer process. Controller is the principal the adapter acts as
// when calling the engine; it must already be a ledger controller.
type Adapter struct {
	ledger     *ledger.Ledger
	controller entity.Principal
}

// New builds an Adapter driving ledg as controller.
func New(ledg *ledger.Ledger, controller entity.Principal) *Adapter {
	return &Adapter{ledger: ledg, controller: controller}
}

// Deposit mints the wrapped representation of an external-chain deposit
// into the recipient's account. memo conventionally carries the external
// chain's deposit reference so it can be correlated after the fact.
func (a *Adapter) Deposit(token entity.TokenID, to entity.Account, amount *big.Int, memo []byte) (uint64, error) {
	return a.ledger.Mint(a.controller, token, ledger.MintArgs{To: to, Amount: amount, Memo: memo})
}

// Withdraw burns the wrapped representation out of from's account ahead of
// releasing the underlying asset on the external chain. memo conventionally
// carries the external-chain destination address.
func (a *Adapter) Withdraw(token entity.TokenID, from entity.Account, amount *big.Int, memo []byte) (uint64, error) {
	return a.ledger.BurnFrom(a.controller, token, ledger.BurnFromArgs{From: from, Amount: amount, Memo: memo})
}
