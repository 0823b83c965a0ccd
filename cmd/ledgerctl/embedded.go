package main

import (
	"math/big"

	"synnergy-multiledger/internal/entity"
	"synnergy-multiledger/internal/ledger"
	"synnergy-multiledger/internal/pmem"
)

// embeddedClient drives a *ledger.Ledger opened directly against a local
// WAL/snapshot pair, for ad-hoc scripting without a running ledgerd
// (SPEC_FULL.md §4.H).
type embeddedClient struct {
	mgr *pmem.Manager
	led *ledger.Ledger
}

func newEmbeddedClient(walPath, snapshotPath string, genesis entity.Principal) (*embeddedClient, error) {
	mgr, err := pmem.Open(walPath, snapshotPath)
	if err != nil {
		return nil, err
	}
	led, err := ledger.Open(mgr, genesis, nil)
	if err != nil {
		return nil, err
	}
	return &embeddedClient{mgr: mgr, led: led}, nil
}

func (c *embeddedClient) Close() error { return c.mgr.Close() }

func (c *embeddedClient) CreateToken(caller entity.Principal, args ledger.CreateTokenArgs) (entity.TokenID, error) {
	return c.led.CreateToken(caller, args)
}

func (c *embeddedClient) SetTokenFee(caller entity.Principal, token entity.TokenID, fee *big.Int) error {
	return c.led.SetTokenFee(caller, token, fee)
}

func (c *embeddedClient) Mint(caller entity.Principal, token entity.TokenID, args ledger.MintArgs) (uint64, error) {
	return c.led.Mint(caller, token, args)
}

func (c *embeddedClient) Burn(caller entity.Principal, token entity.TokenID, args ledger.BurnArgs) (uint64, error) {
	return c.led.Burn(caller, token, args)
}

func (c *embeddedClient) BurnFrom(caller entity.Principal, token entity.TokenID, args ledger.BurnFromArgs) (uint64, error) {
	return c.led.BurnFrom(caller, token, args)
}

func (c *embeddedClient) Transfer(token entity.TokenID, args ledger.TransferArgs) (uint64, error) {
	return c.led.Transfer(token, args)
}

func (c *embeddedClient) Approve(token entity.TokenID, args ledger.ApproveArgs) (uint64, error) {
	return c.led.Approve(token, args)
}

func (c *embeddedClient) TransferFrom(token entity.TokenID, args ledger.TransferFromArgs) (uint64, error) {
	return c.led.TransferFrom(token, args)
}

func (c *embeddedClient) GetBalance(token entity.TokenID, acct entity.Account) (*big.Int, error) {
	return c.led.GetBalance(token, acct)
}

func (c *embeddedClient) GetTokenMetadata(token entity.TokenID) (entity.TokenMetadata, error) {
	return c.led.GetTokenMetadata(token)
}

func (c *embeddedClient) ListTokens() ([]ledger.TokenSummary, error) { return c.led.ListTokens() }

func (c *embeddedClient) GetAllowanceDetails(token entity.TokenID, owner, spender entity.Account) (ledger.AllowanceDetails, error) {
	return c.led.GetAllowanceDetails(token, owner, spender)
}

func (c *embeddedClient) GetTransactions(token *entity.TokenID, start, limit *uint64) ([]entity.StoredTx, error) {
	return c.led.GetTransactions(token, start, limit)
}

func (c *embeddedClient) AddController(p entity.Principal) error {
	return c.led.Controllers().AddController(p)
}

func (c *embeddedClient) RemoveController(p entity.Principal) error {
	return c.led.Controllers().RemoveController(p)
}

func (c *embeddedClient) ListControllers() []entity.Principal {
	return c.led.Controllers().ListControllers()
}
