package main

import (
	"math/big"

	"synnergy-multiledger/internal/entity"
	"synnergy-multiledger/internal/ledger"
)

// client is the operation surface ledgerctl's commands drive, either
// against a running ledgerd over HTTP or directly against an embedded
// ledger. httpClient and embeddedClient are its two implementations.
type client interface {
	CreateToken(caller entity.Principal, args ledger.CreateTokenArgs) (entity.TokenID, error)
	SetTokenFee(caller entity.Principal, token entity.TokenID, fee *big.Int) error
	Mint(caller entity.Principal, token entity.TokenID, args ledger.MintArgs) (uint64, error)
	Burn(caller entity.Principal, token entity.TokenID, args ledger.BurnArgs) (uint64, error)
	BurnFrom(caller entity.Principal, token entity.TokenID, args ledger.BurnFromArgs) (uint64, error)
	Transfer(token entity.TokenID, args ledger.TransferArgs) (uint64, error)
	Approve(token entity.TokenID, args ledger.ApproveArgs) (uint64, error)
	TransferFrom(token entity.TokenID, args ledger.TransferFromArgs) (uint64, error)

	GetBalance(token entity.TokenID, acct entity.Account) (*big.Int, error)
	GetTokenMetadata(token entity.TokenID) (entity.TokenMetadata, error)
	ListTokens() ([]ledger.TokenSummary, error)
	GetAllowanceDetails(token entity.TokenID, owner, spender entity.Account) (ledger.AllowanceDetails, error)
	GetTransactions(token *entity.TokenID, start, limit *uint64) ([]entity.StoredTx, error)

	AddController(p entity.Principal) error
	RemoveController(p entity.Principal) error
	ListControllers() []entity.Principal
}
