package ledger

import (
	"math/big"

	"synnergy-multiledger/internal/entity"
)

// DefaultFee is substituted when create_token's fee argument is omitted
// (SPEC_FULL.md §6 "Defaults").
const DefaultFee = 10_000

// CreateTokenArgs mirrors create_token's arguments (SPEC_FULL.md §6).
type CreateTokenArgs struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply *big.Int // nil defaults to 0
	Fee         *big.Int // nil defaults to DefaultFee
	Logo        *string
	Description *string
}

// CreateToken derives a content-addressed TokenID from (name, symbol,
// decimals) and installs its metadata. Controller-only. If TotalSupply is
// positive, the bootstrap amount is credited directly to the controller's
// default account with no mint transaction recorded (SPEC_FULL.md §4.F).
func (l *Ledger) CreateToken(caller entity.Principal, args CreateTokenArgs) (entity.TokenID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.controllers.IsController(caller) {
		return entity.TokenID{}, genericf("Not authorized")
	}

	id := entity.DeriveTokenID(args.Name, args.Symbol, args.Decimals)
	if _, ok, err := l.getToken(id); err != nil {
		return entity.TokenID{}, genericf("%v", err)
	} else if ok {
		return entity.TokenID{}, genericf("Token already exists")
	}

	fee := args.Fee
	if fee == nil {
		fee = big.NewInt(DefaultFee)
	}
	supply := args.TotalSupply
	if supply == nil {
		supply = big.NewInt(0)
	}

	meta := entity.TokenMetadata{
		Name:        args.Name,
		Symbol:      args.Symbol,
		Decimals:    args.Decimals,
		TotalSupply: new(big.Int).Set(supply),
		Fee:         fee,
		Logo:        args.Logo,
		Description: args.Description,
	}
	if err := l.putToken(id, meta); err != nil {
		return entity.TokenID{}, genericf("%v", err)
	}
	if supply.Sign() > 0 {
		if err := l.setBalance(id, entity.DefaultAccount(caller), new(big.Int).Set(supply)); err != nil {
			return entity.TokenID{}, genericf("%v", err)
		}
	}
	return id, nil
}

// SetTokenFee updates a token's mutable fee field. Controller-only
// (SPEC_FULL.md §4.F).
func (l *Ledger) SetTokenFee(caller entity.Principal, token entity.TokenID, newFee *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.controllers.IsController(caller) {
		return genericf("Not authorized")
	}
	meta, ok, err := l.getToken(token)
	if err != nil {
		return genericf("%v", err)
	}
	if !ok {
		return genericf("Token not found")
	}
	meta.Fee = newFee
	return l.putToken(token, meta)
}
