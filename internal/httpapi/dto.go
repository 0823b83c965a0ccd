package httpapi

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"

	"synnergy-multiledger/internal/entity"
)

// accountDTO is the wire shape of entity.Account: a hex-encoded owner
// principal plus an optional hex-encoded 32-byte subaccount. Omitting
// Subaccount selects the default (all-zero) subaccount.
type accountDTO struct {
	Owner      string  `json:"owner"`
	Subaccount *string `json:"subaccount,omitempty"`
}

func (d accountDTO) toAccount() (entity.Account, error) {
	owner, err := hex.DecodeString(d.Owner)
	if err != nil {
		return entity.Account{}, fmt.Errorf("owner: %w", err)
	}
	acct := entity.Account{Owner: entity.Principal(owner)}
	if d.Subaccount != nil {
		sub, err := hex.DecodeString(*d.Subaccount)
		if err != nil {
			return entity.Account{}, fmt.Errorf("subaccount: %w", err)
		}
		if len(sub) != 32 {
			return entity.Account{}, fmt.Errorf("subaccount must be 32 bytes, got %d", len(sub))
		}
		copy(acct.Subaccount[:], sub)
	}
	return acct, nil
}

func accountToDTO(a entity.Account) accountDTO {
	sub := hex.EncodeToString(a.Subaccount[:])
	return accountDTO{Owner: hex.EncodeToString(a.Owner), Subaccount: &sub}
}

func parseTokenID(hexStr string) (entity.TokenID, error) {
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return entity.TokenID{}, fmt.Errorf("token id: %w", err)
	}
	if len(b) != entity.TokenIDLen {
		return entity.TokenID{}, fmt.Errorf("token id must be %d bytes, got %d", entity.TokenIDLen, len(b))
	}
	var id entity.TokenID
	copy(id[:], b)
	return id, nil
}

func tokenIDHex(id entity.TokenID) string { return hex.EncodeToString(id[:]) }

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("amount is required")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("amount must be a non-negative decimal integer")
	}
	return v, nil
}

// parseOptionalAmount parses s if non-empty, else returns nil (meaning
// "not supplied" rather than "zero").
func parseOptionalAmount(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	return parseAmount(s)
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func parseMemo(hexStr string) ([]byte, error) {
	if hexStr == "" {
		return nil, nil
	}
	return hex.DecodeString(hexStr)
}

func memoHex(b []byte) string { return hex.EncodeToString(b) }

// tokenMetadataDTO is the wire shape of entity.TokenMetadata.
type tokenMetadataDTO struct {
	TokenID     string  `json:"token_id"`
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Decimals    uint8   `json:"decimals"`
	TotalSupply string  `json:"total_supply"`
	Fee         string  `json:"fee"`
	Logo        *string `json:"logo,omitempty"`
	Description *string `json:"description,omitempty"`
}

func metadataToDTO(id entity.TokenID, m entity.TokenMetadata) tokenMetadataDTO {
	return tokenMetadataDTO{
		TokenID:     tokenIDHex(id),
		Name:        m.Name,
		Symbol:      m.Symbol,
		Decimals:    m.Decimals,
		TotalSupply: amountString(m.TotalSupply),
		Fee:         amountString(m.Fee),
		Logo:        m.Logo,
		Description: m.Description,
	}
}

// storedTxDTO is the wire shape of a history entry: its decoded fields for
// convenience, plus Raw, the 256-byte packed record base64-encoded, matching
// SPEC_FULL.md §6 ("history endpoints return it base64-encoded inside the
// JSON envelope, or raw via ?format=raw"). handleTransactions serves the
// ?format=raw variant by writing the same bytes un-encoded as
// application/octet-stream instead of populating this struct.
type storedTxDTO struct {
	Op           uint8  `json:"op"`
	TokenID      string `json:"token_id"`
	FromOwner    string `json:"from_owner"`
	ToOwner      string `json:"to_owner"`
	SpenderOwner string `json:"spender_owner"`
	Amount       string `json:"amount"`
	Fee          string `json:"fee"`
	Timestamp    uint64 `json:"timestamp"`
	Memo         string `json:"memo"`
	Raw          string `json:"raw"`
}

func storedTxToDTO(tx entity.StoredTx) storedTxDTO {
	rec := tx.Encode()
	return storedTxDTO{
		Op:           uint8(tx.Op),
		TokenID:      hex.EncodeToString(tx.TokenID[:]),
		FromOwner:    hex.EncodeToString(tx.FromOwner[:]),
		ToOwner:      hex.EncodeToString(tx.ToOwner[:]),
		SpenderOwner: hex.EncodeToString(tx.SpenderOwner[:]),
		Amount:       new(big.Int).SetBytes(tx.Amount[:]).String(),
		Fee:          new(big.Int).SetBytes(tx.Fee[:]).String(),
		Timestamp:    tx.Timestamp,
		Memo:         hex.EncodeToString(tx.Memo[:]),
		Raw:          base64.StdEncoding.EncodeToString(rec[:]),
	}
}
