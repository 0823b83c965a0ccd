package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"synnergy-multiledger/internal/entity"
	"synnergy-multiledger/internal/ledger"
)

// httpClient drives a running ledgerd over its /v1 HTTP boundary
// (SPEC_FULL.md §4.H, §6), grounded on the teacher's xchainserver client
// patterns (plain net/http + encoding/json, no generated SDK).
type httpClient struct {
	baseURL string
	hc      *http.Client
}

func newHTTPClient(baseURL string) *httpClient {
	return &httpClient{baseURL: baseURL, hc: &http.Client{Timeout: 10 * time.Second}}
}

type wireEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Kind    string          `json:"kind"`
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	} `json:"error"`
}

func (c *httpClient) do(method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env wireEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Error != nil {
		return fmt.Errorf("%s: %s", env.Error.Kind, env.Error.Message)
	}
	if out != nil {
		return json.Unmarshal(env.Result, out)
	}
	return nil
}

func hexAccount(a entity.Account) map[string]any {
	sub := hex.EncodeToString(a.Subaccount[:])
	return map[string]any{"owner": hex.EncodeToString(a.Owner), "subaccount": sub}
}

func amountOrEmpty(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func memoOrEmpty(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return hex.EncodeToString(b)
}

func (c *httpClient) CreateToken(caller entity.Principal, args ledger.CreateTokenArgs) (entity.TokenID, error) {
	req := map[string]any{
		"caller": hex.EncodeToString(caller), "name": args.Name, "symbol": args.Symbol,
		"decimals": args.Decimals, "total_supply": amountOrEmpty(args.TotalSupply),
		"fee": amountOrEmpty(args.Fee), "logo": args.Logo, "description": args.Description,
	}
	var out struct {
		TokenID string `json:"token_id"`
	}
	if err := c.do(http.MethodPost, "/v1/tokens", req, &out); err != nil {
		return entity.TokenID{}, err
	}
	b, err := hex.DecodeString(out.TokenID)
	if err != nil {
		return entity.TokenID{}, err
	}
	var id entity.TokenID
	copy(id[:], b)
	return id, nil
}

func (c *httpClient) SetTokenFee(caller entity.Principal, token entity.TokenID, fee *big.Int) error {
	req := map[string]any{"caller": hex.EncodeToString(caller), "fee": fee.String()}
	return c.do(http.MethodPost, "/v1/tokens/"+hex.EncodeToString(token[:])+"/fee", req, nil)
}

func (c *httpClient) Mint(caller entity.Principal, token entity.TokenID, args ledger.MintArgs) (uint64, error) {
	req := map[string]any{
		"caller": hex.EncodeToString(caller), "to": hexAccount(args.To),
		"amount": amountOrEmpty(args.Amount), "memo": memoOrEmpty(args.Memo),
	}
	return c.postTxID("/v1/tokens/"+hex.EncodeToString(token[:])+"/mint", req)
}

func (c *httpClient) Burn(caller entity.Principal, token entity.TokenID, args ledger.BurnArgs) (uint64, error) {
	req := map[string]any{
		"caller": hex.EncodeToString(caller), "amount": amountOrEmpty(args.Amount), "memo": memoOrEmpty(args.Memo),
	}
	return c.postTxID("/v1/tokens/"+hex.EncodeToString(token[:])+"/burn", req)
}

func (c *httpClient) BurnFrom(caller entity.Principal, token entity.TokenID, args ledger.BurnFromArgs) (uint64, error) {
	req := map[string]any{
		"caller": hex.EncodeToString(caller), "from": hexAccount(args.From),
		"amount": amountOrEmpty(args.Amount), "memo": memoOrEmpty(args.Memo),
	}
	return c.postTxID("/v1/tokens/"+hex.EncodeToString(token[:])+"/burn-from", req)
}

func (c *httpClient) Transfer(token entity.TokenID, args ledger.TransferArgs) (uint64, error) {
	req := map[string]any{
		"token_id": hex.EncodeToString(token[:]), "from": hexAccount(args.From), "to": hexAccount(args.To),
		"amount": amountOrEmpty(args.Amount), "fee": amountOrEmpty(args.Fee), "memo": memoOrEmpty(args.Memo),
		"created_at_time": args.CreatedAtTime,
	}
	return c.postTxID("/v1/transfer", req)
}

func (c *httpClient) Approve(token entity.TokenID, args ledger.ApproveArgs) (uint64, error) {
	req := map[string]any{
		"token_id": hex.EncodeToString(token[:]), "from": hexAccount(args.From), "spender": hexAccount(args.Spender),
		"amount": amountOrEmpty(args.Amount), "expires_at": args.ExpiresAt,
		"expected_allowance": amountOrEmpty(args.ExpectedAllowance), "fee": amountOrEmpty(args.Fee),
		"memo": memoOrEmpty(args.Memo), "created_at_time": args.CreatedAtTime,
	}
	return c.postTxID("/v1/approve", req)
}

func (c *httpClient) TransferFrom(token entity.TokenID, args ledger.TransferFromArgs) (uint64, error) {
	req := map[string]any{
		"token_id": hex.EncodeToString(token[:]), "spender": hexAccount(args.Spender),
		"from": hexAccount(args.From), "to": hexAccount(args.To),
		"amount": amountOrEmpty(args.Amount), "fee": amountOrEmpty(args.Fee), "memo": memoOrEmpty(args.Memo),
		"created_at_time": args.CreatedAtTime,
	}
	return c.postTxID("/v1/transfer-from", req)
}

func (c *httpClient) postTxID(path string, req any) (uint64, error) {
	var out struct {
		TxID uint64 `json:"tx_id"`
	}
	if err := c.do(http.MethodPost, path, req, &out); err != nil {
		return 0, err
	}
	return out.TxID, nil
}

func (c *httpClient) GetBalance(token entity.TokenID, acct entity.Account) (*big.Int, error) {
	q := url.Values{"owner": {hex.EncodeToString(acct.Owner)}, "owner_subaccount": {hex.EncodeToString(acct.Subaccount[:])}}
	var out struct {
		Balance string `json:"balance"`
	}
	path := "/v1/tokens/" + hex.EncodeToString(token[:]) + "/balance?" + q.Encode()
	if err := c.do(http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	v, _ := new(big.Int).SetString(out.Balance, 10)
	return v, nil
}

func (c *httpClient) GetTokenMetadata(token entity.TokenID) (entity.TokenMetadata, error) {
	var out struct {
		Name        string  `json:"name"`
		Symbol      string  `json:"symbol"`
		Decimals    uint8   `json:"decimals"`
		TotalSupply string  `json:"total_supply"`
		Fee         string  `json:"fee"`
		Logo        *string `json:"logo"`
		Description *string `json:"description"`
	}
	if err := c.do(http.MethodGet, "/v1/tokens/"+hex.EncodeToString(token[:]), nil, &out); err != nil {
		return entity.TokenMetadata{}, err
	}
	supply, _ := new(big.Int).SetString(out.TotalSupply, 10)
	fee, _ := new(big.Int).SetString(out.Fee, 10)
	return entity.TokenMetadata{
		Name: out.Name, Symbol: out.Symbol, Decimals: out.Decimals,
		TotalSupply: supply, Fee: fee, Logo: out.Logo, Description: out.Description,
	}, nil
}

func (c *httpClient) ListTokens() ([]ledger.TokenSummary, error) {
	var out []struct {
		TokenID string `json:"token_id"`
	}
	if err := c.do(http.MethodGet, "/v1/tokens", nil, &out); err != nil {
		return nil, err
	}
	summaries := make([]ledger.TokenSummary, 0, len(out))
	for _, t := range out {
		b, err := hex.DecodeString(t.TokenID)
		if err != nil {
			return nil, err
		}
		var id entity.TokenID
		copy(id[:], b)
		meta, err := c.GetTokenMetadata(id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ledger.TokenSummary{TokenID: id, Metadata: meta})
	}
	return summaries, nil
}

func (c *httpClient) GetAllowanceDetails(token entity.TokenID, owner, spender entity.Account) (ledger.AllowanceDetails, error) {
	q := url.Values{
		"owner": {hex.EncodeToString(owner.Owner)}, "owner_subaccount": {hex.EncodeToString(owner.Subaccount[:])},
		"spender": {hex.EncodeToString(spender.Owner)}, "spender_subaccount": {hex.EncodeToString(spender.Subaccount[:])},
	}
	var out struct {
		Allowance string  `json:"allowance"`
		ExpiresAt *uint64 `json:"expires_at"`
	}
	path := "/v1/tokens/" + hex.EncodeToString(token[:]) + "/allowance?" + q.Encode()
	if err := c.do(http.MethodGet, path, nil, &out); err != nil {
		return ledger.AllowanceDetails{}, err
	}
	v, _ := new(big.Int).SetString(out.Allowance, 10)
	return ledger.AllowanceDetails{Amount: v, ExpiresAt: out.ExpiresAt}, nil
}

func (c *httpClient) GetTransactions(token *entity.TokenID, start, limit *uint64) ([]entity.StoredTx, error) {
	if token == nil {
		return nil, fmt.Errorf("ledgerctl: a token id is required for tx history over HTTP")
	}
	q := url.Values{}
	if start != nil {
		q.Set("start", strconv.FormatUint(*start, 10))
	}
	if limit != nil {
		q.Set("limit", strconv.FormatUint(*limit, 10))
	}
	var out []struct {
		Op           uint8  `json:"op"`
		TokenID      string `json:"token_id"`
		FromOwner    string `json:"from_owner"`
		ToOwner      string `json:"to_owner"`
		SpenderOwner string `json:"spender_owner"`
		Amount       string `json:"amount"`
		Fee          string `json:"fee"`
		Timestamp    uint64 `json:"timestamp"`
		Memo         string `json:"memo"`
	}
	path := "/v1/tokens/" + hex.EncodeToString(token[:]) + "/transactions?" + q.Encode()
	if err := c.do(http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	txs := make([]entity.StoredTx, len(out))
	for i, t := range out {
		tx := entity.StoredTx{Op: entity.Op(t.Op), Timestamp: t.Timestamp}
		copy(tx.TokenID[:], mustHex(t.TokenID))
		copy(tx.FromOwner[:], mustHex(t.FromOwner))
		copy(tx.ToOwner[:], mustHex(t.ToOwner))
		copy(tx.SpenderOwner[:], mustHex(t.SpenderOwner))
		amt, _ := new(big.Int).SetString(t.Amount, 10)
		fee, _ := new(big.Int).SetString(t.Fee, 10)
		if amt != nil {
			tx.Amount = entity.EncodeAmount128(amt)
		}
		if fee != nil {
			tx.Fee = entity.EncodeAmount128(fee)
		}
		copy(tx.Memo[:], mustHex(t.Memo))
		txs[i] = tx
	}
	return txs, nil
}

func mustHex(s string) []byte {
	b, _ := hex.DecodeString(s)
	return b
}

func (c *httpClient) AddController(p entity.Principal) error {
	req := map[string]any{"principal": hex.EncodeToString(p)}
	return c.do(http.MethodPost, "/v1/controllers", req, nil)
}

func (c *httpClient) RemoveController(p entity.Principal) error {
	return c.do(http.MethodDelete, "/v1/controllers/"+hex.EncodeToString(p), nil, nil)
}

func (c *httpClient) ListControllers() []entity.Principal {
	var out []string
	_ = c.do(http.MethodGet, "/v1/controllers", nil, &out)
	ps := make([]entity.Principal, len(out))
	for i, s := range out {
		ps[i] = entity.Principal(mustHex(s))
	}
	return ps
}
