package httpapi

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"synnergy-multiledger/internal/entity"
	"synnergy-multiledger/internal/ledger"
)

// --- token lifecycle -------------------------------------------------

type createTokenRequest struct {
	Caller      string  `json:"caller"`
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Decimals    uint8   `json:"decimals"`
	TotalSupply string  `json:"total_supply,omitempty"`
	Fee         string  `json:"fee,omitempty"`
	Logo        *string `json:"logo,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (s *Server) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	var req createTokenRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	caller, err := decodeHexPrincipal(req.Caller)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	supply, err := parseOptionalAmount(req.TotalSupply)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	fee, err := parseOptionalAmount(req.Fee)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	id, err := s.ledger.CreateToken(caller, ledger.CreateTokenArgs{
		Name: req.Name, Symbol: req.Symbol, Decimals: req.Decimals,
		TotalSupply: supply, Fee: fee, Logo: req.Logo, Description: req.Description,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeResult(w, map[string]string{"token_id": tokenIDHex(id)})
}

func (s *Server) handleListTokens(w http.ResponseWriter, _ *http.Request) {
	tokens, err := s.ledger.ListTokens()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	out := make([]tokenMetadataDTO, len(tokens))
	for i, t := range tokens {
		out[i] = metadataToDTO(t.TokenID, t.Metadata)
	}
	writeResult(w, out)
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	id, err := parseTokenID(mux.Vars(r)["id"])
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	meta, err := s.ledger.GetTokenMetadata(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeResult(w, metadataToDTO(id, meta))
}

type setFeeRequest struct {
	Caller string `json:"caller"`
	Fee    string `json:"fee"`
}

func (s *Server) handleSetFee(w http.ResponseWriter, r *http.Request) {
	id, err := parseTokenID(mux.Vars(r)["id"])
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	var req setFeeRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	caller, err := decodeHexPrincipal(req.Caller)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	fee, err := parseAmount(req.Fee)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := s.ledger.SetTokenFee(caller, id, fee); err != nil {
		writeEngineError(w, err)
		return
	}
	writeResult(w, map[string]bool{"ok": true})
}

// --- mint / burn -------------------------------------------------

type mintRequest struct {
	Caller string     `json:"caller"`
	To     accountDTO `json:"to"`
	Amount string     `json:"amount"`
	Memo   string      `json:"memo,omitempty"`
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	id, err := parseTokenID(mux.Vars(r)["id"])
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	var req mintRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	caller, err := decodeHexPrincipal(req.Caller)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	to, err := req.To.toAccount()
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	memo, err := parseMemo(req.Memo)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	txID, err := s.ledger.Mint(caller, id, ledger.MintArgs{To: to, Amount: amount, Memo: memo})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeResult(w, map[string]uint64{"tx_id": txID})
}

type burnRequest struct {
	Caller string `json:"caller"`
	Amount string `json:"amount"`
	Memo   string  `json:"memo,omitempty"`
}

func (s *Server) handleBurn(w http.ResponseWriter, r *http.Request) {
	id, err := parseTokenID(mux.Vars(r)["id"])
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	var req burnRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	caller, err := decodeHexPrincipal(req.Caller)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	memo, err := parseMemo(req.Memo)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	txID, err := s.ledger.Burn(caller, id, ledger.BurnArgs{Amount: amount, Memo: memo})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeResult(w, map[string]uint64{"tx_id": txID})
}

type burnFromRequest struct {
	Caller string     `json:"caller"`
	From   accountDTO `json:"from"`
	Amount string     `json:"amount"`
	Memo   string      `json:"memo,omitempty"`
}

func (s *Server) handleBurnFrom(w http.ResponseWriter, r *http.Request) {
	id, err := parseTokenID(mux.Vars(r)["id"])
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	var req burnFromRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	caller, err := decodeHexPrincipal(req.Caller)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	from, err := req.From.toAccount()
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	memo, err := parseMemo(req.Memo)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	txID, err := s.ledger.BurnFrom(caller, id, ledger.BurnFromArgs{From: from, Amount: amount, Memo: memo})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeResult(w, map[string]uint64{"tx_id": txID})
}

// --- transfer / approve / transfer-from -------------------------------------------------

type transferRequest struct {
	TokenID       string     `json:"token_id"`
	From          accountDTO `json:"from"`
	To            accountDTO `json:"to"`
	Amount        string     `json:"amount"`
	Fee           string      `json:"fee,omitempty"`
	Memo          string      `json:"memo,omitempty"`
	CreatedAtTime *uint64    `json:"created_at_time,omitempty"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	id, from, to, amount, fee, memo, err := decodeTransferLike(req.TokenID, req.From, req.To, req.Amount, req.Fee, req.Memo)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	txID, err := s.ledger.Transfer(id, ledger.TransferArgs{
		From: from, To: to, Amount: amount, Fee: fee, Memo: memo, CreatedAtTime: req.CreatedAtTime,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeResult(w, map[string]uint64{"tx_id": txID})
}

type approveRequest struct {
	TokenID           string     `json:"token_id"`
	From              accountDTO `json:"from"`
	Spender           accountDTO `json:"spender"`
	Amount            string     `json:"amount"`
	ExpiresAt         *uint64    `json:"expires_at,omitempty"`
	ExpectedAllowance string      `json:"expected_allowance,omitempty"`
	Fee               string      `json:"fee,omitempty"`
	Memo              string      `json:"memo,omitempty"`
	CreatedAtTime     *uint64    `json:"created_at_time,omitempty"`
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	id, err := parseTokenID(req.TokenID)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	from, err := req.From.toAccount()
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	spender, err := req.Spender.toAccount()
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	expected, err := parseOptionalAmount(req.ExpectedAllowance)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	fee, err := parseOptionalAmount(req.Fee)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	memo, err := parseMemo(req.Memo)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	txID, err := s.ledger.Approve(id, ledger.ApproveArgs{
		From: from, Spender: spender, Amount: amount, ExpiresAt: req.ExpiresAt,
		ExpectedAllowance: expected, Fee: fee, Memo: memo, CreatedAtTime: req.CreatedAtTime,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeResult(w, map[string]uint64{"tx_id": txID})
}

type transferFromRequest struct {
	TokenID       string     `json:"token_id"`
	Spender       accountDTO `json:"spender"`
	From          accountDTO `json:"from"`
	To            accountDTO `json:"to"`
	Amount        string     `json:"amount"`
	Fee           string      `json:"fee,omitempty"`
	Memo          string      `json:"memo,omitempty"`
	CreatedAtTime *uint64    `json:"created_at_time,omitempty"`
}

func (s *Server) handleTransferFrom(w http.ResponseWriter, r *http.Request) {
	var req transferFromRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	id, err := parseTokenID(req.TokenID)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	spender, err := req.Spender.toAccount()
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	from, err := req.From.toAccount()
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	to, err := req.To.toAccount()
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	fee, err := parseOptionalAmount(req.Fee)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	memo, err := parseMemo(req.Memo)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	txID, err := s.ledger.TransferFrom(id, ledger.TransferFromArgs{
		Spender: spender, From: from, To: to, Amount: amount, Fee: fee, Memo: memo, CreatedAtTime: req.CreatedAtTime,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeResult(w, map[string]uint64{"tx_id": txID})
}

// decodeTransferLike holds the decode path shared by Transfer's request
// body (TransferFrom decodes its own, since it also carries a spender).
func decodeTransferLike(tokenIDHex string, fromDTO, toDTO accountDTO, amountStr, feeStr, memoHexStr string) (entity.TokenID, entity.Account, entity.Account, *big.Int, *big.Int, []byte, error) {
	id, err := parseTokenID(tokenIDHex)
	if err != nil {
		return entity.TokenID{}, entity.Account{}, entity.Account{}, nil, nil, nil, err
	}
	from, err := fromDTO.toAccount()
	if err != nil {
		return entity.TokenID{}, entity.Account{}, entity.Account{}, nil, nil, nil, err
	}
	to, err := toDTO.toAccount()
	if err != nil {
		return entity.TokenID{}, entity.Account{}, entity.Account{}, nil, nil, nil, err
	}
	amount, err := parseAmount(amountStr)
	if err != nil {
		return entity.TokenID{}, entity.Account{}, entity.Account{}, nil, nil, nil, err
	}
	fee, err := parseOptionalAmount(feeStr)
	if err != nil {
		return entity.TokenID{}, entity.Account{}, entity.Account{}, nil, nil, nil, err
	}
	memo, err := parseMemo(memoHexStr)
	if err != nil {
		return entity.TokenID{}, entity.Account{}, entity.Account{}, nil, nil, nil, err
	}
	return id, from, to, amount, fee, memo, nil
}

// --- queries -------------------------------------------------

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	id, err := parseTokenID(mux.Vars(r)["id"])
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	acct, err := accountFromQuery(r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	bal, err := s.ledger.GetBalance(id, acct)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeResult(w, map[string]string{"balance": amountString(bal)})
}

func (s *Server) handleSupply(w http.ResponseWriter, r *http.Request) {
	id, err := parseTokenID(mux.Vars(r)["id"])
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	supply, err := s.ledger.GetTotalSupply(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeResult(w, map[string]string{"total_supply": amountString(supply)})
}

func (s *Server) handleHolderCount(w http.ResponseWriter, r *http.Request) {
	id, err := parseTokenID(mux.Vars(r)["id"])
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	writeResult(w, map[string]int{"holder_count": s.ledger.GetHolderCount(id)})
}

func (s *Server) handleAllowance(w http.ResponseWriter, r *http.Request) {
	id, err := parseTokenID(mux.Vars(r)["id"])
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	owner, err := decodeHexAccountQuery(r, "owner")
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	spender, err := decodeHexAccountQuery(r, "spender")
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	details, err := s.ledger.GetAllowanceDetails(id, owner, spender)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	out := map[string]any{"allowance": amountString(details.Amount)}
	if details.ExpiresAt != nil {
		out["expires_at"] = *details.ExpiresAt
	}
	writeResult(w, out)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := parseTokenID(mux.Vars(r)["id"])
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	start, limit, err := parsePagination(r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	txs, err := s.ledger.GetTransactions(&id, start, limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "raw" {
		raw := make([]byte, 0, len(txs)*entity.StoredTxSize)
		for _, tx := range txs {
			rec := tx.Encode()
			raw = append(raw, rec[:]...)
		}
		writeRaw(w, raw)
		return
	}

	out := make([]storedTxDTO, len(txs))
	for i, tx := range txs {
		out[i] = storedTxToDTO(tx)
	}
	writeResult(w, out)
}

func (s *Server) handleBalancesFor(w http.ResponseWriter, r *http.Request) {
	owner, err := decodeHexPrincipal(mux.Vars(r)["owner"])
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	var sub [32]byte
	if subHex := r.URL.Query().Get("subaccount"); subHex != "" {
		raw, err := decodeHexBytes(subHex)
		if err != nil {
			writeDecodeError(w, err)
			return
		}
		if len(raw) != 32 {
			writeDecodeError(w, errInvalidSubaccount)
			return
		}
		copy(sub[:], raw)
	}
	balances, err := s.ledger.GetBalancesFor(owner, sub)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	type tokenBalanceDTO struct {
		TokenID string `json:"token_id"`
		Balance string `json:"balance"`
	}
	out := make([]tokenBalanceDTO, len(balances))
	for i, b := range balances {
		out[i] = tokenBalanceDTO{TokenID: tokenIDHex(b.TokenID), Balance: amountString(b.Balance)}
	}
	writeResult(w, out)
}

// --- controllers -------------------------------------------------

func (s *Server) handleListControllers(w http.ResponseWriter, _ *http.Request) {
	cs := s.ledger.Controllers().ListControllers()
	out := make([]string, len(cs))
	for i, p := range cs {
		out[i] = hexEncode(p)
	}
	writeResult(w, out)
}

type controllerRequest struct {
	Principal string `json:"principal"`
}

func (s *Server) handleAddController(w http.ResponseWriter, r *http.Request) {
	var req controllerRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	p, err := decodeHexPrincipal(req.Principal)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := s.ledger.Controllers().AddController(p); err != nil {
		writeEngineError(w, err)
		return
	}
	writeResult(w, map[string]bool{"ok": true})
}

func (s *Server) handleRemoveController(w http.ResponseWriter, r *http.Request) {
	p, err := decodeHexPrincipal(mux.Vars(r)["id"])
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := s.ledger.Controllers().RemoveController(p); err != nil {
		writeEngineError(w, err)
		return
	}
	writeResult(w, map[string]bool{"ok": true})
}

// --- status -------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeResult(w, map[string]bool{"healthy": s.ledger.HealthCheck()})
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	info := s.ledger.GetInfo()
	writeResult(w, map[string]any{
		"token_count":       info.TokenCount,
		"transaction_count": info.TransactionCount,
		"controller_count":  info.ControllerCount,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.ledger.GetStorageStats()
	out := make(map[string]int, len(stats))
	for id, n := range stats {
		out[strconv.Itoa(int(id))] = n
	}
	writeResult(w, out)
}
