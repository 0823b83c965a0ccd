// Package httpapi is the ledger's HTTP boundary (SPEC_FULL.md §4.H): a
// gorilla/mux router exposing one JSON endpoint per engine operation or
// query, grounded on the teacher's walletserver (routes.go, controllers,
// middleware.Logger). It has no business logic of its own — every handler
// decodes a request, calls straight into internal/ledger, and maps the
// result or error onto the JSON envelope this package defines.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"synnergy-multiledger/internal/ledger"
)

// Server wires a *ledger.Ledger to an http.Handler.
type Server struct {
	ledger *ledger.Ledger
	router *mux.Router
}

// NewServer builds the router and registers every route (SPEC_FULL.md §6).
func NewServer(l *ledger.Ledger) *Server {
	s := &Server{ledger: l, router: mux.NewRouter()}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

func (s *Server) routes() {
	r := s.router
	r.Use(loggingMiddleware)

	r.HandleFunc("/v1/tokens", s.handleCreateToken).Methods(http.MethodPost)
	r.HandleFunc("/v1/tokens", s.handleListTokens).Methods(http.MethodGet)
	r.HandleFunc("/v1/tokens/{id}", s.handleGetToken).Methods(http.MethodGet)
	r.HandleFunc("/v1/tokens/{id}/mint", s.handleMint).Methods(http.MethodPost)
	r.HandleFunc("/v1/tokens/{id}/burn", s.handleBurn).Methods(http.MethodPost)
	r.HandleFunc("/v1/tokens/{id}/burn-from", s.handleBurnFrom).Methods(http.MethodPost)
	r.HandleFunc("/v1/tokens/{id}/fee", s.handleSetFee).Methods(http.MethodPost)
	r.HandleFunc("/v1/tokens/{id}/balance", s.handleBalance).Methods(http.MethodGet)
	r.HandleFunc("/v1/tokens/{id}/supply", s.handleSupply).Methods(http.MethodGet)
	r.HandleFunc("/v1/tokens/{id}/holders", s.handleHolderCount).Methods(http.MethodGet)
	r.HandleFunc("/v1/tokens/{id}/allowance", s.handleAllowance).Methods(http.MethodGet)
	r.HandleFunc("/v1/tokens/{id}/transactions", s.handleTransactions).Methods(http.MethodGet)

	r.HandleFunc("/v1/transfer", s.handleTransfer).Methods(http.MethodPost)
	r.HandleFunc("/v1/approve", s.handleApprove).Methods(http.MethodPost)
	r.HandleFunc("/v1/transfer-from", s.handleTransferFrom).Methods(http.MethodPost)

	r.HandleFunc("/v1/balances/{owner}", s.handleBalancesFor).Methods(http.MethodGet)
	r.HandleFunc("/v1/controllers", s.handleListControllers).Methods(http.MethodGet)
	r.HandleFunc("/v1/controllers", s.handleAddController).Methods(http.MethodPost)
	r.HandleFunc("/v1/controllers/{id}", s.handleRemoveController).Methods(http.MethodDelete)
	r.HandleFunc("/v1/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/info", s.handleInfo).Methods(http.MethodGet)
	r.HandleFunc("/v1/stats", s.handleStats).Methods(http.MethodGet)
}

// loggingMiddleware logs every request the same way the teacher's
// walletserver/middleware.Logger does, adapted to structured logrus fields.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Info("http request")
	})
}

// envelope is the JSON response shape for every endpoint: exactly one of
// Result or Error is populated.
type envelope struct {
	Result any    `json:"result,omitempty"`
	Error  *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	// Detail carries the error variant's payload field (§7), e.g.
	// expected_fee, balance, duplicate_of, ledger_time, current_allowance.
	Detail any `json:"detail,omitempty"`
}

func writeResult(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(envelope{Result: v})
}

func writeDecodeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(envelope{Error: &apiErr{Kind: "InvalidInput", Message: err.Error()}})
}

// writeRaw serves the ?format=raw variant of a history response: the
// concatenated packed StoredTx records, un-encoded, bypassing the JSON
// envelope entirely (SPEC_FULL.md §6).
func writeRaw(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
