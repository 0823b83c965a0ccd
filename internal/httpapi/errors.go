package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"synnergy-multiledger/internal/ledger"
)

// writeEngineError maps an internal/ledger error onto the JSON envelope and
// an HTTP status code, matching the error taxonomy of SPEC_FULL.md §7. It
// is the one place in this package that knows about every error variant;
// handlers just call it and return.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	e := &apiErr{Kind: "GenericError", Message: err.Error()}

	switch v := err.(type) {
	case *ledger.BadFee:
		status = http.StatusUnprocessableEntity
		e.Kind = "BadFee"
		e.Detail = map[string]string{"expected_fee": v.ExpectedFee.String()}
	case *ledger.InsufficientFunds:
		status = http.StatusUnprocessableEntity
		e.Kind = "InsufficientFunds"
		e.Detail = map[string]string{"balance": v.Balance.String()}
	case *ledger.TooOld:
		status = http.StatusUnprocessableEntity
		e.Kind = "TooOld"
	case *ledger.CreatedInFuture:
		status = http.StatusUnprocessableEntity
		e.Kind = "CreatedInFuture"
		e.Detail = map[string]uint64{"ledger_time": v.LedgerTime}
	case *ledger.Duplicate:
		status = http.StatusConflict
		e.Kind = "Duplicate"
		e.Detail = map[string]uint64{"duplicate_of": v.DuplicateOf}
	case *ledger.AllowanceChanged:
		status = http.StatusConflict
		e.Kind = "AllowanceChanged"
		e.Detail = map[string]string{"current_allowance": v.CurrentAllowance.String()}
	case *ledger.Expired:
		status = http.StatusUnprocessableEntity
		e.Kind = "Expired"
		e.Detail = map[string]uint64{"ledger_time": v.LedgerTime}
	case *ledger.TemporarilyUnavailable:
		status = http.StatusServiceUnavailable
		e.Kind = "TemporarilyUnavailable"
	case *ledger.GenericError:
		status = http.StatusUnprocessableEntity
		e.Kind = "GenericError"
		e.Message = v.Message
	case *ledger.InvalidInput:
		status = http.StatusBadRequest
		e.Kind = "InvalidInput"
		e.Message = v.Message
	default:
		if errors.Is(err, ledger.ErrTokenNotFound) {
			status = http.StatusNotFound
			e.Kind = "TokenNotFound"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Error: e})
}
