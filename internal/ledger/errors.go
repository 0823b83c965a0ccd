// Package ledger implements the transactional state machine described in
// SPEC_FULL.md §4.D-§4.G: controller authorization, pre-flight validation,
// the Transfer/Mint/Burn/BurnFrom/Approve/TransferFrom operation engine,
// and the read-only query surface, all wired onto the stable containers in
// internal/stable.
package ledger

import (
	"fmt"
	"math/big"
)

// BadFee is returned when a caller-supplied fee does not match the token's
// configured fee.
type BadFee struct{ ExpectedFee *big.Int }

func (e *BadFee) Error() string { return fmt.Sprintf("bad fee: expected %s", e.ExpectedFee) }

// InsufficientFunds is returned when an account's balance (or an
// allowance) cannot cover the requested amount plus fee.
type InsufficientFunds struct{ Balance *big.Int }

func (e *InsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds: balance %s", e.Balance)
}

// TooOld is returned when created_at_time is further in the past than the
// dedup retention window allows.
type TooOld struct{}

func (e *TooOld) Error() string { return "transaction too old" }

// CreatedInFuture is returned when created_at_time is too far ahead of
// ledger time.
type CreatedInFuture struct{ LedgerTime uint64 }

func (e *CreatedInFuture) Error() string {
	return fmt.Sprintf("created in future: ledger time %d", e.LedgerTime)
}

// Duplicate is returned when an identical fingerprint was already
// processed within the dedup window.
type Duplicate struct{ DuplicateOf uint64 }

func (e *Duplicate) Error() string { return fmt.Sprintf("duplicate of tx %d", e.DuplicateOf) }

// AllowanceChanged is returned when an approve's expected_allowance does
// not match the current allowance (compare-and-swap failure).
type AllowanceChanged struct{ CurrentAllowance *big.Int }

func (e *AllowanceChanged) Error() string {
	return fmt.Sprintf("allowance changed: current %s", e.CurrentAllowance)
}

// Expired is returned when an approve's expires_at is already in the past.
type Expired struct{ LedgerTime uint64 }

func (e *Expired) Error() string { return fmt.Sprintf("expired: ledger time %d", e.LedgerTime) }

// TemporarilyUnavailable is reserved for host-level backpressure; the
// in-process engine never returns it itself but front ends may surface it
// for, e.g., a saturated HTTP server.
type TemporarilyUnavailable struct{}

func (e *TemporarilyUnavailable) Error() string { return "temporarily unavailable" }

// GenericError covers arithmetic overflow, encoding failures, and storage
// errors: anything that must never leave behind a partial write.
type GenericError struct {
	Code    uint32
	Message string
}

func (e *GenericError) Error() string { return e.Message }

func genericf(format string, args ...any) *GenericError {
	return &GenericError{Code: 0, Message: fmt.Sprintf(format, args...)}
}

// Query errors (SPEC_FULL.md §7).

// ErrTokenNotFound is returned by queries against an unknown token.
var ErrTokenNotFound = fmt.Errorf("token not found")

// InvalidInput wraps a caller-input validation failure in a query.
type InvalidInput struct{ Message string }

func (e *InvalidInput) Error() string { return e.Message }
