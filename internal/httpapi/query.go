package httpapi

import (
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"

	"synnergy-multiledger/internal/entity"
)

var errInvalidSubaccount = errors.New("subaccount must be 32 bytes")

func decodeHexBytes(s string) ([]byte, error) { return hex.DecodeString(s) }

func hexEncode(b []byte) string { return hex.EncodeToString(b) }

func decodeHexPrincipal(s string) (entity.Principal, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return entity.Principal(b), nil
}

// accountFromQuery reads an account from the ?owner=<hex>&owner_subaccount=<hex>
// query parameters, used by GET endpoints that take a single account.
func accountFromQuery(r *http.Request) (entity.Account, error) {
	return decodeHexAccountQuery(r, "owner")
}

// decodeHexAccountQuery reads an account from ?<prefix>=<hex owner>&
// <prefix>_subaccount=<hex subaccount>.
func decodeHexAccountQuery(r *http.Request, prefix string) (entity.Account, error) {
	ownerHex := r.URL.Query().Get(prefix)
	owner, err := decodeHexPrincipal(ownerHex)
	if err != nil {
		return entity.Account{}, err
	}
	acct := entity.Account{Owner: owner}
	if subHex := r.URL.Query().Get(prefix + "_subaccount"); subHex != "" {
		sub, err := decodeHexBytes(subHex)
		if err != nil {
			return entity.Account{}, err
		}
		if len(sub) != 32 {
			return entity.Account{}, errInvalidSubaccount
		}
		copy(acct.Subaccount[:], sub)
	}
	return acct, nil
}

// parsePagination reads ?start=&limit= query parameters, leaving either nil
// when absent so the ledger applies its own defaults (SPEC_FULL.md §6
// "Defaults").
func parsePagination(r *http.Request) (start, limit *uint64, err error) {
	if v := r.URL.Query().Get("start"); v != "" {
		n, perr := strconv.ParseUint(v, 10, 64)
		if perr != nil {
			return nil, nil, perr
		}
		start = &n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, perr := strconv.ParseUint(v, 10, 64)
		if perr != nil {
			return nil, nil, perr
		}
		limit = &n
	}
	return start, limit, nil
}
