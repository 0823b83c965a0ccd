package entity

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/big"
)

func init() {
	gob.Register(&big.Int{})
}

// TokenMetadata describes a token. Only Fee is mutable after creation
// (SPEC_FULL.md §3).
type TokenMetadata struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply *big.Int
	Fee         *big.Int
	Logo        *string
	Description *string
}

// EncodeMetadata serializes m for storage in the tokens region.
func EncodeMetadata(m TokenMetadata) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return nil, fmt.Errorf("entity: encode metadata: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeMetadata reverses EncodeMetadata.
func DecodeMetadata(b []byte) (TokenMetadata, error) {
	var m TokenMetadata
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&m); err != nil {
		return m, fmt.Errorf("entity: decode metadata: %w", err)
	}
	return m, nil
}
