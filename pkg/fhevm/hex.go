package fhevm

import (
	"encoding/hex"
	"strings"
)

// decodeHex decodes a 0x-prefixed hex string, returning nil for
// malformed or empty input.
func decodeHex(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil
	}
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return out
}
