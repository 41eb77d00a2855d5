package abis

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Selector is the 4-byte function identifier that prefixes calldata.
type Selector [4]byte

// SelectorOf hashes a canonical function signature.
func SelectorOf(signature string) Selector {
	var s Selector
	copy(s[:], crypto.Keccak256([]byte(signature))[:4])
	return s
}

// SelectorFromCalldata extracts the selector; false when calldata is shorter
// than 4 bytes.
func SelectorFromCalldata(calldata []byte) (Selector, bool) {
	var s Selector
	if len(calldata) < len(s) {
		return s, false
	}
	copy(s[:], calldata[:len(s)])
	return s, true
}

// ParseSelector reads a hex selector in either case, with or without 0x.
func ParseSelector(text string) (Selector, error) {
	var s Selector
	text = strings.ToLower(strings.TrimSpace(text))
	if !strings.HasPrefix(text, "0x") {
		text = "0x" + text
	}
	decoded, err := hexutil.Decode(text)
	if err != nil {
		return s, fmt.Errorf("invalid selector %q: %w", text, err)
	}
	if len(decoded) != len(s) {
		return s, fmt.Errorf("invalid selector %q: want 4 bytes, got %d", text, len(decoded))
	}
	copy(s[:], decoded)
	return s, nil
}

// String returns the lower-case 0x-prefixed form.
func (s Selector) String() string {
	return hexutil.Encode(s[:])
}

// Bytes returns the selector as a fresh slice.
func (s Selector) Bytes() []byte {
	return append([]byte(nil), s[:]...)
}
