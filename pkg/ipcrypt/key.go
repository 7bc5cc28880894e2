package ipcrypt

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrKeySize is returned when key material is not exactly KeySize bytes.
var ErrKeySize = errors.New("ipcrypt: key must be 16 bytes")

// NewKey copies raw key material into a Key, checking its length.
func NewKey(b []byte) (Key, error) {
	if len(b) != KeySize {
		return Key{}, fmt.Errorf("%w, got %d", ErrKeySize, len(b))
	}
	var k Key
	copy(k[:], b)
	return k, nil
}

// ParseKey decodes a textual key: 32 hex characters or the base64 encoding
// of 16 bytes.
func ParseKey(s string) (Key, error) {
	if b, err := hex.DecodeString(s); err == nil && len(b) == KeySize {
		return NewKey(b)
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Key{}, fmt.Errorf("ipcrypt: key is neither hex nor base64: %w", err)
	}
	return NewKey(b)
}

// KeyFromPassphrase derives a key by hashing the passphrase with SHA-256
// and keeping the first 16 bytes.
func KeyFromPassphrase(passphrase string) Key {
	sum := sha256.Sum256([]byte(passphrase))
	var k Key
	copy(k[:], sum[:KeySize])
	return k
}
