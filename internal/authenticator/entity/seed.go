package entity

import (
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
)

// SeedHexLen is the length of the canonical seed encoding.
const SeedHexLen = 64

var (
	// ErrMalformedCiphertext indicates the encrypted seed is not valid base64.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
	// ErrDecryptionFailed covers every RSA-OAEP failure without distinguishing them.
	ErrDecryptionFailed = errors.New("decryption failed")
	// ErrInvalidSeedFormat indicates a seed that is not 64 lowercase hex characters.
	ErrInvalidSeedFormat = errors.New("invalid seed format")
	// ErrCorruptStoredSeed indicates the persisted seed no longer satisfies the format.
	ErrCorruptStoredSeed = errors.New("corrupt stored seed")
	// ErrNotProvisioned indicates no seed has been stored yet.
	ErrNotProvisioned = errors.New("seed not provisioned")
)

// Seed is the shared TOTP secret: 32 bytes held in its canonical form of
// 64 lowercase hex characters. The zero value is not a valid seed.
type Seed struct {
	hex string
}

// ParseSeed validates s and returns it as a Seed. Only ^[0-9a-f]{64}$ is
// accepted; callers trim whitespace before calling when that is allowed.
func ParseSeed(s string) (Seed, error) {
	if len(s) != SeedHexLen {
		return Seed{}, ErrInvalidSeedFormat
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return Seed{}, ErrInvalidSeedFormat
		}
	}
	return Seed{hex: s}, nil
}

// ParseStoredSeed is ParseSeed for persisted values: surrounding whitespace
// is ignored and a failure reports ErrCorruptStoredSeed.
func ParseStoredSeed(s string) (Seed, error) {
	seed, err := ParseSeed(strings.TrimSpace(s))
	if err != nil {
		return Seed{}, ErrCorruptStoredSeed
	}
	return seed, nil
}

// String returns the canonical hex form.
func (s Seed) String() string {
	return s.hex
}

// IsZero reports whether s was never set.
func (s Seed) IsZero() bool {
	return s.hex == ""
}

// Bytes returns the 32 raw key bytes used as the HMAC key.
func (s Seed) Bytes() []byte {
	b, err := hex.DecodeString(s.hex)
	if err != nil {
		return nil
	}
	return b
}

// LogValue implements slog.LogValuer so the secret never reaches a log line.
func (s Seed) LogValue() slog.Value {
	if s.IsZero() {
		return slog.StringValue("<empty>")
	}
	return slog.StringValue("<redacted>")
}
