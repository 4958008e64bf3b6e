package usecase

import (
	"crypto/rsa"
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/shandysiswandi/seedauth/internal/authenticator/entity"
	"github.com/shandysiswandi/seedauth/internal/pkg/rsakey"
)

// DecryptSeed turns the base64 RSA-OAEP(SHA-256) blob into a validated seed.
//
// Every padding, key or length mismatch collapses into ErrDecryptionFailed.
// The plaintext is trimmed before the format check. Neither the key nor the
// plaintext is retained.
func DecryptSeed(ciphertextB64 string, key *rsa.PrivateKey) (entity.Seed, error) {
	ct, err := base64.StdEncoding.DecodeString(strings.TrimSpace(ciphertextB64))
	if err != nil || len(ct) == 0 {
		return entity.Seed{}, entity.ErrMalformedCiphertext
	}

	if key == nil {
		return entity.Seed{}, entity.ErrDecryptionFailed
	}

	plain, err := rsakey.DecryptOAEP(key, ct)
	if err != nil {
		return entity.Seed{}, entity.ErrDecryptionFailed
	}

	if !utf8.Valid(plain) {
		return entity.Seed{}, entity.ErrInvalidSeedFormat
	}

	return entity.ParseSeed(strings.TrimSpace(string(plain)))
}
