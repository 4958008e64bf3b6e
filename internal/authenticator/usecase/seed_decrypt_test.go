package usecase

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/shandysiswandi/seedauth/internal/authenticator/entity"
	"github.com/shandysiswandi/seedauth/internal/pkg/rsakey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecryptSeed(t *testing.T) {
	key, other := testKeys(t)

	t.Run("round trip", func(t *testing.T) {
		seed, err := DecryptSeed(encrypt(t, &key.PublicKey, testSeed), key)
		require.NoError(t, err)
		assert.Equal(t, testSeed, seed.String())
	})

	t.Run("plaintext whitespace is trimmed", func(t *testing.T) {
		seed, err := DecryptSeed(encrypt(t, &key.PublicKey, " "+testSeed+"\n"), key)
		require.NoError(t, err)
		assert.Equal(t, testSeed, seed.String())
	})

	t.Run("ciphertext whitespace is trimmed", func(t *testing.T) {
		seed, err := DecryptSeed(encrypt(t, &key.PublicKey, testSeed)+"\n", key)
		require.NoError(t, err)
		assert.Equal(t, testSeed, seed.String())
	})

	t.Run("malformed base64", func(t *testing.T) {
		for _, in := range []string{"", "   ", "!!!!", "YWJj$"} {
			_, err := DecryptSeed(in, key)
			assert.ErrorIs(t, err, entity.ErrMalformedCiphertext, "input %q", in)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		_, err := DecryptSeed(encrypt(t, &other.PublicKey, testSeed), key)
		assert.ErrorIs(t, err, entity.ErrDecryptionFailed)
	})

	t.Run("truncated ciphertext", func(t *testing.T) {
		ct, err := rsakey.EncryptOAEP(&key.PublicKey, []byte(testSeed))
		require.NoError(t, err)

		_, err = DecryptSeed(base64.StdEncoding.EncodeToString(ct[:len(ct)-1]), key)
		assert.ErrorIs(t, err, entity.ErrDecryptionFailed)
	})

	t.Run("nil key", func(t *testing.T) {
		_, err := DecryptSeed(encrypt(t, &key.PublicKey, testSeed), nil)
		assert.ErrorIs(t, err, entity.ErrDecryptionFailed)
	})

	t.Run("invalid plaintext", func(t *testing.T) {
		for _, plain := range []string{
			"hello",
			strings.ToUpper(testSeed),
			testSeed[:62],
			testSeed + "00",
			"\xff\xfe" + testSeed[:62],
		} {
			_, err := DecryptSeed(encrypt(t, &key.PublicKey, plain), key)
			assert.ErrorIs(t, err, entity.ErrInvalidSeedFormat, "plaintext %q", plain)
		}
	})
}
