package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/shandysiswandi/seedauth/internal/authenticator/entity"
	"github.com/shandysiswandi/seedauth/internal/pkg/clock"
	"github.com/shandysiswandi/seedauth/internal/pkg/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_Provision(t *testing.T) {
	key, other := testKeys(t)
	previous, err := entity.ParseSeed(strings.Repeat("0f", 32))
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    func(t *testing.T) ProvisionInput
		putErr   error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "missing field",
			input:    func(*testing.T) ProvisionInput { return ProvisionInput{} },
			wantCode: http.StatusBadRequest,
			wantMsg:  "Missing field: encrypted_seed",
		},
		{
			name:     "not base64",
			input:    func(*testing.T) ProvisionInput { return ProvisionInput{EncryptedSeed: "%%%not-base64%%%"} },
			wantCode: http.StatusBadRequest,
			wantMsg:  "Malformed encrypted seed",
		},
		{
			name: "wrong key",
			input: func(t *testing.T) ProvisionInput {
				return ProvisionInput{EncryptedSeed: encrypt(t, &other.PublicKey, testSeed)}
			},
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  "Decryption failed",
		},
		{
			name: "plaintext is not a seed",
			input: func(t *testing.T) ProvisionInput {
				return ProvisionInput{EncryptedSeed: encrypt(t, &key.PublicKey, "hello")}
			},
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  "Decrypted seed invalid format",
		},
		{
			name: "store write fault",
			input: func(t *testing.T) ProvisionInput {
				return ProvisionInput{EncryptedSeed: encrypt(t, &key.PublicKey, testSeed)}
			},
			putErr:   errors.Join(entity.ErrCorruptStoredSeed, errors.New("read-only filesystem")),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Stored seed invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{seed: previous, putErr: tt.putErr}
			uc := newTestUsecase(t, store, clock.Fixed(testNow), otp.DefaultParams)

			out, err := uc.Provision(context.Background(), tt.input(t))
			assert.Nil(t, out)
			requireAPIError(t, err, tt.wantCode, tt.wantMsg)

			assert.Equal(t, previous, store.seed, "failed provisioning must keep the previous seed")
		})
	}
}

func TestUsecase_Provision_Overwrites(t *testing.T) {
	key, _ := testKeys(t)
	store := &memStore{}
	uc := newTestUsecase(t, store, clock.Fixed(testNow), otp.DefaultParams)
	ctx := context.Background()

	second := strings.Repeat("0f", 32)
	for _, s := range []string{testSeed, second} {
		_, err := uc.Provision(ctx, ProvisionInput{EncryptedSeed: encrypt(t, &key.PublicKey, s)})
		require.NoError(t, err)
	}
	assert.Equal(t, second, store.seed.String())
}

func TestUsecase_Fingerprint(t *testing.T) {
	uc := newTestUsecase(t, &memStore{}, clock.Fixed(testNow), otp.DefaultParams)
	seed, err := entity.ParseSeed(testSeed)
	require.NoError(t, err)

	fp := uc.fingerprint(seed)
	assert.Len(t, fp, 12)
	assert.NotContains(t, testSeed, fp)
	assert.Equal(t, fp, uc.fingerprint(seed))
}
