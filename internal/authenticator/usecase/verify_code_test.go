package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shandysiswandi/seedauth/internal/authenticator/entity"
	"github.com/shandysiswandi/seedauth/internal/pkg/clock"
	"github.com/shandysiswandi/seedauth/internal/pkg/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_VerifyCode(t *testing.T) {
	ctx := context.Background()
	step := 30 * time.Second

	tests := []struct {
		name  string
		code  func(t *testing.T) string
		valid bool
	}{
		{name: "current step", code: func(t *testing.T) string { return codeAt(t, testSeed, testNow) }, valid: true},
		{name: "previous step", code: func(t *testing.T) string { return codeAt(t, testSeed, testNow.Add(-step)) }, valid: true},
		{name: "next step", code: func(t *testing.T) string { return codeAt(t, testSeed, testNow.Add(step)) }, valid: true},
		{name: "two steps ahead", code: func(t *testing.T) string { return codeAt(t, testSeed, testNow.Add(2*step)) }, valid: false},
		{name: "two steps behind", code: func(t *testing.T) string { return codeAt(t, testSeed, testNow.Add(-2*step)) }, valid: false},
		{name: "not digits", code: func(*testing.T) string { return "abcdef" }, valid: false},
		{name: "too short", code: func(*testing.T) string { return "123" }, valid: false},
		{name: "whitespace", code: func(*testing.T) string { return "   " }, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUsecase(t, provisioned(t), clock.Fixed(testNow), otp.DefaultParams)

			out, err := uc.VerifyCode(ctx, VerifyCodeInput{Code: tt.code(t)})
			require.NoError(t, err)
			assert.Equal(t, tt.valid, out.Valid)
		})
	}
}

func TestUsecase_VerifyCode_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing code", func(t *testing.T) {
		uc := newTestUsecase(t, provisioned(t), clock.Fixed(testNow), otp.DefaultParams)

		_, err := uc.VerifyCode(ctx, VerifyCodeInput{})
		requireAPIError(t, err, http.StatusBadRequest, "Missing code")
	})

	t.Run("not provisioned", func(t *testing.T) {
		uc := newTestUsecase(t, &memStore{}, clock.Fixed(testNow), otp.DefaultParams)

		_, err := uc.VerifyCode(ctx, VerifyCodeInput{Code: "123456"})
		requireAPIError(t, err, http.StatusServiceUnavailable, "Seed not decrypted yet")
	})

	t.Run("corrupt", func(t *testing.T) {
		uc := newTestUsecase(t, &memStore{getErr: entity.ErrCorruptStoredSeed}, clock.Fixed(testNow), otp.DefaultParams)

		_, err := uc.VerifyCode(ctx, VerifyCodeInput{Code: "123456"})
		requireAPIError(t, err, http.StatusInternalServerError, "Stored seed invalid")
	})
}

func TestUsecase_VerifyCode_StrictWindow(t *testing.T) {
	uc := newTestUsecase(t, provisioned(t), clock.Fixed(testNow), otp.Params{Step: 30, Digits: 6, Window: 0})
	ctx := context.Background()

	out, err := uc.VerifyCode(ctx, VerifyCodeInput{Code: codeAt(t, testSeed, testNow.Add(-30*time.Second))})
	require.NoError(t, err)
	assert.False(t, out.Valid)
}
