package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type provisionInput struct {
	EncryptedSeed string `validate:"required"`
}

type dependency struct {
	Store  any `validate:"required"`
	Window int `validate:"gte=0"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, v.Validate(provisionInput{EncryptedSeed: "YWJj"}))
		assert.NoError(t, v.Validate(dependency{Store: "memory", Window: 1}))
	})

	t.Run("required uses snake case keys", func(t *testing.T) {
		err := v.Validate(provisionInput{})

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "EncryptedSeed is a required field", verr.Values()["encrypted_seed"])
	})

	t.Run("multiple failures", func(t *testing.T) {
		err := v.Validate(dependency{Window: -1})

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr, 2)
		assert.Contains(t, verr, "store")
		assert.Contains(t, verr, "window")
	})

	t.Run("error string is json", func(t *testing.T) {
		err := v.Validate(provisionInput{})
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "{"))
	})
}
