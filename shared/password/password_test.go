package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel/shared/password"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		err      error
	}{
		{name: "valid", password: "secret1"},
		{name: "empty", password: "", err: password.ErrEmptyPassword},
		{name: "at the bcrypt limit", password: strings.Repeat("a", password.MaxLength)},
		{name: "over the bcrypt limit", password: strings.Repeat("a", password.MaxLength+1), err: password.ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.password)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				assert.Empty(t, hash)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, strings.HasPrefix(hash, "$2a$"))
		})
	}
}

func TestHash_Salted(t *testing.T) {
	first, err := password.Hash("secret1")
	require.NoError(t, err)

	second, err := password.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("secret1")
	require.NoError(t, err)

	assert.NoError(t, password.Verify("secret1", hash))
	assert.ErrorIs(t, password.Verify("secret2", hash), password.ErrInvalidPassword)
	assert.ErrorIs(t, password.Verify("", hash), password.ErrInvalidPassword)
	assert.ErrorIs(t, password.Verify("secret1", ""), password.ErrInvalidPassword)
	assert.Error(t, password.Verify("secret1", "not-a-hash"))
}
