package password_test

import (
	"strings"
	"testing"

	"innkeep/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	hash, err := password.Hash("housekeeping-2026")
	require.NoError(t, err)
	assert.NotEqual(t, "housekeeping-2026", hash)

	again, err := password.Hash("housekeeping-2026")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "bcrypt salts every hash")

	_, err = password.Hash("")
	assert.ErrorIs(t, err, password.ErrEmptyPassword)

	_, err = password.Hash(strings.Repeat("a", password.MaxLength+1))
	assert.ErrorIs(t, err, password.ErrTooLong)
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("front-desk")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  error
	}{
		{name: "match", password: "front-desk", hash: hash},
		{name: "mismatch", password: "back-desk", hash: hash, wantErr: password.ErrInvalidPassword},
		{name: "empty password", password: "", hash: hash, wantErr: password.ErrInvalidPassword},
		{name: "empty hash", password: "front-desk", hash: "", wantErr: password.ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.password, tt.hash)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	assert.Error(t, password.Verify("front-desk", "not-a-bcrypt-hash"))
}
