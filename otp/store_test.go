package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyConsumesCode(t *testing.T) {
	s := NewStore()
	s.Set(SignupKey("a@b.com"), "123456", DefaultTTL)

	assert.True(t, s.Verify(SignupKey("a@b.com"), "123456"))
	assert.False(t, s.Verify(SignupKey("a@b.com"), "123456"), "a code must be single-use")
}

func TestVerifyWrongCode(t *testing.T) {
	s := NewStore()
	s.Set(LoginKey("a@b.com"), "123456", DefaultTTL)

	assert.False(t, s.Verify(LoginKey("a@b.com"), "654321"))
	assert.True(t, s.Verify(LoginKey("a@b.com"), "123456"), "a failed attempt must not consume the code")
}

func TestVerifyUnknownKey(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Verify(LoginKey("nobody@b.com"), "123456"))
}

func TestVerifyExpiredCode(t *testing.T) {
	s := NewStore()
	current := time.Now()
	s.now = func() time.Time { return current }

	s.Set(AdminKey("admin@b.com"), "123456", DefaultTTL)
	current = current.Add(DefaultTTL + time.Second)

	assert.False(t, s.Verify(AdminKey("admin@b.com"), "123456"))
}

func TestSetOverwritesPendingCode(t *testing.T) {
	s := NewStore()
	key := SignupKey("a@b.com")
	s.Set(key, "111111", DefaultTTL)
	s.Set(key, "222222", DefaultTTL)

	assert.False(t, s.Verify(key, "111111"), "re-requesting must invalidate the old code")
	assert.True(t, s.Verify(key, "222222"))
}

func TestPurposeKeysDoNotCollide(t *testing.T) {
	s := NewStore()
	s.Set(SignupKey("a@b.com"), "123456", DefaultTTL)

	assert.False(t, s.Verify(LoginKey("a@b.com"), "123456"))
	assert.False(t, s.Verify(AdminKey("a@b.com"), "123456"))
	assert.True(t, s.Verify(SignupKey("a@b.com"), "123456"))
}

func TestDeleteDiscardsCode(t *testing.T) {
	s := NewStore()
	key := LoginKey("a@b.com")
	s.Set(key, "123456", DefaultTTL)
	s.Delete(key)

	assert.False(t, s.Verify(key, "123456"))
}

func TestSetSweepsExpiredEntries(t *testing.T) {
	s := NewStore()
	current := time.Now()
	s.now = func() time.Time { return current }

	s.Set(LoginKey("old@b.com"), "111111", DefaultTTL)
	current = current.Add(DefaultTTL + time.Second)
	s.Set(LoginKey("new@b.com"), "222222", DefaultTTL)

	assert.Len(t, s.entries, 1)
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(6)
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9', "code must be numeric, got %q", code)
	}
}

func TestGenerateCodeCoversAllDigits(t *testing.T) {
	seen := map[byte]bool{}
	for i := 0; i < 200; i++ {
		code, err := GenerateCode(6)
		require.NoError(t, err)
		for j := 0; j < len(code); j++ {
			seen[code[j]] = true
		}
	}
	for d := byte('0'); d <= '9'; d++ {
		assert.True(t, seen[d], "digit %q never drawn in 1200 samples", d)
	}
}
