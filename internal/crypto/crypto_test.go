package crypto

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAESGCMRoundTrip(t *testing.T) {
	key := MustRandom(32)
	plain := []byte(`[{"id":"abc"}]`)

	blob, err := EncryptAESGCM(key, plain)
	require.NoError(t, err)
	assert.NotContains(t, string(blob), "abc")

	got, err := DecryptAESGCM(key, blob)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestAESGCMWrongKey(t *testing.T) {
	blob, err := EncryptAESGCM(MustRandom(32), []byte("secret"))
	require.NoError(t, err)

	_, err = DecryptAESGCM(MustRandom(32), blob)
	assert.Error(t, err)
}

func TestAESGCMRejectsBadInput(t *testing.T) {
	_, err := EncryptAESGCM([]byte("short"), []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidKeyLength)

	_, err = DecryptAESGCM(MustRandom(32), []byte{1, 2})
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestDeriveFileKeyIsDeterministic(t *testing.T) {
	master := MustRandom(32)
	a, err := DeriveFileKey(master)
	require.NoError(t, err)
	b, err := DeriveFileKey(master)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Equal(t, a, b)
	assert.NotEqual(t, master, a)
}

func TestMasterKeyFile(t *testing.T) {
	t.Setenv(MasterKeyEnv, "")
	path := filepath.Join(t.TempDir(), "master.key")

	require.NoError(t, WriteMasterKey(path))
	assert.Error(t, WriteMasterKey(path), "existing key must not be overwritten")

	key, err := ReadMasterKey(path)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestMasterKeyEnvWins(t *testing.T) {
	key := MustRandom(32)
	t.Setenv(MasterKeyEnv, hex.EncodeToString(key))

	got, err := ReadMasterKey(filepath.Join(t.TempDir(), "missing.key"))
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestMasterKeyInvalid(t *testing.T) {
	t.Setenv(MasterKeyEnv, strings.Repeat("ab", 8))
	_, err := ReadMasterKey("unused")
	assert.Error(t, err)

	t.Setenv(MasterKeyEnv, "not-hex")
	_, err = ReadMasterKey("unused")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hostel123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("hostel123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
