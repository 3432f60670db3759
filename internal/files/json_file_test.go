package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hostelpass/internal/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestReadMissingFile(t *testing.T) {
	f := &JSONFile{Path: filepath.Join(t.TempDir(), "absent.json")}

	var got []record
	found, err := f.Read(&got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestPlainRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "students.json")
	f := &JSONFile{Path: path}
	in := []record{{ID: "1", Name: "Aisyah"}, {ID: "2", Name: "Ben"}}

	require.NoError(t, f.Write(in))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "[\n  {"), "indented JSON array expected")

	var out []record
	found, err := f.Read(&out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestEncryptedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	key := crypto.MustRandom(32)
	f := &JSONFile{Path: path, Key: key}
	in := []record{{ID: "1", Name: "Aisyah"}}

	require.NoError(t, f.Write(in))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Aisyah")

	var out []record
	_, err = f.Read(&out)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	wrong := &JSONFile{Path: path, Key: crypto.MustRandom(32)}
	_, err = wrong.Read(&out)
	assert.Error(t, err)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f := &JSONFile{Path: filepath.Join(dir, "students.json")}
	require.NoError(t, f.Write([]record{{ID: "1"}}))
	require.NoError(t, f.Write([]record{{ID: "2"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "students.json", entries[0].Name())
}

func TestReadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	require.NoError(t, os.WriteFile(path, []byte("[{"), 0644))

	var out []record
	_, err := (&JSONFile{Path: path}).Read(&out)
	assert.Error(t, err)
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))
	assert.True(t, FileExists(path))
}
