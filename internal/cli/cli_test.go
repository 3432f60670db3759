package cli

import (
	"bytes"
	"context"
	"encoding/hex"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelpass/internal/api"
	"hostelpass/internal/auth"
	"hostelpass/internal/config"
	"hostelpass/internal/crypto"
	"hostelpass/internal/errors"
	"hostelpass/internal/models"
)

type env struct {
	dir       string
	storePath string
}

func setupEnv(t *testing.T) env {
	t.Helper()
	pterm.DisableStyling()
	dir := t.TempDir()
	e := env{dir: dir, storePath: filepath.Join(dir, "students.json")}
	t.Setenv("HOSTEL_STORAGE__PATH", e.storePath)
	t.Setenv("HOSTEL_STORAGE__MASTER_KEY_FILE", filepath.Join(dir, "master.key"))
	t.Setenv("HOSTEL_LOG__FILE", filepath.Join(dir, "hostel.log"))
	t.Setenv("HOSTEL_LOG__VERBOSITY", "0")
	t.Setenv(crypto.MasterKeyEnv, "")
	return e
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seed(t *testing.T, cfg config.StorageConfig, names ...string) []models.Resident {
	t.Helper()
	store, err := openStore(cfg)
	require.NoError(t, err)
	var out []models.Resident
	for i, n := range names {
		r, err := store.Create(models.ResidentPayload{
			StudentID: "S" + string(rune('0'+i)), Name: n, Programme: "Law",
			RoomNumber: "HA-1-0" + string(rune('1'+i)), Gender: models.Female,
			Status: models.Local, Block: "HA",
		})
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}

func TestVersion(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hostel version dev")
}

func TestExtract(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "extract", "https://hostel.example/pass/abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123\n", out)

	_, err = run(t, "extract", "hello world")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestListAndStats(t *testing.T) {
	e := setupEnv(t)

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No residents")

	seed(t, config.StorageConfig{Path: e.storePath}, "Chen", "Aisyah")

	out, err = run(t, "list", "--sort", "name-asc")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Aisyah"), strings.Index(out, "Chen"))
	assert.Contains(t, out, "2 residents")

	out, err = run(t, "list", "-q", "chen")
	require.NoError(t, err)
	assert.NotContains(t, out, "Aisyah")

	out, err = run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Block HA")
	assert.Contains(t, out, "Total")
}

func TestGenMasterKeyRefusesOverwrite(t *testing.T) {
	e := setupEnv(t)
	keyFile := filepath.Join(e.dir, "master.key")

	_, err := run(t, "genmasterkey")
	require.NoError(t, err)
	data, err := os.ReadFile(keyFile)
	require.NoError(t, err)
	key, err := hex.DecodeString(strings.TrimSpace(string(data)))
	require.NoError(t, err)
	assert.Len(t, key, 32)

	_, err = run(t, "genmasterkey")
	assert.Error(t, err)
	after, _ := os.ReadFile(keyFile)
	assert.Equal(t, data, after)
}

func TestEncryptedStorage(t *testing.T) {
	e := setupEnv(t)
	t.Setenv("HOSTEL_STORAGE__ENCRYPT", "true")
	_, err := run(t, "genmasterkey")
	require.NoError(t, err)

	seed(t, config.StorageConfig{Path: e.storePath, Encrypt: true, MasterKeyFile: filepath.Join(e.dir, "master.key")}, "Aisyah")

	raw, err := os.ReadFile(e.storePath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Aisyah")

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Aisyah")
}

func TestEncryptedStorageWithoutKey(t *testing.T) {
	setupEnv(t)
	t.Setenv("HOSTEL_STORAGE__ENCRYPT", "true")

	_, err := run(t, "list")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestRemoteCommands(t *testing.T) {
	e := setupEnv(t)
	cfg := config.StorageConfig{Path: e.storePath}
	seeded := seed(t, cfg, "Aisyah")

	store, err := openStore(cfg)
	require.NoError(t, err)
	authn, err := auth.NewAuthenticator(auth.DefaultCredentials())
	require.NoError(t, err)
	srv := httptest.NewServer(api.NewServer(store, authn, api.Options{}).Router())
	defer srv.Close()

	out, err := run(t, "remote", "get", seeded[0].ID, "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Aisyah"`)

	out, err = run(t, "remote", "list", "--server", srv.URL, "--block", "HA")
	require.NoError(t, err)
	assert.Contains(t, out, "Aisyah")

	out, err = run(t, "remote", "scan", "pass/unknown-id", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "No resident record matches this pass.")

	_, err = run(t, "remote", "get", "missing", "--server", srv.URL)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	out, err = run(t, "remote", "stats", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Block HA")
	assert.Contains(t, out, "Total")

	out, err = run(t, "remote", "login", "-u", "admin", "-p", "admin123", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Hostel Admin (admin)")
	assert.Contains(t, out, "admin-demo-token")

	_, err = run(t, "remote", "login", "-u", "admin", "-p", "wrong", "--server", srv.URL)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnauthorized))
}

func TestServeStopsOnCancel(t *testing.T) {
	e := setupEnv(t)
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Storage.Path = e.storePath

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, serve(ctx, cfg))
}

func TestServeRejectsMissingCertificate(t *testing.T) {
	e := setupEnv(t)
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.TLSCert = filepath.Join(e.dir, "missing.crt")
	cfg.Server.TLSKey = filepath.Join(e.dir, "missing.key")

	err = serve(context.Background(), cfg)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}
