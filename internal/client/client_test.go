package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelpass/internal/api"
	"hostelpass/internal/auth"
	"hostelpass/internal/errors"
	"hostelpass/internal/files"
	"hostelpass/internal/models"
	"hostelpass/internal/registry"
)

func newServer(t *testing.T) (*httptest.Server, *registry.Store) {
	t.Helper()
	store := registry.NewStore(&files.JSONFile{Path: filepath.Join(t.TempDir(), "students.json")})
	authn, err := auth.NewAuthenticator(auth.DefaultCredentials())
	require.NoError(t, err)
	srv := httptest.NewServer(api.NewServer(store, authn, api.Options{EnforceAuth: true}).Router())
	t.Cleanup(srv.Close)
	return srv, store
}

func TestClientRoundTrip(t *testing.T) {
	srv, store := newServer(t)
	ctx := context.Background()

	created, err := store.Create(models.ResidentPayload{
		StudentID: "S1", Name: "Aisyah", Programme: "Law", RoomNumber: "HA-1-01",
		Gender: models.Female, Status: models.Local, Block: "HA",
	})
	require.NoError(t, err)

	c := New(srv.URL + "/")

	acc, err := c.Login(ctx, "warden", "hostel123")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleViewer, acc.Role)
	assert.Equal(t, "warden-demo-token", c.Token)

	list, err := c.List(ctx, registry.Query{Block: "HA"})
	require.NoError(t, err)
	assert.Equal(t, []models.Resident{created}, list)

	got, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Total)

	res, err := c.Scan(ctx, srv.URL+"/pass/"+created.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Student)
	assert.Equal(t, created.ID, res.Student.ID)
}

func TestClientErrors(t *testing.T) {
	srv, _ := newServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Contains(t, err.Error(), "Student not found")

	_, err = c.Login(ctx, "admin", "wrong")
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnauthorized))
	assert.Empty(t, c.Token)
}
