package statefile

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-admin/core/session"
)

func TestFile_LoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	f := New(path)

	state, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, "", state.Token())

	require.NoError(t, f.Save(session.Persisted{Auth: &session.PersistedAuth{Token: "abc"}}))
	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"auth": {"token": "abc"}}`, string(data))

	state, err = f.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", state.Token())

	require.NoError(t, f.Save(session.Persisted{}))
	data, err = ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestFile_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, ioutil.WriteFile(path, []byte("{nope"), 0o600))

	_, err := New(path).Load()
	assert.Error(t, err)
}
