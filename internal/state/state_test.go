package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	st, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, st.Instances)
	require.Empty(t, st.Instances)
	require.Empty(t, st.DefaultInstance)
	require.Empty(t, st.LastJob)
	require.Empty(t, st.LastTrigger)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	st := New()
	st.AddInstance("ci1", "http://h/")
	require.NoError(t, st.SetToken("ci1", "tok"))
	st.SetDefaultInstance("ci1")
	st.SetLastJob("J1")
	st.SetLastTrigger("nightly")
	require.NoError(t, Save(path, st))

	loaded, err := Load(path)
	require.NoError(t, err)
	inst, err := loaded.Instance("ci1")
	require.NoError(t, err)
	require.Equal(t, "ci1", inst.Name)
	require.Equal(t, "http://h/", inst.URL)
	require.Equal(t, "tok", inst.Token)
	require.Equal(t, "ci1", loaded.DefaultInstance)
	require.Equal(t, "J1", loaded.LastJob)
	require.Equal(t, "nightly", loaded.LastTrigger)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file left behind")
}

func TestSaveWireShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	st := New()
	st.AddInstance("ci1", "http://h/")
	require.NoError(t, Save(path, st))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"instances":{"ci1":{"url":"http://h/"}}}`, string(data))
}

func TestLoadNullInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"instances":{"a":null}}`), 0o600))

	st, err := Load(path)
	require.NoError(t, err)
	inst, err := st.Instance("a")
	require.NoError(t, err)
	require.Equal(t, "a", inst.Name)
}

func TestRemoveInstance(t *testing.T) {
	st := New()
	st.AddInstance("ci1", "http://h")

	require.NoError(t, st.RemoveInstance("ci1"))
	err := st.RemoveInstance("ci1")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestTokenUnknownInstance(t *testing.T) {
	st := New()

	_, err := st.Token("missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, st.SetToken("missing", "x"), ErrNotFound)
}

func TestReRegisterDropsToken(t *testing.T) {
	st := New()
	st.AddInstance("ci1", "http://a")
	require.NoError(t, st.SetToken("ci1", "tok"))

	st.AddInstance("ci1", "http://b")
	token, err := st.Token("ci1")
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestClearLastTriggerRequiresPresence(t *testing.T) {
	st := New()
	require.ErrorIs(t, st.ClearLastTrigger(), ErrNotFound)

	st.SetLastTrigger("t1")
	require.NoError(t, st.ClearLastTrigger())
	require.Empty(t, st.LastTrigger)
}

func TestDefaultInstanceIsWeakReference(t *testing.T) {
	st := New()
	st.SetDefaultInstance("ghost")
	require.Equal(t, "ghost", st.DefaultInstance)
}

func TestListInstancesSorted(t *testing.T) {
	st := New()
	st.AddInstance("b", "http://b")
	st.AddInstance("a", "http://a")

	list := st.ListInstances()
	require.Len(t, list, 2)
	require.Equal(t, "a", list[0].Name)
	require.Equal(t, "b", list[1].Name)
}
