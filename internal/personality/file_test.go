package personality

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadVector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traits", "mochi.yaml")

	v := DefaultVector()
	v.Curiosity = 0.95
	v.Independence = 1.7
	require.NoError(t, SaveVector(path, v))

	loaded, err := LoadVector(path)
	require.NoError(t, err)
	assert.Equal(t, 0.95, loaded.Curiosity)
	assert.Equal(t, 1.0, loaded.Independence)
	assert.Equal(t, DefaultVector().Empathy, loaded.Empathy)
}

func TestLoadVector_PartialAndClamped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traits.yaml")
	require.NoError(t, os.WriteFile(path, []byte("playfulness: 0.2\nsensitivity: -3\n"), 0o644))

	v, err := LoadVector(path)
	require.NoError(t, err)

	want := DefaultVector()
	want.Playfulness = 0.2
	want.Sensitivity = 0
	assert.Equal(t, want, v)
}

func TestLoadVector_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadVector(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	typo := filepath.Join(dir, "typo.yaml")
	require.NoError(t, os.WriteFile(typo, []byte("curiousity: 0.9\n"), 0o644))
	v, err := LoadVector(typo)
	require.Error(t, err)
	assert.Equal(t, DefaultVector(), v)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	v, err = LoadVector(empty)
	require.NoError(t, err)
	assert.Equal(t, DefaultVector(), v)
}
