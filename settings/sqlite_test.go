package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/spritefield"
)

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "settings.db")

	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file was not created")
}

func TestStoreSetGet(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.Get(spritefield.SettingBlackBackground)
	assert.False(t, ok)

	require.NoError(t, store.Set(spritefield.SettingBlackBackground, "true"))
	v, ok := store.Get(spritefield.SettingBlackBackground)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	require.NoError(t, store.Set(spritefield.SettingBlackBackground, "false"))
	v, _ = store.Get(spritefield.SettingBlackBackground)
	assert.Equal(t, "false", v)

	assert.Error(t, store.Set("", "x"))
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "settings.db")

	store, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set(spritefield.SettingAspectRatio, "landscape"))
	require.NoError(t, store.Set(spritefield.SettingBackgroundTreatment, "palette"))
	require.NoError(t, store.Close())

	store, err = Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	v, ok := store.Get(spritefield.SettingAspectRatio)
	assert.True(t, ok)
	assert.Equal(t, "landscape", v)
	assert.Equal(t, []string{spritefield.SettingAspectRatio, spritefield.SettingBackgroundTreatment}, store.Keys())
}

func TestStoreDelete(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("k", "v"))
	require.NoError(t, store.Delete("k"))
	require.NoError(t, store.Delete("missing"))

	_, ok := store.Get("k")
	assert.False(t, ok)
	assert.Empty(t, store.Keys())
}

func TestStoreDrivesController(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Set(spritefield.SettingBackgroundTreatment, "black"))

	c := spritefield.NewController(spritefield.Config{Settings: store, Width: 100, Height: 100})
	defer c.Destroy()
	assert.Equal(t, spritefield.BackgroundBlack, c.State().BackgroundMode)
}
