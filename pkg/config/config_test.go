package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TOKEN", "123:abc")
	for _, key := range []string{"ADMIN_ID", "ALLOWED_ADMINS", "ADMIN_GROUP_ID", "PRODUCTS_FILE", "DEBUG"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Token)
	assert.Zero(t, cfg.AdminID)
	assert.Equal(t, int64(-1003694488802), cfg.AdminGroupID)
	assert.Equal(t, "products.json", cfg.ProductsFile)
	assert.False(t, cfg.Debug)
}

func TestLoad_ParsesAllFields(t *testing.T) {
	t.Setenv("TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "42")
	t.Setenv("ALLOWED_ADMINS", "boss,helper")
	t.Setenv("ADMIN_GROUP_ID", "-500")
	t.Setenv("PRODUCTS_FILE", "/tmp/cat.json")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.AdminID)
	assert.Equal(t, []string{"boss", "helper"}, cfg.AllowedAdmins)
	assert.Equal(t, int64(-500), cfg.AdminGroupID)
	assert.Equal(t, "/tmp/cat.json", cfg.ProductsFile)
	assert.True(t, cfg.Debug)
}

func TestLoad_MissingTokenFails(t *testing.T) {
	// t.Setenv registers the restore, then the key is removed so
	// required-field validation trips.
	t.Setenv("TOKEN", "placeholder")
	os.Unsetenv("TOKEN")

	_, err := Load()
	require.Error(t, err)
}
