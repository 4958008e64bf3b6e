package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  server:
    cors: "http://a.test, ,http://b.test"
    http:
      read_timeout_seconds: 5
seed:
  driver: file
  file:
    path: data/seed.txt
totp:
  step: 30
  digits: 6
  window: 1
instrument:
  log_mask_fields:
    - seed
    - code
secret: "` + "c2VjcmV0" + `"
`

func TestNewViperFromBytes(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(sample))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cfg.Close() })

	assert.Equal(t, "file", cfg.GetString("seed.driver"))
	assert.Equal(t, uint64(30), cfg.GetUint64("totp.step"))
	assert.Equal(t, 6, cfg.GetInt("totp.digits"))
	assert.Equal(t, 5*time.Second, cfg.GetSecond("app.server.http.read_timeout_seconds"))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.GetArray("app.server.cors"))
	assert.Equal(t, []string{"seed", "code"}, cfg.GetArray("instrument.log_mask_fields"))
	assert.Empty(t, cfg.GetArray("missing.key"))
	assert.Equal(t, []byte("secret"), cfg.GetBinary("secret"))
}

func TestNewViperFromBytes_RequiresType(t *testing.T) {
	_, err := NewViperFromBytes(" ", []byte(sample))
	assert.Error(t, err)
}

func TestNewViper_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	t.Setenv("SEED_FILE_PATH", "/var/lib/seedauth/seed.txt")

	cfg, err := NewViper(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/seedauth/seed.txt", cfg.GetString("seed.file.path"))
	assert.Equal(t, "file", cfg.GetString("seed.driver"))
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("secret")), cfg.GetString("secret"))
}

func TestViper_IsSet(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte("totp:\n  window: 0\n"))
	require.NoError(t, err)

	assert.True(t, cfg.IsSet("totp.window"), "explicit zero counts as set")
	assert.False(t, cfg.IsSet("totp.step"))

	t.Setenv("TOTP_STEP", "60")
	assert.True(t, cfg.IsSet("totp.step"))
}
