package app

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/seedauth/internal/pkg/rsakey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeed = "3f786850e387550fdab836ed7e6dc881de23001b3f786850e387550fdab836ed"

const appConfig = `
app:
  server:
    http:
      address: 127.0.0.1:0
      read_timeout_seconds: 5
      read_header_timeout_seconds: 5
      write_timeout_seconds: 5
      idle_timeout_seconds: 5
    max_goroutine: 8
instrument:
  enabled: false
  service_name: seedauth
  log_level: error
keys:
  private_key_path: %s
seed:
  driver: file
  file:
    path: %s
totp:
  step: 30
  digits: 6
  window: 1
hash:
  hmac:
    secret: test
modules:
  authenticator:
    cron:
      enabled: true
      interval_seconds: 1
      output_path: %s
`

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func (s testServer) do(t *testing.T, method, path string, payload any) (int, envelope) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		require.NoError(t, json.NewEncoder(buf).Encode(payload))
		body = buf
	}

	req, err := http.NewRequest(method, s.baseURL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func startApp(t *testing.T) (testServer, *rsa.PublicKey, string) {
	t.Helper()

	dir := t.TempDir()
	key, err := rsakey.Generate(2048)
	require.NoError(t, err)
	privPEM, err := rsakey.EncodePrivateKeyPEM(key)
	require.NoError(t, err)

	keyPath := filepath.Join(dir, "student_private.pem")
	require.NoError(t, os.WriteFile(keyPath, privPEM, 0o600))

	cronPath := filepath.Join(dir, "cron", "last_code.txt")
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf(appConfig, keyPath, filepath.Join(dir, "data", "seed.txt"), cronPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	t.Setenv("CONFIG_PATH", cfgPath)

	application := New()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	errChan := application.Serve(l)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		application.Stop(ctx)
		assert.ErrorIs(t, <-errChan, http.ErrServerClosed)
	})

	return testServer{
		baseURL: "http://" + l.Addr().String(),
		client:  &http.Client{Timeout: 5 * time.Second},
	}, &key.PublicKey, cronPath
}

func TestApp_EndToEnd(t *testing.T) {
	srv, pub, cronPath := startApp(t)

	status, env := srv.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","seed_provisioned":false}`, string(env.Data))

	status, env = srv.do(t, http.MethodGet, "/generate-2fa", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Seed not decrypted yet", env.Message)

	ct, err := rsakey.EncryptOAEP(pub, []byte(testSeed))
	require.NoError(t, err)
	status, env = srv.do(t, http.MethodPost, "/decrypt-seed", map[string]string{
		"encrypted_seed": base64.StdEncoding.EncodeToString(ct),
	})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))

	status, env = srv.do(t, http.MethodGet, "/generate-2fa", nil)
	require.Equal(t, http.StatusOK, status)
	var gen struct {
		Code     string `json:"code"`
		ValidFor uint64 `json:"valid_for"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &gen))
	assert.Len(t, gen.Code, 6)
	assert.GreaterOrEqual(t, gen.ValidFor, uint64(1))
	assert.LessOrEqual(t, gen.ValidFor, uint64(30))

	status, env = srv.do(t, http.MethodPost, "/verify-2fa", map[string]string{"code": gen.Code})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"valid":true}`, string(env.Data))

	status, env = srv.do(t, http.MethodPost, "/verify-2fa", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing code", env.Message)

	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(cronPath)
		return err == nil && strings.Contains(string(data), "2FA Code: ")
	}, 5*time.Second, 100*time.Millisecond)
}

func TestApp_MalformedSeedKeepsNothing(t *testing.T) {
	srv, _, _ := startApp(t)

	status, env := srv.do(t, http.MethodPost, "/decrypt-seed", map[string]string{"encrypted_seed": "%%%"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Malformed encrypted seed", env.Message)

	status, env = srv.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","seed_provisioned":false}`, string(env.Data))
}
