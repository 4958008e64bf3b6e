package rsakey

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

var (
	keyOnce sync.Once
	keyA    *rsa.PrivateKey
	keyB    *rsa.PrivateKey
)

func testKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PrivateKey) {
	t.Helper()

	keyOnce.Do(func() {
		var err error
		keyA, err = Generate(2048)
		require.NoError(t, err)
		keyB, err = Generate(2048)
		require.NoError(t, err)
	})
	return keyA, keyB
}

func TestGenerate_RejectsSmallKeys(t *testing.T) {
	_, err := Generate(1024)
	assert.ErrorIs(t, err, ErrKeyTooSmall)
}

func TestGenerate_PublicExponent(t *testing.T) {
	key, _ := testKeys(t)
	assert.Equal(t, 65537, key.PublicKey.E)
	assert.Equal(t, 2048, key.N.BitLen())
}

func TestPEM_RoundTrip(t *testing.T) {
	key, _ := testKeys(t)

	privPEM, err := EncodePrivateKeyPEM(key)
	require.NoError(t, err)
	assert.Contains(t, string(privPEM), "BEGIN PRIVATE KEY")

	pubPEM, err := EncodePublicKeyPEM(&key.PublicKey)
	require.NoError(t, err)
	assert.Contains(t, string(pubPEM), "BEGIN PUBLIC KEY")

	parsedPriv, err := ParsePrivateKey(privPEM, "")
	require.NoError(t, err)
	assert.True(t, key.Equal(parsedPriv))

	parsedPub, err := ParsePublicKey(pubPEM)
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(parsedPub))
}

func TestParsePrivateKey_PKCS1(t *testing.T) {
	key, _ := testKeys(t)
	data := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	parsed, err := ParsePrivateKey(data, "")
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))
}

func TestParsePrivateKey_Errors(t *testing.T) {
	_, err := ParsePrivateKey([]byte("not a key"), "")
	assert.Error(t, err)

	ec, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(ec)
	require.NoError(t, err)

	_, err = ParsePrivateKey(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), "")
	assert.ErrorIs(t, err, ErrNotRSA)
}

func TestParsePublicKey_Formats(t *testing.T) {
	key, _ := testKeys(t)

	t.Run("pkcs1", func(t *testing.T) {
		data := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey)})
		parsed, err := ParsePublicKey(data)
		require.NoError(t, err)
		assert.True(t, key.PublicKey.Equal(parsed))
	})

	t.Run("authorized key", func(t *testing.T) {
		sshPub, err := ssh.NewPublicKey(&key.PublicKey)
		require.NoError(t, err)
		parsed, err := ParsePublicKey(ssh.MarshalAuthorizedKey(sshPub))
		require.NoError(t, err)
		assert.True(t, key.PublicKey.Equal(parsed))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParsePublicKey([]byte("garbage"))
		assert.ErrorIs(t, err, ErrNoPEMBlock)
	})
}

func TestOAEP_RoundTrip(t *testing.T) {
	key, other := testKeys(t)
	msg := []byte("a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1")

	ct, err := EncryptOAEP(&key.PublicKey, msg)
	require.NoError(t, err)

	pt, err := DecryptOAEP(key, ct)
	require.NoError(t, err)
	assert.Equal(t, msg, pt)

	_, err = DecryptOAEP(other, ct)
	assert.Error(t, err)
}

func TestPSS_SignVerify(t *testing.T) {
	key, other := testKeys(t)
	msg := []byte("3f786850e387550fdab836ed7e6dc881de23001b")

	sig, err := SignPSS(key, msg)
	require.NoError(t, err)

	require.NoError(t, VerifyPSS(&key.PublicKey, msg, sig))
	assert.Error(t, VerifyPSS(&other.PublicKey, msg, sig))
	assert.Error(t, VerifyPSS(&key.PublicKey, []byte("tampered"), sig))
}

func TestLoadKeys_FromFile(t *testing.T) {
	key, _ := testKeys(t)
	dir := t.TempDir()

	privPEM, err := EncodePrivateKeyPEM(key)
	require.NoError(t, err)
	pubPEM, err := EncodePublicKeyPEM(&key.PublicKey)
	require.NoError(t, err)

	privPath := filepath.Join(dir, "student_private.pem")
	pubPath := filepath.Join(dir, "student_public.pem")
	require.NoError(t, os.WriteFile(privPath, privPEM, 0o600))
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0o600))

	loaded, err := LoadPrivateKey(privPath, "")
	require.NoError(t, err)
	assert.True(t, key.Equal(loaded))

	loadedPub, err := LoadPublicKey(pubPath)
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(loadedPub))

	_, err = LoadPrivateKey(filepath.Join(dir, "missing.pem"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
