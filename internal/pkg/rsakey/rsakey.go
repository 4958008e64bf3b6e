package rsakey

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
)

// DefaultBits is the modulus size used for newly generated key pairs.
const DefaultBits = 4096

var (
	// ErrNotRSA indicates the decoded key uses another algorithm.
	ErrNotRSA = errors.New("rsakey: key is not RSA")
	// ErrNoPEMBlock indicates the input contains no PEM data.
	ErrNoPEMBlock = errors.New("rsakey: no PEM block found")
	// ErrKeyTooSmall indicates a modulus below 2048 bits.
	ErrKeyTooSmall = errors.New("rsakey: key must be at least 2048 bits")
)

// LoadPrivateKey reads and parses an RSA private key file.
func LoadPrivateKey(path, passphrase string) (*rsa.PrivateKey, error) {
	// #nosec G304 -- path is from trusted config file.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePrivateKey(data, passphrase)
}

// ParsePrivateKey decodes a PKCS#1, PKCS#8 or OpenSSH encoded RSA private key.
// passphrase is only used when the key is encrypted.
func ParsePrivateKey(data []byte, passphrase string) (*rsa.PrivateKey, error) {
	var (
		raw any
		err error
	)
	if passphrase != "" {
		raw, err = ssh.ParseRawPrivateKeyWithPassphrase(data, []byte(passphrase))
	} else {
		raw, err = ssh.ParseRawPrivateKey(data)
	}
	if err != nil {
		return nil, fmt.Errorf("rsakey: parse private key: %w", err)
	}

	key, ok := raw.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return key, nil
}

// LoadPublicKey reads and parses an RSA public key file.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	// #nosec G304 -- path is provided by the operator.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePublicKey(data)
}

// ParsePublicKey decodes an SPKI or PKCS#1 PEM public key, or a single
// authorized_keys line.
func ParsePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return parseAuthorizedKey(data)
	}

	var (
		pub any
		err error
	)
	switch block.Type {
	case "RSA PUBLIC KEY":
		pub, err = x509.ParsePKCS1PublicKey(block.Bytes)
	default:
		pub, err = x509.ParsePKIXPublicKey(block.Bytes)
	}
	if err != nil {
		return nil, fmt.Errorf("rsakey: parse public key: %w", err)
	}

	key, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return key, nil
}

func parseAuthorizedKey(data []byte) (*rsa.PublicKey, error) {
	sshKey, _, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return nil, ErrNoPEMBlock
	}

	cpk, ok := sshKey.(ssh.CryptoPublicKey)
	if !ok {
		return nil, ErrNotRSA
	}
	key, ok := cpk.CryptoPublicKey().(*rsa.PublicKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return key, nil
}

// Generate creates a new key pair with public exponent 65537.
func Generate(bits int) (*rsa.PrivateKey, error) {
	if bits < 2048 {
		return nil, ErrKeyTooSmall
	}
	return rsa.GenerateKey(rand.Reader, bits)
}

// EncodePrivateKeyPEM returns the PKCS#8 PEM encoding of key.
func EncodePrivateKeyPEM(key *rsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// EncodePublicKeyPEM returns the SPKI PEM encoding of key.
func EncodePublicKeyPEM(key *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// EncryptOAEP encrypts msg with RSA-OAEP using SHA-256 for both the label
// hash and MGF1.
func EncryptOAEP(pub *rsa.PublicKey, msg []byte) ([]byte, error) {
	return rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, msg, nil)
}

// DecryptOAEP reverses EncryptOAEP.
func DecryptOAEP(key *rsa.PrivateKey, ciphertext []byte) ([]byte, error) {
	return rsa.DecryptOAEP(sha256.New(), nil, key, ciphertext, nil)
}

// SignPSS signs the SHA-256 digest of msg with RSA-PSS using the largest
// salt the key allows.
func SignPSS(key *rsa.PrivateKey, msg []byte) ([]byte, error) {
	digest := sha256.Sum256(msg)
	return rsa.SignPSS(rand.Reader, key, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
	})
}

// VerifyPSS checks a signature produced by SignPSS.
func VerifyPSS(pub *rsa.PublicKey, msg, sig []byte) error {
	digest := sha256.Sum256(msg)
	return rsa.VerifyPSS(pub, crypto.SHA256, digest[:], sig, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
	})
}
