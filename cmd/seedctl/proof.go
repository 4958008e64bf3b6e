package main

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"

	"github.com/shandysiswandi/seedauth/internal/pkg/rsakey"
)

var commitHashRe = regexp.MustCompile(`^[0-9a-f]{40}$`)

func runCommitProof(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("commit-proof")
	keyPath := fs.String("key", "student_private.pem", "private key PEM file")
	passphrase := fs.String("passphrase", "", "private key passphrase")
	instructorPath := fs.String("instructor-key", "instructor_public.pem", "instructor public key file")
	commit := fs.String("commit", "", "commit hash (default: latest commit of the current repository)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	hash := strings.TrimSpace(*commit)
	if hash == "" {
		var err error
		if hash, err = latestCommit(ctx); err != nil {
			return err
		}
	}
	if !commitHashRe.MatchString(hash) {
		return fmt.Errorf("%w: %q is not a 40 character commit hash", errUsage, hash)
	}

	key, err := rsakey.LoadPrivateKey(*keyPath, *passphrase)
	if err != nil {
		return fmt.Errorf("load private key: %w", err)
	}
	instructor, err := rsakey.LoadPublicKey(*instructorPath)
	if err != nil {
		return fmt.Errorf("load instructor key: %w", err)
	}

	proof, err := commitProof(hash, key, instructor)
	if err != nil {
		return err
	}

	writef(stdout, "Commit Hash: %s\n", hash)
	writef(stdout, "Encrypted Signature (Base64):\n%s\n", proof)
	return nil
}

// commitProof signs the ASCII commit hash with RSA-PSS and encrypts the
// signature for the instructor with RSA-OAEP.
func commitProof(hash string, key *rsa.PrivateKey, instructor *rsa.PublicKey) (string, error) {
	sig, err := rsakey.SignPSS(key, []byte(hash))
	if err != nil {
		return "", fmt.Errorf("sign commit: %w", err)
	}

	ct, err := rsakey.EncryptOAEP(instructor, sig)
	if errors.Is(err, rsa.ErrMessageTooLong) {
		return "", fmt.Errorf("encrypt signature: %d byte signature does not fit a %d-bit instructor key: %w",
			len(sig), instructor.N.BitLen(), err)
	}
	if err != nil {
		return "", fmt.Errorf("encrypt signature: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ct), nil
}

func latestCommit(ctx context.Context) (string, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", "log", "-1", "--format=%H")
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git log: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}
