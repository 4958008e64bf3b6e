package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shandysiswandi/seedauth/internal/pkg/rsakey"
)

func runKeygen(_ context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("keygen")
	outDir := fs.String("out-dir", ".", "output directory")
	bits := fs.Int("bits", rsakey.DefaultBits, "RSA modulus size")
	force := fs.Bool("force", false, "overwrite existing key files")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	privPath := filepath.Join(*outDir, "student_private.pem")
	pubPath := filepath.Join(*outDir, "student_public.pem")
	if !*force {
		for _, p := range []string{privPath, pubPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists, pass -force to overwrite", p)
			}
		}
	}

	writef(stdout, "Generating RSA %d-bit key pair...\n", *bits)
	key, err := rsakey.Generate(*bits)
	if err != nil {
		return err
	}

	privPEM, err := rsakey.EncodePrivateKeyPEM(key)
	if err != nil {
		return fmt.Errorf("encode private key: %w", err)
	}
	pubPEM, err := rsakey.EncodePublicKeyPEM(&key.PublicKey)
	if err != nil {
		return fmt.Errorf("encode public key: %w", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	if err := writeFile(privPath, privPEM, 0o600); err != nil {
		return err
	}
	if err := writeFile(pubPath, pubPEM, 0o644); err != nil {
		return err
	}

	writef(stdout, "Wrote:\n  %s\n  %s\n", privPath, pubPath)
	return nil
}

// writeFile writes data and forces perm even when the file already existed.
func writeFile(path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("write file %s: %w", path, err)
	}
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}
