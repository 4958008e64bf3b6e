package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shandysiswandi/seedauth/internal/authenticator/outbound/seedstore"
	"github.com/shandysiswandi/seedauth/internal/authenticator/usecase"
	"github.com/shandysiswandi/seedauth/internal/pkg/instrument"
	"github.com/shandysiswandi/seedauth/internal/pkg/rsakey"
)

func runDecryptSeed(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("decrypt-seed")
	inPath := fs.String("in", filepath.Join("data", "encrypted_seed.txt"), "encrypted seed file")
	keyPath := fs.String("key", "student_private.pem", "private key PEM file")
	passphrase := fs.String("passphrase", "", "private key passphrase")
	outPath := fs.String("out", seedstore.DefaultFilePath, "seed file to write")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	// #nosec G304 -- path is provided by the operator.
	ciphertext, err := os.ReadFile(*inPath)
	if err != nil {
		return fmt.Errorf("read encrypted seed: %w", err)
	}

	key, err := rsakey.LoadPrivateKey(*keyPath, *passphrase)
	if err != nil {
		return fmt.Errorf("load private key: %w", err)
	}

	seed, err := usecase.DecryptSeed(string(ciphertext), key)
	if err != nil {
		return err
	}

	store := seedstore.New(seedstore.NewFile(*outPath), instrument.NewNoop())
	defer func() { _ = store.Close() }()

	if err := store.Put(ctx, seed); err != nil {
		return err
	}

	writef(stdout, "Seed decrypted and saved at %s\n", *outPath)
	return nil
}
