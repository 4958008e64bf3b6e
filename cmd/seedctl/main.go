// Command seedctl covers the offline steps around the seedauth service:
// key generation, seed provisioning, local decryption, commit proofs and
// TOTP checks against the stored seed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: seedctl <command> [flags]

commands:
  keygen        generate the RSA key pair
  fetch-seed    request an encrypted seed from the provisioning API
  decrypt-seed  decrypt an encrypted seed file into the seed store
  commit-proof  sign the latest commit and encrypt the signature
  totp          generate (--gen) or verify (--verify CODE) a code
`

type command func(ctx context.Context, args []string, stdout io.Writer) error

var commands = map[string]command{
	"keygen":       runKeygen,
	"fetch-seed":   runFetchSeed,
	"decrypt-seed": runDecryptSeed,
	"commit-proof": runCommitProof,
	"totp":         runTOTP,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		writef(stderr, "%s", usage)
		return 2
	}

	cmd, ok := commands[args[0]]
	if !ok {
		writef(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err := cmd(ctx, args[1:], stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		writef(stderr, "%s: %v\n", args[0], err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

var errUsage = errors.New("invalid usage")

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
