package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shandysiswandi/seedauth/internal/authenticator/outbound/seedstore"
	"github.com/shandysiswandi/seedauth/internal/pkg/instrument"
	"github.com/shandysiswandi/seedauth/internal/pkg/otp"
)

// errCodeRejected makes `seedctl totp --verify` exit non-zero on a bad code.
var errCodeRejected = errors.New("code rejected")

func runTOTP(ctx context.Context, args []string, stdout io.Writer) error {
	return runTOTPAt(ctx, args, stdout, time.Now())
}

func runTOTPAt(ctx context.Context, args []string, stdout io.Writer, now time.Time) error {
	fs := newFlagSet("totp")
	gen := fs.Bool("gen", false, "print the current code")
	verify := fs.String("verify", "", "code to verify")
	window := fs.Uint64("window", otp.DefaultParams.Window, "steps accepted before and after now")
	seedPath := fs.String("seed", seedstore.DefaultFilePath, "seed file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *gen == (*verify != "") {
		return fmt.Errorf("%w: pass exactly one of -gen or -verify CODE", errUsage)
	}

	store := seedstore.New(seedstore.NewFile(*seedPath), instrument.NewNoop())
	defer func() { _ = store.Close() }()

	seed, err := store.Get(ctx)
	if err != nil {
		return fmt.Errorf("missing seed at %s, run decrypt-seed first: %w", *seedPath, err)
	}

	engine := otp.NewTOTP()
	params := otp.DefaultParams
	params.Window = *window

	if *gen {
		code, err := engine.Generate(seed.Bytes(), now, params)
		if err != nil {
			return err
		}
		writef(stdout, "TOTP code (%ds): %s\n", params.Step, code)
		writef(stdout, "Valid for: %ds\n", otp.ValidFor(now.Unix(), params.Step))
		return nil
	}

	ok := engine.Verify(seed.Bytes(), *verify, now, params)
	writef(stdout, "Verify result: %t\n", ok)
	if !ok {
		return errCodeRejected
	}
	return nil
}
