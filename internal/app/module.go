package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/seedauth/internal/authenticator"
)

func (a *App) initModules() {
	if err := authenticator.New(authenticator.Dependency{
		Ctx:        a.ctx,
		SeedStore:  a.seedStore,
		PrivateKey: a.privateKey,
		Goroutine:  a.goroutine,
		Router:     a.router,
		Config:     a.config,
		Instrument: a.ins,
		HMAC:       a.hmac,
		Clock:      a.clock,
		Totp:       a.totp,
		Validator:  a.validator,
	}); err != nil {
		slog.Error("failed to init module authenticator", "error", err)
		os.Exit(1)
	}
}
