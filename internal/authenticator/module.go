package authenticator

import (
	"context"
	"crypto/rsa"

	"github.com/shandysiswandi/seedauth/internal/authenticator/inbound"
	"github.com/shandysiswandi/seedauth/internal/authenticator/outbound/seedstore"
	"github.com/shandysiswandi/seedauth/internal/authenticator/usecase"
	"github.com/shandysiswandi/seedauth/internal/pkg/clock"
	"github.com/shandysiswandi/seedauth/internal/pkg/config"
	"github.com/shandysiswandi/seedauth/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedauth/internal/pkg/hash"
	"github.com/shandysiswandi/seedauth/internal/pkg/instrument"
	"github.com/shandysiswandi/seedauth/internal/pkg/otp"
	"github.com/shandysiswandi/seedauth/internal/pkg/router"
	"github.com/shandysiswandi/seedauth/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context
	SeedStore  *seedstore.Store           `validate:"required"`
	PrivateKey *rsa.PrivateKey            `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Totp       otp.OTP                    `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	params := ParamsFromConfig(dep.Config)
	if err := params.Validate(); err != nil {
		return err
	}

	uc := usecase.NewAuthenticator(usecase.Dependency{
		Store:      dep.SeedStore,
		OTP:        dep.Totp,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		HMAC:       dep.HMAC,
		Instrument: dep.Instrument,
		Params:     params,
		PrivateKey: dep.PrivateKey,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterCronJob(dep.Ctx, dep.Config, dep.Goroutine, dep.Clock, uc)
	}

	return nil
}

// ParamsFromConfig reads totp.step, totp.digits and totp.window, falling back
// to otp.DefaultParams for each one left unset. An explicit window of 0 is
// kept for strict verification.
func ParamsFromConfig(cfg config.Config) otp.Params {
	p := otp.Params{
		Step:   cfg.GetUint64("totp.step"),
		Digits: cfg.GetInt("totp.digits"),
		Window: otp.DefaultParams.Window,
	}
	if cfg.IsSet("totp.window") {
		p.Window = cfg.GetUint64("totp.window")
	}
	if p.Step == 0 {
		p.Step = otp.DefaultParams.Step
	}
	if p.Digits == 0 {
		p.Digits = otp.DefaultParams.Digits
	}
	return p
}
