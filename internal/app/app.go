package app

import (
	"context"
	"crypto/rsa"
	"net/http"

	"github.com/shandysiswandi/seedauth/internal/authenticator/outbound/seedstore"
	"github.com/shandysiswandi/seedauth/internal/pkg/clock"
	"github.com/shandysiswandi/seedauth/internal/pkg/config"
	"github.com/shandysiswandi/seedauth/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedauth/internal/pkg/hash"
	"github.com/shandysiswandi/seedauth/internal/pkg/instrument"
	"github.com/shandysiswandi/seedauth/internal/pkg/otp"
	"github.com/shandysiswandi/seedauth/internal/pkg/router"
	"github.com/shandysiswandi/seedauth/internal/pkg/uid"
	"github.com/shandysiswandi/seedauth/internal/pkg/validator"
)

// App owns every long-lived dependency of the seedauth service. Fields are
// filled by the init* steps in New, in declaration order.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	config config.Config
	ins    instrument.Instrumentation

	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uuid      uid.StringID
	totp      otp.OTP

	// seed material
	privateKey *rsa.PrivateKey
	seedStore  *seedstore.Store

	router     *router.Router
	httpServer *http.Server

	// run in order by Stop
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New builds the App or exits the process: a service that cannot load its
// key or reach its seed store has nothing useful to serve.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initPrivateKey()
	app.initSeedStore()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
