package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/shandysiswandi/seedauth/internal/authenticator/outbound/seedstore"
	"github.com/shandysiswandi/seedauth/internal/pkg/clock"
	"github.com/shandysiswandi/seedauth/internal/pkg/config"
	"github.com/shandysiswandi/seedauth/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedauth/internal/pkg/hash"
	"github.com/shandysiswandi/seedauth/internal/pkg/instrument"
	"github.com/shandysiswandi/seedauth/internal/pkg/otp"
	"github.com/shandysiswandi/seedauth/internal/pkg/router"
	"github.com/shandysiswandi/seedauth/internal/pkg/rsakey"
	"github.com/shandysiswandi/seedauth/internal/pkg/storage"
	"github.com/shandysiswandi/seedauth/internal/pkg/uid"
	"github.com/shandysiswandi/seedauth/internal/pkg/validator"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const defaultPrivateKeyPath = "student_private.pem"

func (a *App) initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.hmac = hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))
	a.totp = otp.NewTOTP()

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator
}

func (a *App) initPrivateKey() {
	path := strings.TrimSpace(a.config.GetString("keys.private_key_path"))
	if path == "" {
		path = defaultPrivateKeyPath
	}

	key, err := rsakey.LoadPrivateKey(path, a.config.GetString("keys.passphrase"))
	if err != nil {
		slog.Error("failed to load private key", "path", path, "error", err)
		os.Exit(1)
	}

	if bits := key.N.BitLen(); bits < rsakey.DefaultBits {
		slog.Warn("private key is smaller than expected", "bits", bits, "expected", rsakey.DefaultBits)
	}

	a.privateKey = key
}

func (a *App) initSeedStore() {
	driver := strings.ToLower(strings.TrimSpace(a.config.GetString("seed.driver")))

	var gcsClient *gcs.Client
	if driver == storage.DriverGCS {
		gcsClient = a.newGCSClient()
	}

	backend, err := seedstore.NewBackend(a.ctx, seedstore.Options{
		Driver:   driver,
		FilePath: strings.TrimSpace(a.config.GetString("seed.file.path")),
		RedisURL: strings.TrimSpace(a.config.GetString("seed.redis.url")),
		RedisKey: strings.TrimSpace(a.config.GetString("seed.redis.key")),
		Bucket:   strings.TrimSpace(a.config.GetString("seed.object.bucket")),
		Key:      strings.TrimSpace(a.config.GetString("seed.object.key")),
		Storage: storage.FactoryOptions{
			S3: storage.S3Options{
				Region:       strings.TrimSpace(a.config.GetString("storage.s3.region")),
				Endpoint:     strings.TrimSpace(a.config.GetString("storage.s3.endpoint")),
				AccessKey:    strings.TrimSpace(a.config.GetString("storage.s3.access_key")),
				SecretKey:    strings.TrimSpace(a.config.GetString("storage.s3.secret_key")),
				SessionToken: strings.TrimSpace(a.config.GetString("storage.s3.session_token")),
				UsePathStyle: a.config.GetBool("storage.s3.use_path_style"),
			},
			GCS: storage.GCSOptions{
				Client: gcsClient,
			},
			MinIO: storage.MinIOOptions{
				Region:       strings.TrimSpace(a.config.GetString("storage.minio.region")),
				Endpoint:     strings.TrimSpace(a.config.GetString("storage.minio.endpoint")),
				AccessKey:    strings.TrimSpace(a.config.GetString("storage.minio.access_key")),
				SecretKey:    strings.TrimSpace(a.config.GetString("storage.minio.secret_key")),
				SessionToken: strings.TrimSpace(a.config.GetString("storage.minio.session_token")),
				UseSSL:       a.config.GetBool("storage.minio.use_ssl"),
			},
		},
	})
	if err != nil {
		slog.Error("failed to init seed store", "driver", driver, "error", err)
		os.Exit(1)
	}

	a.seedStore = seedstore.New(backend, a.ins)
	slog.Info("seed store ready", "driver", backend.Name())
}

// newGCSClient returns nil when no explicit option is configured so the
// storage package falls back to application default credentials.
func (a *App) newGCSClient() *gcs.Client {
	gcsOptions := []option.ClientOption{}
	if a.config.GetBool("storage.gcs.without_auth") {
		gcsOptions = append(gcsOptions, option.WithoutAuthentication())
	}
	if v := strings.TrimSpace(a.config.GetString("storage.gcs.credentials_file")); v != "" {
		// #nosec G304 -- path is from trusted config file.
		credsJSON, err := os.ReadFile(v)
		if err != nil {
			slog.Error("failed to read gcs credentials file", "error", err)
			os.Exit(1)
		}
		creds, err := google.CredentialsFromJSON(a.ctx, credsJSON, gcs.ScopeReadWrite)
		if err != nil {
			slog.Error("failed to parse gcs credentials file", "error", err)
			os.Exit(1)
		}
		gcsOptions = append(gcsOptions, option.WithCredentials(creds))
	}
	if v := a.config.GetBinary("storage.gcs.credentials_json"); len(v) > 0 {
		creds, err := google.CredentialsFromJSON(a.ctx, v, gcs.ScopeReadWrite)
		if err != nil {
			slog.Error("failed to parse gcs credentials json", "error", err)
			os.Exit(1)
		}
		gcsOptions = append(gcsOptions, option.WithCredentials(creds))
	}
	if v := strings.TrimSpace(a.config.GetString("storage.gcs.endpoint")); v != "" {
		gcsOptions = append(gcsOptions, option.WithEndpoint(v))
	}
	if len(gcsOptions) == 0 {
		return nil
	}

	client, err := gcs.NewClient(a.ctx, gcsOptions...)
	if err != nil {
		slog.Error("failed to init gcs client", "error", err)
		os.Exit(1)
	}
	return client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "SeedStore",
			fn: func(context.Context) error {
				return a.seedStore.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
