package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/itimad/portal-api/config"
	redisadapter "github.com/itimad/portal-api/internal/adapters/redis"
	"github.com/itimad/portal-api/internal/captcha"
	"github.com/itimad/portal-api/internal/data"
	"github.com/itimad/portal-api/internal/i18n"
	"github.com/itimad/portal-api/internal/ports"
	"github.com/itimad/portal-api/internal/service"
)

// ServiceContainer holds the constructed services and shared stores.
type ServiceContainer struct {
	Captcha      *service.CaptchaService
	Auth         *service.AuthService
	Applications *service.ApplicationService
	Certificates *service.CertificateService
	Translator   *i18n.Translator

	// Sessions is the shared session store, exposed for the reaper.
	Sessions ports.SessionStore
}

// ServicesConfig contains dependencies for building the service container.
type ServicesConfig struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildSessionStore selects the session store backend from configuration.
//
//nolint:ireturn // the postgres and redis stores share only the port interface.
func BuildSessionStore(cfg ServicesConfig) (ports.SessionStore, error) {
	switch cfg.Config.Session.Backend {
	case config.SessionBackendRedis:
		if cfg.RedisClient == nil {
			return nil, errors.New("session backend is redis but no redis client is configured")
		}
		return redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:"), nil
	case config.SessionBackendPostgres:
		fallthrough
	default:
		if cfg.DB == nil {
			return nil, errors.New("session backend is postgres but no database is configured")
		}
		return data.NewSessionRepo(cfg.DB), nil
	}
}

// BuildServices wires repositories, stores, and services together.
func BuildServices(cfg ServicesConfig) (ServiceContainer, error) {
	if cfg.Config == nil {
		return ServiceContainer{}, errors.New("app config is required")
	}
	if cfg.DB == nil {
		return ServiceContainer{}, errors.New("database connection is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sessions, err := BuildSessionStore(cfg)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build session store: %w", err)
	}

	translator, err := i18n.New()
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build translator: %w", err)
	}

	generator := captcha.NewGenerator(captcha.Options{
		Length: cfg.Config.Captcha.Length,
		Width:  cfg.Config.Captcha.Width,
		Height: cfg.Config.Captcha.Height,
	})
	captchaSvc := service.NewCaptchaService(service.CaptchaServiceOptions{
		Sessions:     sessions,
		Generator:    generator,
		ChallengeTTL: cfg.Config.Captcha.TTL,
		Attempts:     cfg.Config.Captcha.Attempts,
		SessionTTL:   cfg.Config.Session.TTL,
	})

	users := data.NewUserRepo(cfg.DB)
	authSvc := BuildAuthService(AuthBuildConfig{
		Auth:       cfg.Config.Auth,
		Sessions:   sessions,
		Users:      users,
		Captcha:    captchaSvc,
		SessionTTL: cfg.Config.Session.TTL,
		Logger:     logger,
	})
	if authSvc == nil {
		return ServiceContainer{}, errors.New("auth service could not be configured")
	}

	certSvc := service.NewCertificateService(service.CertificateServiceOptions{
		Certificates: data.NewCertificateRepo(cfg.DB),
		SigningKey:   []byte(cfg.Config.Certificate.SigningKey),
		Issuer:       cfg.Config.Certificate.Issuer,
		Validity:     cfg.Config.Certificate.Validity,
	})

	appSvc := service.NewApplicationService(service.ApplicationServiceOptions{
		Applications: data.NewApplicationRepo(cfg.DB),
		Certificates: certSvc,
	})

	return ServiceContainer{
		Captcha:      captchaSvc,
		Auth:         authSvc,
		Applications: appSvc,
		Certificates: certSvc,
		Translator:   translator,
		Sessions:     sessions,
	}, nil
}
