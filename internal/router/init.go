package router

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oksasatya/go-ddd-identity/internal/application"
	"github.com/oksasatya/go-ddd-identity/internal/container"
	"github.com/oksasatya/go-ddd-identity/internal/infrastructure/identity"
	pginfra "github.com/oksasatya/go-ddd-identity/internal/infrastructure/postgres"
	redisinfra "github.com/oksasatya/go-ddd-identity/internal/infrastructure/redis"
	"github.com/oksasatya/go-ddd-identity/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-identity/internal/infrastructure/storage"
	handlers "github.com/oksasatya/go-ddd-identity/internal/interface/http"
	"github.com/oksasatya/go-ddd-identity/internal/router/modules"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

type ModuleDeps struct {
	Users       *application.Service
	Auth        *application.AuthService
	Sessions    *application.SessionService
	UserHandler *handlers.UserHandler
	AuthHandler *handlers.AuthHandler
}

func buildDeps() ModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rec := container.GetRecorder()
	pool := container.GetPGPool()

	var (
		cache application.UserCache
		index application.UserIndex
		icons application.IconStore
	)
	if rdb := container.GetRedis(); rdb != nil {
		cache = redisinfra.NewProfileCache(rdb, 0)
	}
	if es := container.GetES(); es != nil {
		index = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		icons = storage.NewIconStore(gcs, cfg.GCSBucket)
	}

	users := application.NewService(pginfra.NewUserRepository(pool), cache, index, icons, logger, rec)

	notifier := identity.NewQueueNotifier(container.GetRabbitPub(), cfg.AppName, cfg.VerifyCodeTTL, cfg.MailSendEnabled, logger)
	provider := identity.NewProvider(
		pginfra.NewCredentialRepository(pool),
		redisinfra.NewCodeStore(container.GetRedis(), cfg.VerifyCodeSecret),
		notifier,
		container.GetJWT(),
		cfg.VerifyCodeTTL,
		logger,
	)
	auth := application.NewAuthService(provider, users, provider, logger, rec)
	sessions := application.NewSessionService(container.GetJWT(), redisinfra.NewTokenDenylist(container.GetRedis()), provider, logger, rec)

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure, cfg.AccessTTL, cfg.RefreshTTL)

	return ModuleDeps{
		Users:       users,
		Auth:        auth,
		Sessions:    sessions,
		UserHandler: handlers.NewUserHandler(users, auth, cfg.GCSBucket, logger),
		AuthHandler: handlers.NewAuthHandler(auth, sessions, cookies, logger),
	}
}

// InitModules builds the application graph from the container and registers every module.
// Call once at startup, after the container is populated.
func InitModules(r *Registry) {
	deps := buildDeps()
	r.Add(modules.NewAuthModule(deps.AuthHandler))
	r.Add(modules.NewUserModule(deps.UserHandler, container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		var g prometheus.Gatherer
		if reg := container.GetRegistry(); reg != nil {
			g = reg
		}
		r.Add(modules.NewDebugModule(g))
	}
}
