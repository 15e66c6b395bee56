// Package app wires the passauth services together in a samber/do injector.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/passauth/internal/accounts"
	"github.com/nfrund/passauth/internal/authevents"
	"github.com/nfrund/passauth/internal/config"
	"github.com/nfrund/passauth/internal/database"
	"github.com/nfrund/passauth/internal/domain"
	"github.com/nfrund/passauth/internal/email"
	"github.com/nfrund/passauth/internal/handlers"
	"github.com/nfrund/passauth/internal/password"
	"github.com/nfrund/passauth/internal/pubsub"
	"github.com/nfrund/passauth/internal/token"
	"github.com/samber/do/v2"
	"go.opentelemetry.io/otel/trace"
)

// Dependencies holds the core services the HTTP server is built from.
type Dependencies struct {
	Config   config.Provider
	Users    domain.UserRepository
	Accounts *accounts.Service
	Auth     *handlers.AuthHandler
	Bus      *pubsub.WatermillBridge
}

// Tracing owns the bus tracer and flushes it on shutdown.
type Tracing struct {
	Tracer   trace.Tracer
	shutdown func(context.Context) error
}

// Shutdown flushes pending spans.
func (t *Tracing) Shutdown(ctx context.Context) error {
	return t.shutdown(ctx)
}

// repository closes the underlying store when the injector shuts down.
type repository struct {
	domain.UserRepository
}

func (r repository) Shutdown(ctx context.Context) error {
	return r.Close(ctx)
}

// auditLog keeps the audit subscriptions alive until shutdown.
type auditLog struct {
	cancel context.CancelFunc
}

func (a *auditLog) Shutdown() {
	a.cancel()
}

// NewInjector registers every service. Nothing is constructed until it is
// first invoked.
func NewInjector(cfg config.Provider, logger *slog.Logger) *do.RootScope {
	if logger == nil {
		logger = slog.Default()
	}
	i := do.New()

	do.ProvideValue(i, cfg)
	do.ProvideValue(i, logger)

	do.Provide(i, func(i do.Injector) (*Tracing, error) {
		tracer, shutdown, err := pubsub.SetupOTel(context.Background(), pubsub.LoadTracingConfigFromEnv())
		if err != nil {
			return nil, fmt.Errorf("failed to set up tracing: %w", err)
		}
		return &Tracing{Tracer: tracer, shutdown: shutdown}, nil
	})

	do.Provide(i, func(i do.Injector) (*pubsub.WatermillBridge, error) {
		tracing := do.MustInvoke[*Tracing](i)
		return pubsub.NewWatermillBridge(tracing.Tracer), nil
	})

	do.Provide(i, func(i do.Injector) (*password.Hasher, error) {
		return password.NewHasher(password.DefaultParams), nil
	})

	do.Provide(i, func(i do.Injector) (*token.Manager, error) {
		cfg := do.MustInvoke[config.Provider](i)
		return token.NewManager(token.Config{
			Secret: []byte(cfg.GetTokenSecret()),
			TTL:    cfg.GetTokenTTL(),
		})
	})

	do.Provide(i, func(i do.Injector) (domain.UserRepository, error) {
		cfg := do.MustInvoke[config.Provider](i)
		hasher := do.MustInvoke[*password.Hasher](i)
		tokens := do.MustInvoke[*token.Manager](i)

		repo, err := database.NewUserRepository(context.Background(), cfg, hasher, tokens)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s user store: %w", cfg.GetStoreDriver(), err)
		}
		return repository{repo}, nil
	})

	do.Provide(i, func(i do.Injector) (domain.EmailSender, error) {
		return email.NewEmailService(do.MustInvoke[config.Provider](i))
	})

	do.Provide(i, func(i do.Injector) (*accounts.Service, error) {
		cfg := do.MustInvoke[config.Provider](i)
		return accounts.NewService(
			do.MustInvoke[domain.UserRepository](i),
			do.MustInvoke[domain.EmailSender](i),
			do.MustInvoke[*pubsub.WatermillBridge](i),
			cfg.GetAppBaseURL(),
		), nil
	})

	do.Provide(i, func(i do.Injector) (*handlers.AuthHandler, error) {
		cfg := do.MustInvoke[config.Provider](i)
		return handlers.NewAuthHandler(
			do.MustInvoke[*accounts.Service](i),
			do.MustInvoke[*pubsub.WatermillBridge](i),
			cfg.GetTokenTTL(),
		), nil
	})

	do.Provide(i, func(i do.Injector) (*auditLog, error) {
		bus := do.MustInvoke[*pubsub.WatermillBridge](i)
		audit := authevents.NewAudit(do.MustInvoke[*slog.Logger](i))

		ctx, cancel := context.WithCancel(context.Background())
		if err := audit.Start(ctx, bus); err != nil {
			cancel()
			return nil, err
		}
		return &auditLog{cancel: cancel}, nil
	})

	return i
}

// Resolve builds the services the server needs and starts the audit log.
func Resolve(i do.Injector) (Dependencies, error) {
	var deps Dependencies
	var err error

	if deps.Config, err = do.Invoke[config.Provider](i); err != nil {
		return deps, err
	}
	if deps.Users, err = do.Invoke[domain.UserRepository](i); err != nil {
		return deps, err
	}
	if deps.Accounts, err = do.Invoke[*accounts.Service](i); err != nil {
		return deps, err
	}
	if deps.Auth, err = do.Invoke[*handlers.AuthHandler](i); err != nil {
		return deps, err
	}
	if deps.Bus, err = do.Invoke[*pubsub.WatermillBridge](i); err != nil {
		return deps, err
	}
	if _, err = do.Invoke[*auditLog](i); err != nil {
		return deps, err
	}
	return deps, nil
}

// Shutdown tears down every service that was built, in reverse dependency
// order.
func Shutdown(ctx context.Context, i *do.RootScope) error {
	report := i.ShutdownWithContext(ctx)
	if report == nil || len(report.Errors) == 0 {
		return nil
	}
	return report
}
