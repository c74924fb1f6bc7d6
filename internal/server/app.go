// Package server wires configuration, storage, token handling and the HTTP
// boundary together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/coursehub/internal/logging"
	"github.com/dmitrijs2005/coursehub/internal/server/auth"
	"github.com/dmitrijs2005/coursehub/internal/server/config"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/coursehub/internal/server/rest"
	"github.com/dmitrijs2005/coursehub/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	http        *rest.HTTPServer
}

// NewApp opens the configured store, applies its schema and builds the HTTP
// server. Any failure leaves nothing open.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	rm, err := repomanager.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, rm)
	if err != nil {
		_ = rm.Close(ctx)
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, rm repomanager.RepositoryManager) (*App, error) {
	if err := rm.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	codec, err := auth.NewCodec(map[models.Kind][]byte{
		models.KindUser:  []byte(c.UserSecretKey),
		models.KindAdmin: []byte(c.AdminSecretKey),
	}, c.TokenValidityDuration)
	if err != nil {
		return nil, err
	}

	hasher, err := auth.NewHasher(c.BcryptCost)
	if err != nil {
		return nil, err
	}

	srv := rest.NewHTTPServer(c.EndpointAddrHTTP, c.ShutdownTimeout, logger, rest.NewMetrics(), codec,
		services.NewAuthService(rm, codec, hasher),
		services.NewCourseService(rm, c),
		services.NewPurchaseService(rm),
	)

	return &App{config: c, logger: logger, repomanager: rm, http: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a signal arrives, then closes
// the store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.StorageDriver)

	app.initSignalHandler(cancelFunc)

	runErr := app.http.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "http server stopped", "error", runErr)
	}

	closeErr := app.repomanager.Close(context.WithoutCancel(ctx))
	if closeErr != nil {
		app.logger.Error(ctx, "storage close failed", "error", closeErr)
	}

	app.logger.Info(ctx, "App stopped")

	if runErr != nil {
		return runErr
	}
	return closeErr
}
