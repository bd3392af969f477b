package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"

	"astrocrm/cmd/fx/account_fx"
	"astrocrm/cmd/fx/catalog_fx"
	"astrocrm/cmd/fx/config_fx"
	"astrocrm/cmd/fx/consultation_fx"
	"astrocrm/cmd/fx/controllers_fx"
	"astrocrm/cmd/fx/db_fx"
	"astrocrm/cmd/fx/mail_fx"
	"astrocrm/cmd/fx/metrics_fx"
	"astrocrm/cmd/fx/router_fx"
	"astrocrm/cmd/fx/storage_fx"
	"astrocrm/internal/config"
	"astrocrm/internal/services"
)

func main() {
	app := fx.New(
		fx.NopLogger,
		config_fx.Module,
		metrics_fx.Module,
		db_fx.Module,
		storage_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		catalog_fx.Module,
		consultation_fx.Module,
		controllers_fx.Module,
		router_fx.Module,

		fx.Invoke(SeedAdmin),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func SeedAdmin(lc fx.Lifecycle, accounts services.AccountServiceInterface, log *logrus.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := accounts.SeedDefaultAdmin(ctx); err != nil {
				log.WithError(err).Error("Failed to seed default admin")
			}
			return nil
		},
	})
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg config.ServerConfig, log *logrus.Logger, shutdowner fx.Shutdowner) {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.WithField("addr", srv.Addr).Info("Starting HTTP server")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.WithError(err).Error("HTTP server stopped")
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server")
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}
