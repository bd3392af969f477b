package config_fx

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"

	"astrocrm/internal/config"
	"astrocrm/internal/infra"
)

// Module loads configuration once and hands out the sections components depend on.
var Module = fx.Provide(
	config.Load,
	provideLogger,
	func(cfg *config.Config) config.DatabaseConfig { return cfg.Database },
	func(cfg *config.Config) config.MongoConfig { return cfg.Mongo },
	func(cfg *config.Config) config.AuthConfig { return cfg.Auth },
	func(cfg *config.Config) config.UploadConfig { return cfg.Upload },
	func(cfg *config.Config) config.CORSConfig { return cfg.CORS },
	func(cfg *config.Config) config.MailConfig { return cfg.Mail },
	func(cfg *config.Config) config.ServerConfig { return cfg.Server },
)

func provideLogger(cfg *config.Config) *logrus.Logger {
	return infra.NewLogger(cfg.Log)
}
