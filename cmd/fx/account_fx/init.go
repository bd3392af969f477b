package account_fx

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"astrocrm/internal/access"
	"astrocrm/internal/config"
	"astrocrm/internal/repositories"
	"astrocrm/internal/services"
	"astrocrm/pkg/metrics"
	"astrocrm/pkg/middleware"
	"astrocrm/pkg/utils"
)

var Module = fx.Provide(
	provideAccountRepo,
	provideTokenManager,
	provideGuard,
	provideAccountService,
	provideAdminService,
)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideTokenManager(cfg config.AuthConfig) *utils.TokenManager {
	return utils.NewTokenManager(cfg.JWTSecret, cfg.Issuer, cfg.TokenTTL)
}

func provideGuard(tokens *utils.TokenManager, accounts repositories.AccountRepository, m *metrics.Metrics) *middleware.Guard {
	return middleware.NewGuard(access.NewGate(tokens, accounts), m)
}

func provideAccountService(accountRepo repositories.AccountRepository, tokens *utils.TokenManager, cfg config.AuthConfig, log *logrus.Logger) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, tokens, cfg, log)
}

func provideAdminService(accountRepo repositories.AccountRepository, notifier services.AccountNotifier, log *logrus.Logger) services.AdminServiceInterface {
	return services.NewAdminService(accountRepo, notifier, log)
}
