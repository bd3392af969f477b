package mail_fx

import (
	"go.uber.org/fx"

	"astrocrm/internal/services"
)

var Module = fx.Provide(services.NewAccountNotifier)
