package router_fx

import (
	"go.uber.org/fx"

	"astrocrm/internal/api"
)

var Module = fx.Provide(api.NewRouter)
