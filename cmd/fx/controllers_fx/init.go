package controllers_fx

import (
	"go.uber.org/fx"

	"astrocrm/internal/api"
	"astrocrm/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewAdminController),
	fx.Provide(controllers.NewConsultationController),
	fx.Provide(controllers.NewConsultationHistoryController),
	fx.Provide(controllers.NewClientController),
	fx.Provide(controllers.NewCategoryController),
	fx.Provide(provideHandlers),
)

type handlerParams struct {
	fx.In

	Account      *controllers.AccountController
	Admin        *controllers.AdminController
	Consultation *controllers.ConsultationController
	History      *controllers.ConsultationHistoryController
	Client       *controllers.ClientController
	Category     *controllers.CategoryController
}

func provideHandlers(p handlerParams) api.Handlers {
	return api.Handlers{
		Account:      p.Account,
		Admin:        p.Admin,
		Consultation: p.Consultation,
		History:      p.History,
		Client:       p.Client,
		Category:     p.Category,
	}
}
