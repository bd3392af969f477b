package catalog_fx

import (
	"go.uber.org/fx"

	"astrocrm/internal/repositories"
	"astrocrm/internal/services"
)

// Module wires clients, categories and subcategories.
var Module = fx.Provide(
	repositories.NewClientRepository,
	repositories.NewCategoryRepository,
	repositories.NewSubcategoryRepository,
	services.NewClientService,
	services.NewCategoryService,
	services.NewSubcategoryService,
)
