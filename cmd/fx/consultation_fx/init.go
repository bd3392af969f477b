package consultation_fx

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"

	"astrocrm/internal/config"
	"astrocrm/internal/repositories"
	"astrocrm/internal/services"
	"astrocrm/internal/storage"
)

var Module = fx.Provide(
	repositories.NewConsultationRepository,
	repositories.NewConsultationHistoryRepository,
	provideConsultationService,
	provideHistoryService,
)

func provideConsultationService(
	consultationRepo repositories.ConsultationRepository,
	categoryRepo repositories.CategoryRepository,
	clientRepo repositories.ClientRepository,
	blobs storage.BlobStore,
	cleanups services.CleanupRecorder,
	cfg config.UploadConfig,
	log *logrus.Logger,
) services.ConsultationServiceInterface {
	return services.NewConsultationService(consultationRepo, categoryRepo, clientRepo, blobs, cleanups, cfg, log)
}

func provideHistoryService(historyRepo repositories.ConsultationHistoryRepository, consultationRepo repositories.ConsultationRepository, log *logrus.Logger) services.ConsultationHistoryServiceInterface {
	return services.NewConsultationHistoryService(historyRepo, consultationRepo, log)
}

