package services

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"astrocrm/internal/access"
	"astrocrm/internal/models/db_models"
	"astrocrm/internal/models/request_models"
	"astrocrm/internal/models/response_models"
	"astrocrm/internal/repositories"
	"astrocrm/pkg/utils"
)

const historyNoun = "consultation history"

type ConsultationHistoryServiceInterface interface {
	Add(ctx context.Context, caller access.Identity, consultationID uuid.UUID, request request_models.ConsultationHistoryRequest) (*db_models.ConsultationHistory, error)
	ListForConsultation(ctx context.Context, caller access.Identity, consultationID uuid.UUID, page, limit int) (*response_models.HistoryPage, error)
	Get(ctx context.Context, caller access.Identity, historyID uuid.UUID) (*db_models.ConsultationHistory, error)
	Update(ctx context.Context, caller access.Identity, historyID uuid.UUID, request request_models.ConsultationHistoryUpdateRequest) (*db_models.ConsultationHistory, error)
	Delete(ctx context.Context, caller access.Identity, historyID uuid.UUID) error
	ListMine(ctx context.Context, caller access.Identity, query request_models.HistoryListQuery) (*response_models.HistoryPage, error)
}

// ConsultationHistoryService guards every entry through its parent consultation's owner.
type ConsultationHistoryService struct {
	historyRepo      repositories.ConsultationHistoryRepository
	consultationRepo repositories.ConsultationRepository
	log              *logrus.Logger
}

func NewConsultationHistoryService(historyRepo repositories.ConsultationHistoryRepository, consultationRepo repositories.ConsultationRepository, log *logrus.Logger) ConsultationHistoryServiceInterface {
	return &ConsultationHistoryService{
		historyRepo:      historyRepo,
		consultationRepo: consultationRepo,
		log:              log,
	}
}

func (s *ConsultationHistoryService) findParent(ctx context.Context, id uuid.UUID) (*db_models.Consultation, error) {
	consultation, err := s.consultationRepo.FindById(ctx, id)
	if err != nil {
		return nil, utils.DatabaseError("find consultation", err)
	}
	return consultation, nil
}

// loadOwned fetches an entry and authorizes the caller against the entry's parent.
func (s *ConsultationHistoryService) loadOwned(ctx context.Context, caller access.Identity, historyID uuid.UUID) (*db_models.ConsultationHistory, error) {
	entry, err := s.historyRepo.FindById(ctx, historyID)
	if err != nil {
		return nil, utils.DatabaseError("find consultation history", err)
	}
	if entry == nil {
		return nil, utils.NotFound("Consultation history entry not found")
	}
	if _, err := access.AuthorizeViaParent(ctx, caller.ID, entry.ParentID(), s.findParent, historyNoun); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ConsultationHistoryService) Add(ctx context.Context, caller access.Identity, consultationID uuid.UUID, request request_models.ConsultationHistoryRequest) (*db_models.ConsultationHistory, error) {
	if missing := missingFields(
		namedValue{"consultationDate", request.ConsultationDate},
		namedValue{"planetaryPositions", request.PlanetaryPositions},
		namedValue{"prediction", request.Prediction},
		namedValue{"suggestions", request.Suggestions},
	); len(missing) > 0 {
		return nil, utils.Validation("Missing required fields: consultationDate, planetaryPositions, prediction, suggestions")
	}

	date, err := parseDateField("consultationDate", request.ConsultationDate)
	if err != nil {
		return nil, err
	}

	status := request.Status
	if status == "" {
		status = db_models.SessionCompleted
	}
	if !db_models.ValidSessionStatus(status) {
		return nil, utils.Validation("Invalid status: " + status)
	}

	if _, err := access.AuthorizeViaParent(ctx, caller.ID, consultationID, s.findParent, historyNoun); err != nil {
		return nil, err
	}

	consultedBy := caller.ID
	entry := &db_models.ConsultationHistory{
		ConsultationID:     consultationID,
		ConsultationDate:   date,
		PlanetaryPositions: request.PlanetaryPositions,
		Prediction:         request.Prediction,
		Suggestions:        request.Suggestions,
		SessionNotes:       request.SessionNotes,
		Status:             status,
		ConsultedBy:        &consultedBy,
	}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		return nil, utils.DatabaseError("create consultation history", err)
	}

	s.log.WithFields(logrus.Fields{"consultation_id": consultationID, "history_id": entry.ID}).Info("Consultation history added")
	return entry, nil
}

func (s *ConsultationHistoryService) ListForConsultation(ctx context.Context, caller access.Identity, consultationID uuid.UUID, page, limit int) (*response_models.HistoryPage, error) {
	page, limit, err := normalizePage(page, limit)
	if err != nil {
		return nil, err
	}
	if _, err := access.AuthorizeViaParent(ctx, caller.ID, consultationID, s.findParent, historyNoun); err != nil {
		return nil, err
	}
	return s.page(ctx, []uuid.UUID{consultationID}, page, limit)
}

func (s *ConsultationHistoryService) Get(ctx context.Context, caller access.Identity, historyID uuid.UUID) (*db_models.ConsultationHistory, error) {
	return s.loadOwned(ctx, caller, historyID)
}

func (s *ConsultationHistoryService) Update(ctx context.Context, caller access.Identity, historyID uuid.UUID, request request_models.ConsultationHistoryUpdateRequest) (*db_models.ConsultationHistory, error) {
	fields, err := historyUpdateFields(request)
	if err != nil {
		return nil, err
	}

	entry, err := s.loadOwned(ctx, caller, historyID)
	if err != nil {
		return nil, err
	}

	if err := s.historyRepo.Update(ctx, entry, fields); err != nil {
		return nil, utils.DatabaseError("update consultation history", err)
	}
	return entry, nil
}

func (s *ConsultationHistoryService) Delete(ctx context.Context, caller access.Identity, historyID uuid.UUID) error {
	entry, err := s.loadOwned(ctx, caller, historyID)
	if err != nil {
		return err
	}

	deleted, err := s.historyRepo.Delete(ctx, entry.ID)
	if err != nil {
		return utils.DatabaseError("delete consultation history", err)
	}
	if !deleted {
		return utils.NotFound("Consultation history entry not found")
	}
	return nil
}

// ListMine spans every consultation the caller owns, or one of them when ConsultationID is set.
func (s *ConsultationHistoryService) ListMine(ctx context.Context, caller access.Identity, query request_models.HistoryListQuery) (*response_models.HistoryPage, error) {
	page, limit, err := normalizePage(query.Page, query.Limit)
	if err != nil {
		return nil, err
	}

	if query.ConsultationID != "" {
		consultationID, err := uuid.Parse(query.ConsultationID)
		if err != nil {
			return nil, utils.Validation("Invalid consultation id")
		}
		ids, err := s.ownedConsultationIDs(ctx, caller)
		if err != nil {
			return nil, err
		}
		// Someone else's consultation narrows the list to nothing.
		if !slices.Contains(ids, consultationID) {
			return s.page(ctx, nil, page, limit)
		}
		return s.page(ctx, []uuid.UUID{consultationID}, page, limit)
	}

	ids, err := s.ownedConsultationIDs(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, ids, page, limit)
}

func (s *ConsultationHistoryService) ownedConsultationIDs(ctx context.Context, caller access.Identity) ([]uuid.UUID, error) {
	ids, err := s.consultationRepo.ListIDsByOwner(ctx, caller.ID)
	if err != nil {
		return nil, utils.DatabaseError("list owned consultations", err)
	}
	return ids, nil
}

func (s *ConsultationHistoryService) page(ctx context.Context, consultationIDs []uuid.UUID, page, limit int) (*response_models.HistoryPage, error) {
	entries, total, err := s.historyRepo.ListByConsultations(ctx, consultationIDs, page, limit)
	if err != nil {
		return nil, utils.DatabaseError("list consultation history", err)
	}

	refs, err := s.historyRepo.LoadRefs(ctx, entries)
	if err != nil {
		return nil, utils.DatabaseError("load consultation history references", err)
	}
	data := make([]response_models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		var by *db_models.Account
		if e.ConsultedBy != nil {
			by = refs.Accounts[*e.ConsultedBy]
		}
		data = append(data, response_models.NewHistoryEntry(e, refs.Consultations[e.ConsultationID], by))
	}

	return &response_models.HistoryPage{
		Data:       data,
		Pagination: response_models.NewPagination(page, utils.TotalPages(total, limit), total),
	}, nil
}

func historyUpdateFields(r request_models.ConsultationHistoryUpdateRequest) (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	required := []struct {
		column, name string
		value        *string
	}{
		{"planetary_positions", "planetaryPositions", r.PlanetaryPositions},
		{"prediction", "prediction", r.Prediction},
		{"suggestions", "suggestions", r.Suggestions},
	}
	for _, f := range required {
		if f.value == nil {
			continue
		}
		if strings.TrimSpace(*f.value) == "" {
			return nil, utils.Validation(f.name + " cannot be empty")
		}
		fields[f.column] = *f.value
	}

	if r.SessionNotes != nil {
		fields["session_notes"] = *r.SessionNotes
	}
	if r.ConsultationDate != nil {
		date, err := parseDateField("consultationDate", *r.ConsultationDate)
		if err != nil {
			return nil, err
		}
		fields["consultation_date"] = date
	}
	if r.Status != nil {
		if !db_models.ValidSessionStatus(*r.Status) {
			return nil, utils.Validation("Invalid status: " + *r.Status)
		}
		fields["status"] = *r.Status
	}

	if len(fields) == 0 {
		return nil, utils.Validation("Request body is missing or empty")
	}
	return fields, nil
}
