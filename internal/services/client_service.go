package services

import (
	"context"
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

const clientNoun = "clients"

type ClientServiceInterface interface {
	Create(ctx context.Context, caller access.Identity, request request_models.ClientRequest) (*db_models.Client, error)
	List(ctx context.Context, caller access.Identity, query request_models.ClientListQuery) ([]db_models.Client, error)
	Get(ctx context.Context, caller access.Identity, id uuid.UUID) (*response_models.ClientDetail, error)
	Update(ctx context.Context, caller access.Identity, id uuid.UUID, request request_models.ClientRequest) (*db_models.Client, error)
	Delete(ctx context.Context, caller access.Identity, id uuid.UUID) error
}

type ClientService struct {
	clientRepo       repositories.ClientRepository
	consultationRepo repositories.ConsultationRepository
	log              *logrus.Logger
}

func NewClientService(clientRepo repositories.ClientRepository, consultationRepo repositories.ConsultationRepository, log *logrus.Logger) ClientServiceInterface {
	return &ClientService{
		clientRepo:       clientRepo,
		consultationRepo: consultationRepo,
		log:              log,
	}
}

func (s *ClientService) loadOwned(ctx context.Context, caller access.Identity, id uuid.UUID) (*db_models.Client, error) {
	client, err := s.clientRepo.FindById(ctx, id)
	if err != nil {
		return nil, utils.DatabaseError("find client", err)
	}
	if client == nil {
		return nil, utils.NotFound("Client not found")
	}
	if err := access.AuthorizeDirect(caller.ID, client, clientNoun); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Create(ctx context.Context, caller access.Identity, request request_models.ClientRequest) (*db_models.Client, error) {
	if missing := missingFields(
		namedValue{"name", request.Name},
		namedValue{"dob", request.DOB},
		namedValue{"birthTime", request.BirthTime},
		namedValue{"birthPlace", request.BirthPlace},
		namedValue{"phone", request.Phone},
	); len(missing) > 0 {
		return nil, utils.Validation("Missing required fields: " + strings.Join(missing, ", "))
	}

	dob, err := parseDateField("dob", request.DOB)
	if err != nil {
		return nil, err
	}

	client := &db_models.Client{
		Name:            request.Name,
		DOB:             dob,
		BirthTime:       request.BirthTime,
		BirthPlace:      request.BirthPlace,
		Phone:           request.Phone,
		Email:           request.Email,
		FatherName:      request.FatherName,
		MotherName:      request.MotherName,
		GrandfatherName: request.GrandfatherName,
		Address:         request.Address,
		Pincode:         request.Pincode,
		CreatedBy:       caller.ID,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, utils.DatabaseError("create client", err)
	}
	return client, nil
}

func (s *ClientService) List(ctx context.Context, caller access.Identity, query request_models.ClientListQuery) ([]db_models.Client, error) {
	filter := repositories.ClientFilter{Search: query.Search}
	if query.DOB != "" {
		dob, err := parseDateField("dob", query.DOB)
		if err != nil {
			return nil, err
		}
		filter.DOB = &dob
	}

	clients, err := s.clientRepo.List(ctx, access.ScopeListQuery(caller.ID, filter))
	if err != nil {
		return nil, utils.DatabaseError("list clients", err)
	}
	if clients == nil {
		clients = []db_models.Client{}
	}
	return clients, nil
}

// Get returns the client with the caller's consultations linked to it.
func (s *ClientService) Get(ctx context.Context, caller access.Identity, id uuid.UUID) (*response_models.ClientDetail, error) {
	client, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	consultations, _, err := s.consultationRepo.List(ctx, access.ScopeListQuery(caller.ID, repositories.ConsultationFilter{
		ClientID: &client.ID,
		SortDesc: true,
	}))
	if err != nil {
		return nil, utils.DatabaseError("list client consultations", err)
	}

	return &response_models.ClientDetail{
		Client:        client,
		Consultations: response_models.NewConsultationResponses(consultations),
	}, nil
}

func (s *ClientService) Update(ctx context.Context, caller access.Identity, id uuid.UUID, request request_models.ClientRequest) (*db_models.Client, error) {
	client, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"email":            request.Email,
		"father_name":      request.FatherName,
		"mother_name":      request.MotherName,
		"grandfather_name": request.GrandfatherName,
		"address":          request.Address,
		"pincode":          request.Pincode,
	}
	for column, v := range map[string]string{
		"name":        request.Name,
		"birth_time":  request.BirthTime,
		"birth_place": request.BirthPlace,
		"phone":       request.Phone,
	} {
		if strings.TrimSpace(v) != "" {
			fields[column] = v
		}
	}
	if request.DOB != "" {
		dob, err := parseDateField("dob", request.DOB)
		if err != nil {
			return nil, err
		}
		fields["dob"] = dob
	}

	if err := s.clientRepo.Update(ctx, client, fields); err != nil {
		return nil, utils.DatabaseError("update client", err)
	}
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, caller access.Identity, id uuid.UUID) error {
	client, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return err
	}

	deleted, err := s.clientRepo.Delete(ctx, client.ID)
	if err != nil {
		return utils.DatabaseError("delete client", err)
	}
	if !deleted {
		return utils.NotFound("Client not found")
	}
	s.log.WithFields(logrus.Fields{"client_id": client.ID, "user_id": caller.ID}).Info("Client deleted")
	return nil
}
