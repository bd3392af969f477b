package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"astrocrm/internal/access"
	"astrocrm/internal/config"
	"astrocrm/internal/models/db_models"
	"astrocrm/internal/models/request_models"
	"astrocrm/internal/models/response_models"
	"astrocrm/internal/repositories"
	"astrocrm/internal/storage"
	"astrocrm/pkg/utils"
)

const (
	pdfContentType     = "application/pdf"
	defaultPDFFileName = "kundali.pdf"
	consultationNoun   = "consultations"
)

// PDFUpload is an attachment received with a create or update request.
type PDFUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type PDFFile struct {
	Name   string
	Length int64
}

// CleanupRecorder observes attachment cleanup results.
type CleanupRecorder interface {
	AttachmentCleanup(result string)
}

type noopRecorder struct{}

func (noopRecorder) AttachmentCleanup(string) {}

type ConsultationServiceInterface interface {
	Create(ctx context.Context, caller access.Identity, request request_models.ConsultationRequest, pdf *PDFUpload) (*response_models.ConsultationResponse, error)
	Get(ctx context.Context, caller access.Identity, id uuid.UUID) (*response_models.ConsultationResponse, error)
	Update(ctx context.Context, caller access.Identity, id uuid.UUID, request request_models.ConsultationUpdateRequest, pdf *PDFUpload) (*response_models.ConsultationResponse, error)
	Delete(ctx context.Context, caller access.Identity, id uuid.UUID) (*response_models.DeleteResult, error)
	List(ctx context.Context, caller access.Identity, query request_models.ConsultationListQuery) (*response_models.ConsultationPage, error)
	ListByUser(ctx context.Context, caller access.Identity, userID uuid.UUID) ([]response_models.ConsultationResponse, error)
	OpenPDF(ctx context.Context, caller access.Identity, id uuid.UUID) (io.ReadCloser, *PDFFile, error)
}

type ConsultationService struct {
	consultationRepo repositories.ConsultationRepository
	categoryRepo     repositories.CategoryRepository
	clientRepo       repositories.ClientRepository
	blobs            storage.BlobStore
	cleanups         CleanupRecorder
	maxPDFBytes      int64
	log              *logrus.Logger
	now              func() time.Time
}

func NewConsultationService(
	consultationRepo repositories.ConsultationRepository,
	categoryRepo repositories.CategoryRepository,
	clientRepo repositories.ClientRepository,
	blobs storage.BlobStore,
	cleanups CleanupRecorder,
	uploadCfg config.UploadConfig,
	log *logrus.Logger,
) ConsultationServiceInterface {
	if cleanups == nil {
		cleanups = noopRecorder{}
	}
	return &ConsultationService{
		consultationRepo: consultationRepo,
		categoryRepo:     categoryRepo,
		clientRepo:       clientRepo,
		blobs:            blobs,
		cleanups:         cleanups,
		maxPDFBytes:      uploadCfg.MaxPDFBytes,
		log:              log,
		now:              time.Now,
	}
}

// loadOwned fetches a consultation and applies the ownership check.
func (s *ConsultationService) loadOwned(ctx context.Context, caller access.Identity, id uuid.UUID) (*db_models.Consultation, error) {
	consultation, err := s.consultationRepo.FindById(ctx, id)
	if err != nil {
		return nil, utils.DatabaseError("find consultation", err)
	}
	if consultation == nil {
		return nil, utils.NotFound("Consultation not found")
	}
	if err := access.AuthorizeDirect(caller.ID, consultation, consultationNoun); err != nil {
		return nil, err
	}
	return consultation, nil
}

func (s *ConsultationService) Create(ctx context.Context, caller access.Identity, request request_models.ConsultationRequest, pdf *PDFUpload) (*response_models.ConsultationResponse, error) {
	if missing := missingFields(
		namedValue{"name", request.Name},
		namedValue{"dateOfBirth", request.DateOfBirth},
		namedValue{"timeOfBirth", request.TimeOfBirth},
		namedValue{"placeOfBirth", request.PlaceOfBirth},
		namedValue{"phone", request.Phone},
	); len(missing) > 0 {
		return nil, utils.Validation("Missing required fields: " + strings.Join(missing, ", "))
	}

	dob, err := parseDateField("dateOfBirth", request.DateOfBirth)
	if err != nil {
		return nil, err
	}
	consultationDate := s.now().UTC()
	if request.ConsultationDate != "" {
		if consultationDate, err = parseDateField("consultationDate", request.ConsultationDate); err != nil {
			return nil, err
		}
	}

	status := request.Status
	if status == "" {
		status = db_models.ConsultationPending
	}
	if !db_models.ValidConsultationStatus(status) {
		return nil, utils.Validation("Invalid status: " + status)
	}

	categories, err := s.resolveCategories(ctx, request.Categories)
	if err != nil {
		return nil, err
	}
	clientID, err := s.resolveClient(ctx, caller, request.ClientID)
	if err != nil {
		return nil, err
	}

	consultation := &db_models.Consultation{
		BaseModel:          db_models.BaseModel{ID: uuid.New()},
		Name:               request.Name,
		DateOfBirth:        dob,
		TimeOfBirth:        request.TimeOfBirth,
		PlaceOfBirth:       request.PlaceOfBirth,
		Phone:              request.Phone,
		Email:              request.Email,
		FatherName:         request.FatherName,
		MotherName:         request.MotherName,
		GrandfatherName:    request.GrandfatherName,
		Address:            request.Address,
		Pincode:            request.Pincode,
		ConsultationDate:   consultationDate,
		PlanetaryPositions: request.PlanetaryPositions,
		Prediction:         request.Prediction,
		Suggestions:        request.Suggestions,
		KundaliPdfURL:      request.KundaliPdfURL,
		Categories:         categories,
		ClientID:           clientID,
		Status:             status,
		CreatedBy:          caller.ID,
	}

	var fileID string
	if pdf != nil {
		if fileID, err = s.uploadPDF(ctx, caller, pdf, nil); err != nil {
			return nil, err
		}
		consultation.KundaliFileID = &fileID
		consultation.KundaliPdfName = pdf.Filename
	}

	if err := s.consultationRepo.Create(ctx, consultation); err != nil {
		if fileID != "" {
			s.discardBlob(ctx, fileID, "discard upload after failed create")
		}
		return nil, utils.DatabaseError("create consultation", err)
	}

	if fileID != "" {
		if err := s.blobs.Link(ctx, fileID, consultation.ID.String()); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"consultation_id": consultation.ID,
				"file_id":         fileID,
			}).Warn("Could not link PDF metadata to consultation")
		}
	}

	created, err := s.consultationRepo.FindById(ctx, consultation.ID)
	if err != nil {
		return nil, utils.DatabaseError("reload consultation", err)
	}
	if created == nil {
		return nil, utils.NotFound("Consultation not found")
	}
	resp := response_models.NewConsultationResponse(created)
	return &resp, nil
}

func (s *ConsultationService) Get(ctx context.Context, caller access.Identity, id uuid.UUID) (*response_models.ConsultationResponse, error) {
	consultation, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	resp := response_models.NewConsultationResponse(consultation)
	return &resp, nil
}

// Update changes only the fields present in the request. A new PDF replaces the old one,
// which is then removed best-effort.
func (s *ConsultationService) Update(ctx context.Context, caller access.Identity, id uuid.UUID, request request_models.ConsultationUpdateRequest, pdf *PDFUpload) (*response_models.ConsultationResponse, error) {
	consultation, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	fields, err := consultationUpdateFields(request)
	if err != nil {
		return nil, err
	}

	if request.ClientID != nil {
		clientID, err := s.resolveClient(ctx, caller, *request.ClientID)
		if err != nil {
			return nil, err
		}
		fields["client_id"] = clientID
	}

	var categories *[]db_models.Category
	if request.Categories != nil {
		resolved, err := s.resolveCategories(ctx, *request.Categories)
		if err != nil {
			return nil, err
		}
		categories = &resolved
	}

	var oldFileID, newFileID string
	if pdf != nil {
		linkTo := consultation.ID.String()
		if newFileID, err = s.uploadPDF(ctx, caller, pdf, &linkTo); err != nil {
			return nil, err
		}
		if consultation.KundaliFileID != nil {
			oldFileID = *consultation.KundaliFileID
		}
		fields["kundali_file_id"] = newFileID
		fields["kundali_pdf_name"] = pdf.Filename
	}

	if len(fields) == 0 && categories == nil {
		resp := response_models.NewConsultationResponse(consultation)
		return &resp, nil
	}

	if err := s.consultationRepo.Update(ctx, consultation, fields, categories); err != nil {
		if newFileID != "" {
			s.discardBlob(ctx, newFileID, "discard upload after failed update")
		}
		return nil, utils.DatabaseError("update consultation", err)
	}

	if oldFileID != "" {
		s.cleanupAttachment(ctx, consultation.ID, oldFileID)
	}

	resp := response_models.NewConsultationResponse(consultation)
	return &resp, nil
}

// Delete removes the record first. Attachment cleanup runs afterwards and never fails the delete.
func (s *ConsultationService) Delete(ctx context.Context, caller access.Identity, id uuid.UUID) (*response_models.DeleteResult, error) {
	consultation, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	deleted, err := s.consultationRepo.Delete(ctx, consultation.ID)
	if err != nil {
		return nil, utils.DatabaseError("delete consultation", err)
	}
	if !deleted {
		return nil, utils.NotFound("Consultation not found")
	}

	result := &response_models.DeleteResult{PrimaryDeleted: true, AttachmentCleanup: response_models.CleanupSkipped}
	if consultation.KundaliFileID != nil && *consultation.KundaliFileID != "" {
		result.AttachmentCleanup = s.cleanupAttachment(ctx, consultation.ID, *consultation.KundaliFileID)
	} else {
		s.cleanups.AttachmentCleanup(string(response_models.CleanupSkipped))
	}
	return result, nil
}

func (s *ConsultationService) List(ctx context.Context, caller access.Identity, query request_models.ConsultationListQuery) (*response_models.ConsultationPage, error) {
	page, limit, err := normalizePage(query.Page, query.Limit)
	if err != nil {
		return nil, err
	}

	filter := repositories.ConsultationFilter{
		Name:     query.Name,
		Search:   query.Search,
		Status:   query.Status,
		SortBy:   query.SortBy,
		SortDesc: !strings.EqualFold(query.SortOrder, "asc"),
		Page:     page,
		Limit:    limit,
	}
	if query.Category != "" {
		categoryID, err := uuid.Parse(query.Category)
		if err != nil {
			return nil, utils.Validation("Invalid category id")
		}
		filter.CategoryID = &categoryID
	}
	if query.DOB != "" {
		dob, err := parseDateField("dob", query.DOB)
		if err != nil {
			return nil, err
		}
		filter.DOB = &dob
	}

	consultations, total, err := s.consultationRepo.List(ctx, access.ScopeListQuery(caller.ID, filter))
	if err != nil {
		return nil, utils.DatabaseError("list consultations", err)
	}

	return &response_models.ConsultationPage{
		Data:       response_models.NewConsultationResponses(consultations),
		Pagination: response_models.NewPagination(page, utils.TotalPages(total, limit), total),
	}, nil
}

func (s *ConsultationService) ListByUser(ctx context.Context, caller access.Identity, userID uuid.UUID) ([]response_models.ConsultationResponse, error) {
	if userID != caller.ID {
		return nil, utils.Forbidden("Access denied. You can only view your own consultations.")
	}

	consultations, _, err := s.consultationRepo.List(ctx, access.ScopeListQuery(caller.ID, repositories.ConsultationFilter{SortDesc: true}))
	if err != nil {
		return nil, utils.DatabaseError("list consultations", err)
	}
	return response_models.NewConsultationResponses(consultations), nil
}

func (s *ConsultationService) OpenPDF(ctx context.Context, caller access.Identity, id uuid.UUID) (io.ReadCloser, *PDFFile, error) {
	consultation, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, nil, err
	}
	if consultation.KundaliFileID == nil || *consultation.KundaliFileID == "" {
		return nil, nil, utils.NotFound("PDF not found")
	}

	body, info, err := s.blobs.Open(ctx, *consultation.KundaliFileID)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) || errors.Is(err, storage.ErrInvalidBlobID) {
			return nil, nil, utils.NotFound("PDF file not found")
		}
		return nil, nil, fmt.Errorf("open pdf: %w: %v", utils.ErrAttachmentStore, err)
	}

	name := consultation.KundaliPdfName
	if name == "" {
		name = defaultPDFFileName
	}
	return body, &PDFFile{Name: name, Length: info.Length}, nil
}

func (s *ConsultationService) uploadPDF(ctx context.Context, caller access.Identity, pdf *PDFUpload, consultationID *string) (string, error) {
	if pdf.ContentType != pdfContentType {
		return "", utils.Validation("Only PDF files are allowed.")
	}
	if pdf.Size > s.maxPDFBytes {
		return "", utils.Validation(fmt.Sprintf("File too large. Maximum size is %dMB.", s.maxPDFBytes/(1024*1024)))
	}
	if pdf.Filename == "" {
		pdf.Filename = defaultPDFFileName
	}

	fileID, err := s.blobs.Upload(ctx, pdf.Filename, pdf.Body, storage.Metadata{
		ConsultationID: consultationID,
		UploadedBy:     caller.ID.String(),
		OriginalName:   pdf.Filename,
		ContentType:    pdf.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload pdf: %w: %v", utils.ErrAttachmentStore, err)
	}
	return fileID, nil
}

// cleanupAttachment deletes a blob that no record points at any more. A blob that is
// already gone counts as cleaned up.
func (s *ConsultationService) cleanupAttachment(ctx context.Context, consultationID uuid.UUID, fileID string) response_models.AttachmentCleanup {
	result := response_models.CleanupOK
	if err := s.blobs.Delete(ctx, fileID); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
		result = response_models.CleanupFailed
		s.log.WithError(err).WithFields(logrus.Fields{
			"consultation_id": consultationID,
			"file_id":         fileID,
		}).Warn("PDF cleanup failed, blob left orphaned")
	}
	s.cleanups.AttachmentCleanup(string(result))
	return result
}

func (s *ConsultationService) discardBlob(ctx context.Context, fileID, reason string) {
	if err := s.blobs.Delete(ctx, fileID); err != nil {
		s.log.WithError(err).WithField("file_id", fileID).Warn(reason)
	}
}

func (s *ConsultationService) resolveCategories(ctx context.Context, raw []string) ([]db_models.Category, error) {
	if len(raw) == 0 {
		return []db_models.Category{}, nil
	}

	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]struct{}, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, utils.Validation("Invalid category id: " + r)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	categories, err := s.categoryRepo.FindByIds(ctx, ids)
	if err != nil {
		return nil, utils.DatabaseError("find categories", err)
	}
	if len(categories) != len(ids) {
		return nil, utils.Validation("One or more categories do not exist")
	}
	return categories, nil
}

// resolveClient accepts an empty id as "no client". A given client must belong to the caller.
func (s *ConsultationService) resolveClient(ctx context.Context, caller access.Identity, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, utils.Validation("Invalid client id")
	}

	client, err := s.clientRepo.FindById(ctx, id)
	if err != nil {
		return nil, utils.DatabaseError("find client", err)
	}
	if client == nil {
		return nil, utils.NotFound("Client not found")
	}
	if err := access.AuthorizeDirect(caller.ID, client, "clients"); err != nil {
		return nil, err
	}
	return &id, nil
}

func consultationUpdateFields(r request_models.ConsultationUpdateRequest) (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	required := []struct {
		column, name string
		value        *string
	}{
		{"name", "name", r.Name},
		{"time_of_birth", "timeOfBirth", r.TimeOfBirth},
		{"place_of_birth", "placeOfBirth", r.PlaceOfBirth},
		{"phone", "phone", r.Phone},
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

	optional := map[string]*string{
		"email":               r.Email,
		"father_name":         r.FatherName,
		"mother_name":         r.MotherName,
		"grandfather_name":    r.GrandfatherName,
		"address":             r.Address,
		"pincode":             r.Pincode,
		"planetary_positions": r.PlanetaryPositions,
		"prediction":          r.Prediction,
		"suggestions":         r.Suggestions,
	}
	for column, v := range optional {
		if v != nil {
			fields[column] = *v
		}
	}

	if r.DateOfBirth != nil {
		dob, err := parseDateField("dateOfBirth", *r.DateOfBirth)
		if err != nil {
			return nil, err
		}
		fields["date_of_birth"] = dob
	}
	if r.ConsultationDate != nil {
		date, err := parseDateField("consultationDate", *r.ConsultationDate)
		if err != nil {
			return nil, err
		}
		fields["consultation_date"] = date
	}
	if r.Status != nil {
		if !db_models.ValidConsultationStatus(*r.Status) {
			return nil, utils.Validation("Invalid status: " + *r.Status)
		}
		fields["status"] = *r.Status
	}
	return fields, nil
}

func parseDateField(name, value string) (time.Time, error) {
	t, err := utils.ParseDate(value)
	if err != nil {
		return time.Time{}, utils.Validation(fmt.Sprintf("Invalid %s: %q", name, value))
	}
	return t, nil
}

type namedValue struct {
	name, value string
}

// missingFields returns the names of blank values, in argument order.
func missingFields(values ...namedValue) []string {
	var missing []string
	for _, v := range values {
		if strings.TrimSpace(v.value) == "" {
			missing = append(missing, v.name)
		}
	}
	return missing
}
