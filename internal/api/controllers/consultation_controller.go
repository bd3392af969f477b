package controllers

import (
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"astrocrm/internal/models/request_models"
	"astrocrm/internal/services"
	"astrocrm/pkg/utils"
)

const (
	pdfFormField  = "kundaliPdf"
	dataFormField = "consultationData"
)

type ConsultationController struct {
	consultationService services.ConsultationServiceInterface
	log                 *logrus.Logger
}

func NewConsultationController(consultationService services.ConsultationServiceInterface, log *logrus.Logger) *ConsultationController {
	return &ConsultationController{consultationService: consultationService, log: log}
}

// bindConsultation reads either a plain JSON body or a multipart form carrying the
// JSON in consultationData and an optional PDF in kundaliPdf. The returned closer
// must be called once the upload has been consumed.
func bindConsultation(c *gin.Context, dst interface{}) (*services.PDFUpload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBindJSON(dst); err != nil {
			return nil, noop, err
		}
		return nil, noop, nil
	}

	if raw := c.PostForm(dataFormField); raw != "" {
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return nil, noop, err
		}
	}

	header, err := c.FormFile(pdfFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	return openUpload(header)
}

func openUpload(header *multipart.FileHeader) (*services.PDFUpload, func(), error) {
	f, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &services.PDFUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

// Create godoc
// @Summary Create a consultation
// @Description Accepts JSON, or multipart/form-data with consultationData (JSON) and an optional kundaliPdf file
// @Tags Consultations
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body request_models.ConsultationRequest false "Consultation payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/consultations [post]
func (cc *ConsultationController) Create(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	var req request_models.ConsultationRequest
	pdf, closeUpload, err := bindConsultation(c, &req)
	defer closeUpload()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := cc.consultationService.Create(c.Request.Context(), identity, req, pdf)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, resp, "Consultation created successfully")
}

// List godoc
// @Summary List the caller's consultations
// @Tags Consultations
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category ID"
// @Param dob query string false "Date of birth (same calendar day)"
// @Param name query string false "Name contains"
// @Param search query string false "Free-text search"
// @Param status query string false "Status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sortBy query string false "createdAt, updatedAt, name, consultationDate or dateOfBirth"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} utils.APIResponse
// @Router /api/consultations [get]
func (cc *ConsultationController) List(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	var query request_models.ConsultationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := cc.consultationService.List(c.Request.Context(), identity, query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "")
}

// ListMine godoc
// @Summary All of the caller's consultations, newest first
// @Tags Consultations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /api/consultations/my [get]
func (cc *ConsultationController) ListMine(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	resp, err := cc.consultationService.ListByUser(c.Request.Context(), identity, identity.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// ListByUser godoc
// @Summary Consultations of one user; only the caller's own id is allowed
// @Tags Consultations
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Account ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /api/consultations/user/{userId} [get]
func (cc *ConsultationController) ListByUser(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "userId", "Invalid user id")
	if !ok {
		return
	}

	resp, err := cc.consultationService.ListByUser(c.Request.Context(), identity, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// Get godoc
// @Summary Consultation details
// @Tags Consultations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Consultation ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/consultations/details/{id} [get]
func (cc *ConsultationController) Get(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "Invalid consultation id")
	if !ok {
		return
	}

	resp, err := cc.consultationService.Get(c.Request.Context(), identity, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// Update godoc
// @Summary Update a consultation
// @Description Only fields present in the payload change. A new kundaliPdf replaces the old file.
// @Tags Consultations
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Consultation ID"
// @Param request body request_models.ConsultationUpdateRequest false "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/consultations/{id} [put]
func (cc *ConsultationController) Update(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "Invalid consultation id")
	if !ok {
		return
	}

	var req request_models.ConsultationUpdateRequest
	pdf, closeUpload, err := bindConsultation(c, &req)
	defer closeUpload()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := cc.consultationService.Update(c.Request.Context(), identity, id, req, pdf)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Consultation updated successfully")
}

// Delete godoc
// @Summary Delete a consultation and its PDF
// @Description The response reports whether the record was removed and how PDF cleanup went
// @Tags Consultations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Consultation ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/consultations/{id} [delete]
func (cc *ConsultationController) Delete(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "Invalid consultation id")
	if !ok {
		return
	}

	result, err := cc.consultationService.Delete(c.Request.Context(), identity, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Consultation deleted successfully")
}

// DownloadPDF godoc
// @Summary Download the consultation PDF
// @Tags Consultations
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Consultation ID"
// @Success 200 {file} file
// @Failure 404 {object} utils.APIResponse
// @Router /api/consultations/{id}/pdf [get]
func (cc *ConsultationController) DownloadPDF(c *gin.Context) {
	cc.streamPDF(c, "attachment")
}

// ViewPDF godoc
// @Summary Show the consultation PDF inline
// @Tags Consultations
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Consultation ID"
// @Success 200 {file} file
// @Failure 404 {object} utils.APIResponse
// @Router /api/consultations/{id}/pdf/view [get]
func (cc *ConsultationController) ViewPDF(c *gin.Context) {
	cc.streamPDF(c, "inline")
}

func (cc *ConsultationController) streamPDF(c *gin.Context, disposition string) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "Invalid consultation id")
	if !ok {
		return
	}

	body, file, err := cc.consultationService.OpenPDF(c.Request.Context(), identity, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, file.Length, "application/pdf", body, map[string]string{
		"Content-Disposition": mime.FormatMediaType(disposition, map[string]string{"filename": file.Name}),
	})
	if err := c.Errors.Last(); err != nil {
		cc.log.WithError(err.Err).WithField("consultation_id", id).Warn("PDF stream interrupted")
	}
}
