package response_models

import (
	"time"

	"astrocrm/internal/models/db_models"
)

type PDFInfo struct {
	HasFile   bool    `json:"hasFile"`
	FileName  string  `json:"fileName,omitempty"`
	FileID    *string `json:"fileId,omitempty"`
	LegacyURL string  `json:"legacyUrl,omitempty"`
}

type ConsultationResponse struct {
	*db_models.Consultation
	HasPDF  bool    `json:"hasPDF"`
	PDFInfo PDFInfo `json:"pdfInfo"`
}

func NewConsultationResponse(c *db_models.Consultation) ConsultationResponse {
	if c.Categories == nil {
		c.Categories = []db_models.Category{}
	}
	return ConsultationResponse{
		Consultation: c,
		HasPDF:       c.HasPDF(),
		PDFInfo: PDFInfo{
			HasFile:   c.HasPDF(),
			FileName:  c.KundaliPdfName,
			FileID:    c.KundaliFileID,
			LegacyURL: c.KundaliPdfURL,
		},
	}
}

func NewConsultationResponses(cs []db_models.Consultation) []ConsultationResponse {
	out := make([]ConsultationResponse, 0, len(cs))
	for i := range cs {
		out = append(out, NewConsultationResponse(&cs[i]))
	}
	return out
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

func NewPagination(page, totalPages int, total int64) Pagination {
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

type ConsultationPage struct {
	Data       []ConsultationResponse `json:"data"`
	Pagination Pagination             `json:"pagination"`
}

type ConsultationRef struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	DateOfBirth time.Time `json:"dateOfBirth"`
}

// HistoryEntry is a session row with summaries of its consultation and the practitioner who logged it.
// Either summary is nil when the referenced record no longer exists.
type HistoryEntry struct {
	db_models.ConsultationHistory
	Consultation    *ConsultationRef `json:"consultation"`
	ConsultedByUser *AccountRef      `json:"consultedByUser"`
}

func NewHistoryEntry(h db_models.ConsultationHistory, consultation *db_models.Consultation, by *db_models.Account) HistoryEntry {
	entry := HistoryEntry{ConsultationHistory: h}
	if consultation != nil {
		entry.Consultation = &ConsultationRef{
			ID:          consultation.ID.String(),
			Name:        consultation.Name,
			Phone:       consultation.Phone,
			DateOfBirth: consultation.DateOfBirth,
		}
	}
	if by != nil {
		entry.ConsultedByUser = &AccountRef{ID: by.ID.String(), Name: by.Name, Email: by.Email}
	}
	return entry
}

type HistoryPage struct {
	Data       []HistoryEntry `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

type ClientDetail struct {
	Client        *db_models.Client       `json:"client"`
	Consultations []ConsultationResponse `json:"consultations"`
}

// AttachmentCleanup reports what happened to a deleted resource's binary object.
type AttachmentCleanup string

const (
	CleanupOK      AttachmentCleanup = "ok"
	CleanupFailed  AttachmentCleanup = "failed"
	CleanupSkipped AttachmentCleanup = "skipped"
)

type DeleteResult struct {
	PrimaryDeleted    bool              `json:"primaryDeleted"`
	AttachmentCleanup AttachmentCleanup `json:"attachmentCleanup"`
}
