package db_models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ConsultationPending    = "pending"
	ConsultationInProgress = "in-progress"
	ConsultationCompleted  = "completed"
)

func ValidConsultationStatus(s string) bool {
	switch s {
	case ConsultationPending, ConsultationInProgress, ConsultationCompleted:
		return true
	}
	return false
}

// Consultation is a client reading owned by the account that created it.
// CreatedBy is set once at creation and is never part of an update.
type Consultation struct {
	BaseModel

	Name         string    `gorm:"not null;index" json:"name"`
	DateOfBirth  time.Time `gorm:"not null;index" json:"dateOfBirth"`
	TimeOfBirth  string    `gorm:"not null" json:"timeOfBirth"`
	PlaceOfBirth string    `gorm:"not null" json:"placeOfBirth"`
	Phone        string    `gorm:"not null;index" json:"phone"`
	Email        string    `json:"email,omitempty"`

	FatherName      string `json:"fatherName,omitempty"`
	MotherName      string `json:"motherName,omitempty"`
	GrandfatherName string `json:"grandfatherName,omitempty"`

	Address string `json:"address,omitempty"`
	Pincode string `json:"pincode,omitempty"`

	ConsultationDate time.Time `gorm:"index" json:"consultationDate"`

	PlanetaryPositions string `gorm:"type:text" json:"planetaryPositions,omitempty"`
	Prediction         string `gorm:"type:text" json:"prediction,omitempty"`
	Suggestions        string `gorm:"type:text" json:"suggestions,omitempty"`

	// KundaliFileID is the hex object id of the attached PDF in the binary store; nil means no attachment.
	KundaliFileID  *string `json:"kundaliFileId,omitempty"`
	KundaliPdfName string  `json:"kundaliPdfName,omitempty"`
	KundaliPdfURL  string  `json:"kundaliPdfUrl,omitempty"`

	Categories []Category `gorm:"many2many:consultation_categories;constraint:OnDelete:CASCADE" json:"categories"`
	ClientID   *uuid.UUID `gorm:"type:uuid;index" json:"clientId,omitempty"`

	Status string `gorm:"not null;default:pending;index" json:"status"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"createdBy"`
}

func (c *Consultation) OwnerID() uuid.UUID {
	return c.CreatedBy
}

func (c *Consultation) HasPDF() bool {
	return (c.KundaliFileID != nil && *c.KundaliFileID != "") || c.KundaliPdfURL != ""
}
