package db_models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionCompleted  = "completed"
	SessionInProgress = "in-progress"
	SessionScheduled  = "scheduled"
)

func ValidSessionStatus(s string) bool {
	switch s {
	case SessionCompleted, SessionInProgress, SessionScheduled:
		return true
	}
	return false
}

// ConsultationHistory is one session logged against a consultation.
// It has no owner of its own: access follows the parent consultation's CreatedBy.
type ConsultationHistory struct {
	BaseModel
	ConsultationID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_history_consultation_date,priority:1" json:"consultationId"`
	ConsultationDate   time.Time  `gorm:"not null;index:idx_history_consultation_date,priority:2,sort:desc" json:"consultationDate"`
	PlanetaryPositions string     `gorm:"type:text;not null" json:"planetaryPositions"`
	Prediction         string     `gorm:"type:text;not null" json:"prediction"`
	Suggestions        string     `gorm:"type:text;not null" json:"suggestions"`
	SessionNotes       string     `gorm:"type:text" json:"sessionNotes"`
	Status             string     `gorm:"not null;default:completed" json:"status"`
	ConsultedBy        *uuid.UUID `gorm:"type:uuid" json:"consultedBy,omitempty"`
}

func (ConsultationHistory) TableName() string {
	return "consultation_histories"
}

func (h *ConsultationHistory) ParentID() uuid.UUID {
	return h.ConsultationID
}
