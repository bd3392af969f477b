package db_models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const DefaultRejectionReason = "No reason provided"

// Account is a registered practitioner or administrator.
// IsApproved and Status are separate persisted flags; ApplyDecision is the only writer of both.
type Account struct {
	BaseModel
	Name            string     `gorm:"not null" json:"name"`
	Email           string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"not null" json:"-"`
	Role            string     `gorm:"not null;default:user;index" json:"role"`
	IsApproved      bool       `gorm:"not null;default:false" json:"isApproved"`
	Status          string     `gorm:"not null;default:pending;index" json:"status"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid" json:"approvedBy"`
	ApprovedAt      *time.Time `json:"approvedAt"`
	RejectionReason *string    `json:"rejectionReason"`

	Approver *Account `gorm:"foreignKey:ApprovedBy;constraint:OnDelete:SET NULL" json:"-"`
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ApprovalDecision is the set of fields an admin decision writes.
type ApprovalDecision struct {
	IsApproved      bool
	Status          string
	ApprovedBy      uuid.UUID
	ApprovedAt      time.Time
	RejectionReason *string
}

// ApproveDecision builds the approve outcome: rejectionReason is always cleared.
func ApproveDecision(adminID uuid.UUID, at time.Time) ApprovalDecision {
	return ApprovalDecision{
		IsApproved: true,
		Status:     StatusApproved,
		ApprovedBy: adminID,
		ApprovedAt: at,
	}
}

// RejectDecision builds the reject outcome: isApproved is always false.
func RejectDecision(adminID uuid.UUID, at time.Time, reason string) ApprovalDecision {
	if reason == "" {
		reason = DefaultRejectionReason
	}
	return ApprovalDecision{
		IsApproved:      false,
		Status:          StatusRejected,
		ApprovedBy:      adminID,
		ApprovedAt:      at,
		RejectionReason: &reason,
	}
}

// ApplyDecision writes a decision onto the account in memory.
func (a *Account) ApplyDecision(d ApprovalDecision) {
	approvedBy := d.ApprovedBy
	approvedAt := d.ApprovedAt
	a.IsApproved = d.IsApproved
	a.Status = d.Status
	a.ApprovedBy = &approvedBy
	a.ApprovedAt = &approvedAt
	a.RejectionReason = d.RejectionReason
}

// Columns is the partial update applied by the repository.
func (d ApprovalDecision) Columns() map[string]interface{} {
	return map[string]interface{}{
		"is_approved":      d.IsApproved,
		"status":           d.Status,
		"approved_by":      d.ApprovedBy,
		"approved_at":      d.ApprovedAt,
		"rejection_reason": d.RejectionReason,
	}
}
