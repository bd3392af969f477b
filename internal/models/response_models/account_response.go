package response_models

import (
	"time"

	"astrocrm/internal/models/db_models"
)

type AccountRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AccountResponse struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Role            string      `json:"role"`
	IsApproved      bool        `json:"isApproved"`
	Status          string      `json:"status"`
	ApprovedBy      *AccountRef `json:"approvedBy"`
	ApprovedAt      *time.Time  `json:"approvedAt"`
	RejectionReason *string     `json:"rejectionReason"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// NewAccountResponse never carries the credential hash.
func NewAccountResponse(a *db_models.Account) AccountResponse {
	resp := AccountResponse{
		ID:              a.ID.String(),
		Name:            a.Name,
		Email:           a.Email,
		Role:            a.Role,
		IsApproved:      a.IsApproved,
		Status:          a.Status,
		ApprovedAt:      a.ApprovedAt,
		RejectionReason: a.RejectionReason,
		CreatedAt:       a.CreatedAt,
	}
	if a.Approver != nil {
		resp.ApprovedBy = &AccountRef{ID: a.Approver.ID.String(), Name: a.Approver.Name, Email: a.Approver.Email}
	} else if a.ApprovedBy != nil {
		resp.ApprovedBy = &AccountRef{ID: a.ApprovedBy.String()}
	}
	return resp
}

func NewAccountResponses(accounts []db_models.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, NewAccountResponse(&accounts[i]))
	}
	return out
}

type RegisterResponse struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

type AccountLoginResponse struct {
	Token string          `json:"token"`
	User  AccountResponse `json:"user"`
}

type AccountListResponse struct {
	Users      []AccountResponse `json:"users"`
	Pagination AccountPagination `json:"pagination"`
}

type AccountPagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type GroupCount struct {
	Key   string `json:"_id"`
	Count int64  `json:"count"`
}

type AccountStats struct {
	Total    int64        `json:"total"`
	ByStatus []GroupCount `json:"byStatus"`
	ByRole   []GroupCount `json:"byRole"`
}
