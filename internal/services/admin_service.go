package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"astrocrm/internal/access"
	"astrocrm/internal/models/db_models"
	"astrocrm/internal/models/request_models"
	"astrocrm/internal/models/response_models"
	"astrocrm/internal/repositories"
	"astrocrm/pkg/utils"
)

type AdminServiceInterface interface {
	Approve(ctx context.Context, admin access.Identity, target uuid.UUID) (*response_models.AccountResponse, error)
	Reject(ctx context.Context, admin access.Identity, target uuid.UUID, reason string) (*response_models.AccountResponse, error)
	DeleteAccount(ctx context.Context, admin access.Identity, target uuid.UUID) error
	ListAccounts(ctx context.Context, request request_models.ListAccountsRequest) (*response_models.AccountListResponse, error)
	PendingAccounts(ctx context.Context) ([]response_models.AccountResponse, error)
	Stats(ctx context.Context) (*response_models.AccountStats, error)
}

type AdminService struct {
	accountRepo repositories.AccountRepository
	notifier    AccountNotifier
	log         *logrus.Logger
	now         func() time.Time
}

func NewAdminService(accountRepo repositories.AccountRepository, notifier AccountNotifier, log *logrus.Logger) AdminServiceInterface {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &AdminService{
		accountRepo: accountRepo,
		notifier:    notifier,
		log:         log,
		now:         time.Now,
	}
}

func requireAdmin(admin access.Identity) error {
	if !admin.IsAdmin() {
		return utils.Forbidden("Forbidden: Access denied")
	}
	return nil
}

// Approve is idempotent apart from approvedAt and approvedBy, which are restamped.
func (s *AdminService) Approve(ctx context.Context, admin access.Identity, target uuid.UUID) (*response_models.AccountResponse, error) {
	return s.decide(ctx, admin, target, db_models.ApproveDecision(admin.ID, s.now()))
}

// Reject falls back to a generic reason when none is given.
func (s *AdminService) Reject(ctx context.Context, admin access.Identity, target uuid.UUID, reason string) (*response_models.AccountResponse, error) {
	return s.decide(ctx, admin, target, db_models.RejectDecision(admin.ID, s.now(), reason))
}

func (s *AdminService) decide(ctx context.Context, admin access.Identity, target uuid.UUID, decision db_models.ApprovalDecision) (*response_models.AccountResponse, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.ApplyDecision(ctx, target, decision)
	if err != nil {
		return nil, utils.DatabaseError("apply account decision", err)
	}
	if account == nil {
		return nil, utils.NotFound("User not found")
	}

	entry := s.log.WithFields(logrus.Fields{"user_id": account.ID, "admin_id": admin.ID, "status": account.Status})
	entry.Info("Account decision applied")

	if err := s.notifier.NotifyDecision(ctx, account); err != nil {
		entry.WithError(err).Warn("Account decision e-mail failed")
	}

	resp := response_models.NewAccountResponse(account)
	return &resp, nil
}

func (s *AdminService) DeleteAccount(ctx context.Context, admin access.Identity, target uuid.UUID) error {
	if err := requireAdmin(admin); err != nil {
		return err
	}
	if admin.ID == target {
		return utils.Validation("Cannot delete your own account")
	}

	deleted, err := s.accountRepo.Delete(ctx, target)
	if err != nil {
		return utils.DatabaseError("delete account", err)
	}
	if !deleted {
		return utils.NotFound("User not found")
	}

	s.log.WithFields(logrus.Fields{"user_id": target, "admin_id": admin.ID}).Info("Account deleted")
	return nil
}

func (s *AdminService) ListAccounts(ctx context.Context, request request_models.ListAccountsRequest) (*response_models.AccountListResponse, error) {
	page, limit, err := normalizePage(request.Page, request.Limit)
	if err != nil {
		return nil, err
	}

	accounts, total, err := s.accountRepo.List(ctx, repositories.AccountFilter{
		Status: request.Status,
		Role:   request.Role,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, utils.DatabaseError("list accounts", err)
	}

	return &response_models.AccountListResponse{
		Users: response_models.NewAccountResponses(accounts),
		Pagination: response_models.AccountPagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: utils.TotalPages(total, limit),
		},
	}, nil
}

func (s *AdminService) PendingAccounts(ctx context.Context) ([]response_models.AccountResponse, error) {
	accounts, err := s.accountRepo.ListPending(ctx)
	if err != nil {
		return nil, utils.DatabaseError("list pending accounts", err)
	}
	return response_models.NewAccountResponses(accounts), nil
}

func (s *AdminService) Stats(ctx context.Context) (*response_models.AccountStats, error) {
	total, err := s.accountRepo.Count(ctx)
	if err != nil {
		return nil, utils.DatabaseError("count accounts", err)
	}
	byStatus, err := s.accountRepo.CountBy(ctx, "status")
	if err != nil {
		return nil, utils.DatabaseError("count accounts by status", err)
	}
	byRole, err := s.accountRepo.CountBy(ctx, "role")
	if err != nil {
		return nil, utils.DatabaseError("count accounts by role", err)
	}

	return &response_models.AccountStats{
		Total:    total,
		ByStatus: toGroupCounts(byStatus),
		ByRole:   toGroupCounts(byRole),
	}, nil
}

func toGroupCounts(rows []repositories.GroupCount) []response_models.GroupCount {
	out := make([]response_models.GroupCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, response_models.GroupCount{Key: r.GroupKey, Count: r.Total})
	}
	return out
}
