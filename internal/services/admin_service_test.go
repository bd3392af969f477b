package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"astrocrm/internal/access"
	"astrocrm/internal/models/db_models"
	"astrocrm/internal/models/request_models"
	"astrocrm/internal/repositories"
	"astrocrm/internal/testutil"
	"astrocrm/pkg/utils"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyDecision(ctx context.Context, account *db_models.Account) error {
	return m.Called(ctx, account).Error(0)
}

type adminFixture struct {
	svc   *AdminService
	repo  repositories.AccountRepository
	admin *db_models.Account
	user  *db_models.Account
}

func newAdminFixture(t *testing.T, notifier AccountNotifier) adminFixture {
	db := testutil.NewDB(t)
	log, _ := testutil.NewLogger()
	repo := repositories.NewAccountRepository(db)
	svc := NewAdminService(repo, notifier, log).(*AdminService)

	return adminFixture{
		svc:   svc,
		repo:  repo,
		admin: testutil.SeedAccount(t, db, "root@example.com", db_models.RoleAdmin, db_models.StatusApproved),
		user:  testutil.SeedAccount(t, db, "alice@example.com", db_models.RoleUser, db_models.StatusPending),
	}
}

func TestApprove_IsIdempotent(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.svc.now = func() time.Time { return at }

	first, err := f.svc.Approve(ctx, access.IdentityOf(f.admin), f.user.ID)
	require.NoError(t, err)

	f.svc.now = func() time.Time { return at.Add(time.Hour) }
	second, err := f.svc.Approve(ctx, access.IdentityOf(f.admin), f.user.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.IsApproved, second.IsApproved)
	assert.Equal(t, first.ApprovedBy.ID, second.ApprovedBy.ID)
	assert.Nil(t, second.RejectionReason)
	assert.True(t, second.ApprovedAt.After(*first.ApprovedAt))

	stored, err := f.repo.FindById(ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsApproved)
	assert.Equal(t, db_models.StatusApproved, stored.Status)
	require.NotNil(t, stored.ApprovedBy)
	assert.Equal(t, f.admin.ID, *stored.ApprovedBy)
}

func TestApprove_ClearsPreviousRejection(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()
	admin := access.IdentityOf(f.admin)

	_, err := f.svc.Reject(ctx, admin, f.user.ID, "blurry id")
	require.NoError(t, err)
	resp, err := f.svc.Approve(ctx, admin, f.user.ID)
	require.NoError(t, err)

	assert.Nil(t, resp.RejectionReason)
	assert.True(t, resp.IsApproved)
}

func TestReject(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()
	admin := access.IdentityOf(f.admin)

	_, err := f.svc.Approve(ctx, admin, f.user.ID)
	require.NoError(t, err)

	resp, err := f.svc.Reject(ctx, admin, f.user.ID, "")
	require.NoError(t, err)
	assert.False(t, resp.IsApproved)
	assert.Equal(t, db_models.StatusRejected, resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, db_models.DefaultRejectionReason, *resp.RejectionReason)

	resp, err = f.svc.Reject(ctx, admin, f.user.ID, "incomplete profile")
	require.NoError(t, err)
	assert.Equal(t, "incomplete profile", *resp.RejectionReason)
}

func TestDecision_UnknownAccount(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Approve(ctx, access.IdentityOf(f.admin), uuid.New())
	assert.ErrorIs(t, err, utils.ErrNotFound)
	_, err = f.svc.Reject(ctx, access.IdentityOf(f.admin), uuid.New(), "x")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestDecision_RequiresAdmin(t *testing.T) {
	f := newAdminFixture(t, nil)
	_, err := f.svc.Approve(context.Background(), access.IdentityOf(f.user), f.user.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestDecision_NotifierFailureIsSwallowed(t *testing.T) {
	notifier := &mockNotifier{}
	notifier.On("NotifyDecision", mock.Anything, mock.MatchedBy(func(a *db_models.Account) bool {
		return a.Status == db_models.StatusApproved
	})).Return(errors.New("smtp down")).Once()

	f := newAdminFixture(t, notifier)
	resp, err := f.svc.Approve(context.Background(), access.IdentityOf(f.admin), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, db_models.StatusApproved, resp.Status)
	notifier.AssertExpectations(t)
}

func TestDeleteAccount(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()
	admin := access.IdentityOf(f.admin)

	err := f.svc.DeleteAccount(ctx, admin, f.admin.ID)
	require.ErrorIs(t, err, utils.ErrValidation)
	still, err := f.repo.FindById(ctx, f.admin.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)

	require.NoError(t, f.svc.DeleteAccount(ctx, admin, f.user.ID))
	gone, err := f.repo.FindById(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.ErrorIs(t, f.svc.DeleteAccount(ctx, admin, f.user.ID), utils.ErrNotFound)
}

func TestListAccountsPendingAndStats(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()
	admin := access.IdentityOf(f.admin)

	_, err := f.svc.Approve(ctx, admin, f.user.ID)
	require.NoError(t, err)

	list, err := f.svc.ListAccounts(ctx, request_models.ListAccountsRequest{Status: db_models.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Pagination.Total)
	assert.Equal(t, 1, list.Pagination.Pages)
	for _, u := range list.Users {
		if u.ID == f.user.ID.String() {
			require.NotNil(t, u.ApprovedBy)
			assert.Equal(t, "root@example.com", u.ApprovedBy.Email)
		}
	}

	_, err = f.svc.ListAccounts(ctx, request_models.ListAccountsRequest{Limit: 1000})
	assert.ErrorIs(t, err, utils.ErrInvalidPageSize)

	pending, err := f.svc.PendingAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Contains(t, stats.ByStatus, groupCount(db_models.StatusApproved, 2))
	assert.Contains(t, stats.ByRole, groupCount(db_models.RoleAdmin, 1))
	assert.Contains(t, stats.ByRole, groupCount(db_models.RoleUser, 1))
}
