package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrocrm/internal/access"
	"astrocrm/internal/config"
	"astrocrm/internal/models/db_models"
	"astrocrm/internal/models/request_models"
	"astrocrm/internal/repositories"
	"astrocrm/internal/testutil"
	"astrocrm/pkg/utils"
)

type accountFixture struct {
	accounts AccountServiceInterface
	admin    AdminServiceInterface
	repo     repositories.AccountRepository
	tokens   *utils.TokenManager
}

func newAccountFixture(t *testing.T, cfg config.AuthConfig) accountFixture {
	db := testutil.NewDB(t)
	log, _ := testutil.NewLogger()
	repo := repositories.NewAccountRepository(db)
	tokens := utils.NewTokenManager("test-secret", "astrocrm", time.Hour)
	return accountFixture{
		accounts: NewAccountService(repo, tokens, cfg, log),
		admin:    NewAdminService(repo, nil, log),
		repo:     repo,
		tokens:   tokens,
	}
}

func register(t *testing.T, f accountFixture, name, email string) string {
	t.Helper()
	resp, err := f.accounts.Register(context.Background(), request_models.SignUpRequest{Name: name, Email: email, Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, db_models.StatusPending, resp.Status)
	return resp.UserID
}

func TestRegister_StartsPending(t *testing.T) {
	f := newAccountFixture(t, config.AuthConfig{})
	ctx := context.Background()

	register(t, f, "Alice", "alice@example.com")

	acc, err := f.repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, db_models.RoleUser, acc.Role)
	assert.False(t, acc.IsApproved)
	assert.Equal(t, db_models.StatusPending, acc.Status)
	assert.NotEqual(t, "secret123", acc.PasswordHash)
	assert.NoError(t, utils.ComparePasswords(acc.PasswordHash, "secret123"))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAccountFixture(t, config.AuthConfig{})
	register(t, f, "Alice", "alice@example.com")

	_, err := f.accounts.Register(context.Background(), request_models.SignUpRequest{Name: "Alice 2", Email: "alice@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, utils.ErrConflict)
}

func TestRegister_EmailIsCaseSensitive(t *testing.T) {
	f := newAccountFixture(t, config.AuthConfig{})
	register(t, f, "Alice", "alice@example.com")
	register(t, f, "Alice", "Alice@example.com")
}

func TestRegister_RequestedRole(t *testing.T) {
	ctx := context.Background()
	req := request_models.SignUpRequest{Name: "Mallory", Email: "m@example.com", Password: "secret123", Role: db_models.RoleAdmin}

	t.Run("refused by default", func(t *testing.T) {
		f := newAccountFixture(t, config.AuthConfig{})
		_, err := f.accounts.Register(ctx, req)
		assert.ErrorIs(t, err, utils.ErrForbidden)
	})

	t.Run("explicit user role is fine", func(t *testing.T) {
		f := newAccountFixture(t, config.AuthConfig{})
		userReq := req
		userReq.Role = db_models.RoleUser
		_, err := f.accounts.Register(ctx, userReq)
		assert.NoError(t, err)
	})

	t.Run("honoured when enabled", func(t *testing.T) {
		f := newAccountFixture(t, config.AuthConfig{AllowRoleOnRegister: true})
		_, err := f.accounts.Register(ctx, req)
		require.NoError(t, err)

		acc, err := f.repo.FindByEmail(ctx, req.Email)
		require.NoError(t, err)
		assert.Equal(t, db_models.RoleAdmin, acc.Role)
		assert.Equal(t, db_models.StatusPending, acc.Status)
	})
}

func TestLogin_InvalidCredentialsAreUniform(t *testing.T) {
	f := newAccountFixture(t, config.AuthConfig{})
	register(t, f, "Alice", "alice@example.com")
	ctx := context.Background()

	_, errUnknown := f.accounts.Login(ctx, request_models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	_, errWrong := f.accounts.Login(ctx, request_models.LoginRequest{Email: "alice@example.com", Password: "wrong"})

	require.ErrorIs(t, errUnknown, utils.ErrInvalidCredentials)
	require.ErrorIs(t, errWrong, utils.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestScenario_PendingThenApprovedLogin(t *testing.T) {
	f := newAccountFixture(t, config.AuthConfig{})
	ctx := context.Background()

	admin := &db_models.Account{Name: "Root", Email: "root@example.com", Role: db_models.RoleAdmin, Status: db_models.StatusPending, PasswordHash: "x"}
	require.NoError(t, f.repo.InsertTx(ctx, admin))

	aliceID := register(t, f, "Alice", "alice@example.com")

	_, err := f.accounts.Login(ctx, request_models.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.ErrorIs(t, err, utils.ErrAccountNotApproved)
	var svcErr *utils.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, db_models.StatusPending, svcErr.Status)
	assert.Equal(t, access.PendingMessage, svcErr.Message)

	_, err = f.admin.Approve(ctx, access.IdentityOf(admin), mustUUID(t, aliceID))
	require.NoError(t, err)

	resp, err := f.accounts.Login(ctx, request_models.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	claims, err := f.tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, db_models.RoleUser, claims.Role)
	assert.Equal(t, aliceID, claims.UserID)
	assert.Equal(t, db_models.StatusApproved, resp.User.Status)
}

func TestScenario_RejectedLoginCarriesReason(t *testing.T) {
	f := newAccountFixture(t, config.AuthConfig{})
	ctx := context.Background()

	admin := &db_models.Account{Name: "Root", Email: "root@example.com", Role: db_models.RoleAdmin, PasswordHash: "x"}
	require.NoError(t, f.repo.InsertTx(ctx, admin))
	bobID := register(t, f, "Bob", "bob@example.com")

	_, err := f.admin.Reject(ctx, access.IdentityOf(admin), mustUUID(t, bobID), "incomplete profile")
	require.NoError(t, err)

	_, err = f.accounts.Login(ctx, request_models.LoginRequest{Email: "bob@example.com", Password: "secret123"})
	require.ErrorIs(t, err, utils.ErrAccountNotApproved)
	var svcErr *utils.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, db_models.StatusRejected, svcErr.Status)
	assert.Contains(t, svcErr.Message, "incomplete profile")
}

func TestLogin_AdminBypassesApproval(t *testing.T) {
	f := newAccountFixture(t, config.AuthConfig{})
	ctx := context.Background()

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	admin := &db_models.Account{Name: "Root", Email: "root@example.com", Role: db_models.RoleAdmin, Status: db_models.StatusRejected, PasswordHash: hash}
	require.NoError(t, f.repo.InsertTx(ctx, admin))

	resp, err := f.accounts.Login(ctx, request_models.LoginRequest{Email: "root@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestProfile(t *testing.T) {
	f := newAccountFixture(t, config.AuthConfig{})
	ctx := context.Background()
	id := mustUUID(t, register(t, f, "Alice", "alice@example.com"))

	profile, err := f.accounts.Profile(ctx, access.Identity{ID: id, Role: db_models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, db_models.StatusPending, profile.Status)
}

func TestSeedDefaultAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("skipped without credentials", func(t *testing.T) {
		f := newAccountFixture(t, config.AuthConfig{DefaultAdminEmail: "admin@example.com"})
		require.NoError(t, f.accounts.SeedDefaultAdmin(ctx))
		total, err := f.repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("creates once", func(t *testing.T) {
		f := newAccountFixture(t, config.AuthConfig{
			DefaultAdminName:     "System Administrator",
			DefaultAdminEmail:    "admin@example.com",
			DefaultAdminPassword: "admin123",
		})
		require.NoError(t, f.accounts.SeedDefaultAdmin(ctx))
		require.NoError(t, f.accounts.SeedDefaultAdmin(ctx))

		total, err := f.repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)

		admin, err := f.repo.FindByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.Equal(t, db_models.RoleAdmin, admin.Role)
		assert.True(t, admin.IsApproved)
		assert.Equal(t, db_models.StatusApproved, admin.Status)

		_, err = f.accounts.Login(ctx, request_models.LoginRequest{Email: "admin@example.com", Password: "admin123"})
		assert.NoError(t, err)
	})
}
