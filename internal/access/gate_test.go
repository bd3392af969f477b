package access

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrocrm/internal/models/db_models"
	"astrocrm/pkg/utils"
)

type stubVerifier struct {
	claims *utils.Claims
	err    error
}

func (s stubVerifier) ValidateToken(string) (*utils.Claims, error) {
	return s.claims, s.err
}

type stubFinder struct {
	accounts map[uuid.UUID]*db_models.Account
	err      error
}

func (s stubFinder) FindById(_ context.Context, id uuid.UUID) (*db_models.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.accounts[id], nil
}

func strPtr(s string) *string { return &s }

func TestCheckApproval_AdminAlwaysPasses(t *testing.T) {
	for _, status := range []string{db_models.StatusPending, db_models.StatusApproved, db_models.StatusRejected, "unknown"} {
		for _, approved := range []bool{true, false} {
			acc := &db_models.Account{Role: db_models.RoleAdmin, Status: status, IsApproved: approved}
			assert.NoError(t, CheckApproval(acc), "status=%s isApproved=%v", status, approved)
		}
	}
}

func TestCheckApproval_NonAdmin(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		isApproved bool
		reason     *string
		wantErr    bool
		wantMsg    string
	}{
		{name: "approved", status: db_models.StatusApproved, isApproved: true},
		{name: "approved status without flag", status: db_models.StatusApproved, isApproved: false, wantErr: true, wantMsg: PendingMessage},
		{name: "flag without approved status", status: db_models.StatusPending, isApproved: true, wantErr: true, wantMsg: PendingMessage},
		{name: "pending", status: db_models.StatusPending, wantErr: true, wantMsg: PendingMessage},
		{name: "rejected without reason", status: db_models.StatusRejected, wantErr: true, wantMsg: RejectedMessage},
		{name: "rejected with reason", status: db_models.StatusRejected, reason: strPtr("incomplete profile"), wantErr: true, wantMsg: RejectedMessage + " Reason: incomplete profile"},
		{name: "unknown status", status: "archived", wantErr: true, wantMsg: PendingMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &db_models.Account{Role: db_models.RoleUser, Status: tt.status, IsApproved: tt.isApproved, RejectionReason: tt.reason}
			err := CheckApproval(acc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, utils.ErrAccountNotApproved)

			var svcErr *utils.ServiceError
			require.True(t, errors.As(err, &svcErr))
			assert.Equal(t, tt.wantMsg, svcErr.Message)
			assert.Equal(t, tt.status, svcErr.Status)
		})
	}
}

func TestAuthorizeRole(t *testing.T) {
	user := &db_models.Account{Role: db_models.RoleUser}
	admin := &db_models.Account{Role: db_models.RoleAdmin}

	assert.NoError(t, AuthorizeRole(user))
	assert.NoError(t, AuthorizeRole(admin, db_models.RoleAdmin))
	assert.NoError(t, AuthorizeRole(user, db_models.RoleAdmin, db_models.RoleUser))
	assert.ErrorIs(t, AuthorizeRole(user, db_models.RoleAdmin), utils.ErrForbidden)
}

func TestResolveIdentity(t *testing.T) {
	ctx := context.Background()
	acc := &db_models.Account{BaseModel: db_models.BaseModel{ID: uuid.New()}, Role: db_models.RoleUser}
	finder := stubFinder{accounts: map[uuid.UUID]*db_models.Account{acc.ID: acc}}

	t.Run("valid token", func(t *testing.T) {
		g := NewGate(stubVerifier{claims: &utils.Claims{UserID: acc.ID.String(), Role: acc.Role}}, finder)
		got, err := g.ResolveIdentity(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, acc.ID, got.ID)
	})

	t.Run("bad signature", func(t *testing.T) {
		g := NewGate(stubVerifier{err: errors.New("signature is invalid")}, finder)
		_, err := g.ResolveIdentity(ctx, "tok")
		assert.ErrorIs(t, err, utils.ErrUnauthenticated)
	})

	t.Run("malformed subject", func(t *testing.T) {
		g := NewGate(stubVerifier{claims: &utils.Claims{UserID: "nope"}}, finder)
		_, err := g.ResolveIdentity(ctx, "tok")
		assert.ErrorIs(t, err, utils.ErrUnauthenticated)
	})

	t.Run("deleted account", func(t *testing.T) {
		g := NewGate(stubVerifier{claims: &utils.Claims{UserID: uuid.NewString()}}, finder)
		_, err := g.ResolveIdentity(ctx, "tok")
		assert.ErrorIs(t, err, utils.ErrUnauthenticated)
	})

	t.Run("store failure", func(t *testing.T) {
		g := NewGate(stubVerifier{claims: &utils.Claims{UserID: acc.ID.String()}}, stubFinder{err: errors.New("boom")})
		_, err := g.ResolveIdentity(ctx, "tok")
		assert.ErrorIs(t, err, utils.ErrDatabaseError)
	})
}

func TestIdentityOf(t *testing.T) {
	acc := &db_models.Account{BaseModel: db_models.BaseModel{ID: uuid.New()}, Role: db_models.RoleAdmin}
	id := IdentityOf(acc)
	assert.Equal(t, acc.ID, id.ID)
	assert.True(t, id.IsAdmin())
}
