// Package access holds the two request-time predicates every protected operation runs through:
// the account lifecycle gate (who is calling, and may their account proceed) and the
// resource ownership authorizer (may that caller touch this record).
package access

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"astrocrm/internal/models/db_models"
	"astrocrm/pkg/utils"
)

const (
	PendingMessage  = "Your account is pending approval."
	RejectedMessage = "Your account has been rejected."
)

// Identity is the authenticated caller, threaded explicitly from middleware into handlers and services.
type Identity struct {
	ID   uuid.UUID
	Role string
}

func (i Identity) IsAdmin() bool {
	return i.Role == db_models.RoleAdmin
}

func IdentityOf(a *db_models.Account) Identity {
	return Identity{ID: a.ID, Role: a.Role}
}

type TokenVerifier interface {
	ValidateToken(token string) (*utils.Claims, error)
}

type AccountFinder interface {
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
}

// Gate resolves bearer credentials to accounts. It keeps no state between calls:
// the account is re-read on every request.
type Gate struct {
	tokens   TokenVerifier
	accounts AccountFinder
}

func NewGate(tokens TokenVerifier, accounts AccountFinder) *Gate {
	return &Gate{tokens: tokens, accounts: accounts}
}

// ResolveIdentity verifies the token and loads the account it names.
// Any failure, including a deleted account, is reported as Unauthenticated.
func (g *Gate) ResolveIdentity(ctx context.Context, token string) (*db_models.Account, error) {
	claims, err := g.tokens.ValidateToken(token)
	if err != nil {
		return nil, utils.Unauthenticated("Invalid token")
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, utils.Unauthenticated("Invalid token")
	}

	account, err := g.accounts.FindById(ctx, id)
	if err != nil {
		return nil, utils.DatabaseError("resolve identity", err)
	}
	if account == nil {
		return nil, utils.Unauthenticated("User not found")
	}
	return account, nil
}

// AuthorizeRole passes when allowed is empty or contains the account's role.
func AuthorizeRole(account *db_models.Account, allowed ...string) error {
	if len(allowed) == 0 || slices.Contains(allowed, account.Role) {
		return nil
	}
	return utils.Forbidden("Forbidden: Access denied")
}

// CheckApproval lets admins through unconditionally. Everyone else needs
// status=approved and isApproved=true; the rejection message follows the status.
func CheckApproval(account *db_models.Account) error {
	if account.IsAdmin() {
		return nil
	}
	if account.Status == db_models.StatusApproved && account.IsApproved {
		return nil
	}
	return &utils.ServiceError{
		Kind:    utils.ErrAccountNotApproved,
		Message: ApprovalMessage(account),
		Status:  account.Status,
	}
}

// ApprovalMessage is the user-facing explanation for a blocked account.
func ApprovalMessage(account *db_models.Account) string {
	if account.Status == db_models.StatusRejected {
		if account.RejectionReason != nil && *account.RejectionReason != "" {
			return fmt.Sprintf("%s Reason: %s", RejectedMessage, *account.RejectionReason)
		}
		return RejectedMessage
	}
	return PendingMessage
}
