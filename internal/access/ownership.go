package access

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"astrocrm/pkg/utils"
)

// Owned is a record with a direct creator reference.
type Owned interface {
	OwnerID() uuid.UUID
}

// AuthorizeDirect compares the record's creator with the caller. There is no admin override.
// noun names the resource in the denial message, e.g. "consultations".
func AuthorizeDirect(callerID uuid.UUID, resource Owned, noun string) error {
	if callerID == uuid.Nil || resource.OwnerID() != callerID {
		return utils.Forbidden(fmt.Sprintf("Access denied. You can only access your own %s.", noun))
	}
	return nil
}

// AuthorizeViaParent resolves ownership through the parent record. A missing parent is NotFound:
// the record is orphaned, not merely someone else's. lookup returns (nil, nil) for a missing parent.
// On success the parent is returned.
func AuthorizeViaParent[T any, P interface {
	*T
	Owned
}](ctx context.Context, callerID, parentID uuid.UUID, lookup func(ctx context.Context, parentID uuid.UUID) (P, error), noun string) (P, error) {
	parent, err := lookup(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, utils.NotFound("Consultation not found")
	}
	if err := AuthorizeDirect(callerID, parent, noun); err != nil {
		return nil, err
	}
	return parent, nil
}

// OwnerScoped is a list filter that can be pinned to one owner.
type OwnerScoped[F any] interface {
	ScopedTo(owner uuid.UUID) F
}

// ScopeListQuery pins a list filter to the caller. Whatever else the filter carries
// (category, dates, free-text search) only narrows the caller's own records.
func ScopeListQuery[F OwnerScoped[F]](callerID uuid.UUID, base F) F {
	return base.ScopedTo(callerID)
}
