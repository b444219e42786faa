package service

import (
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/types"
)

// CanModify reports whether requester may change or delete a resource
// owned by owner. Admins may modify anything; nobody else may touch an
// orphaned resource.
func CanModify(requester *uuid.UUID, owner *uuid.UUID, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	if requester == nil || owner == nil {
		return false
	}
	return *requester == *owner
}

func canModify(identity *types.Identity, owner *uuid.UUID) bool {
	if identity == nil {
		return false
	}
	return CanModify(identity.UserIDPtr(), owner, identity.IsAdmin)
}
