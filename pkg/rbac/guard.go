package rbac

import (
	"github.com/pzepeda90/MedClock-sub002/pkg/types"
)

// IsOwnedBy reports whether a record is owned by the acting identity.
// Ownership is determined by AssignedStaffID exclusively; matching on
// staff names is a known bug source and is never used here. Nil inputs
// and unset identity ids are not owners.
func IsOwnedBy(record *types.ProcedureRecord, identity *types.Identity) bool {
	if record == nil || identity == nil || identity.ID == 0 {
		return false
	}
	return record.AssignedStaffID == identity.ID
}

// Authorize decides whether an identity may perform an action on a
// record. Pure decision function: no side effects, callers surface the
// denial to the user. For create, record is the proposed draft, with
// ownership checked against its proposed AssignedStaffID.
func Authorize(action Action, record *types.ProcedureRecord, identity *types.Identity) bool {
	if identity == nil {
		return false
	}

	caps := PermissionsFor(identity.Role)

	var any, own bool
	switch action {
	case ActionView:
		any, own = caps.ViewAll, caps.ViewOwn
	case ActionCreate:
		any, own = caps.CreateAny, caps.CreateOwn
	case ActionEdit:
		any, own = caps.EditAny, caps.EditOwn
	case ActionDelete:
		any, own = caps.DeleteAny, caps.DeleteOwn
	default:
		return false
	}

	if any {
		return true
	}
	if own && record != nil && IsOwnedBy(record, identity) {
		return true
	}
	return false
}
