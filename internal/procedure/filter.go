package procedure

import (
	"strings"
	"time"

	"github.com/pzepeda90/MedClock-sub002/pkg/rbac"
	"github.com/pzepeda90/MedClock-sub002/pkg/types"
)

// filterRecords is the filter pipeline: visibility narrowing first, then
// conjunctive criteria. Criteria can only narrow the visible set, never
// widen it. Returns a new slice; the store is never mutated.
func filterRecords(records []*types.ProcedureRecord, identity *types.Identity, filter *types.ProcedureFilter) []*types.ProcedureRecord {
	visible := visibleRecords(records, identity)

	out := make([]*types.ProcedureRecord, 0, len(visible))
	for _, record := range visible {
		if matchesFilter(record, filter) {
			out = append(out, record)
		}
	}
	return out
}

// visibleRecords applies the visibility rule of the capability matrix:
// view-all roles start from the full store, view-own roles from their
// owned records, everyone else from the empty set.
func visibleRecords(records []*types.ProcedureRecord, identity *types.Identity) []*types.ProcedureRecord {
	if identity == nil {
		return nil
	}

	caps := rbac.PermissionsFor(identity.Role)
	switch {
	case caps.ViewAll:
		return records
	case caps.ViewOwn:
		owned := make([]*types.ProcedureRecord, 0, len(records))
		for _, record := range records {
			if rbac.IsOwnedBy(record, identity) {
				owned = append(owned, record)
			}
		}
		return owned
	default:
		return nil
	}
}

// matchesFilter evaluates every set criterion conjunctively
func matchesFilter(record *types.ProcedureRecord, filter *types.ProcedureFilter) bool {
	if filter == nil {
		return true
	}

	if filter.PatientName != "" && !containsFold(record.PatientName, filter.PatientName) {
		return false
	}
	if filter.PatientIDNumber != "" && !containsFold(record.PatientIDNumber, filter.PatientIDNumber) {
		return false
	}
	if filter.Status != "" && record.Status != filter.Status {
		return false
	}
	if filter.Type != "" && record.ProcedureType != filter.Type {
		return false
	}
	if filter.AssignedStaffID != 0 && record.AssignedStaffID != filter.AssignedStaffID {
		return false
	}

	if filter.FromDate != "" || filter.ToDate != "" {
		scheduled, ok := types.ParseDate(record.ScheduledDate)
		if !ok {
			// a record without a parsable scheduled date fails any
			// date-bound criterion rather than matching everything
			return false
		}
		day := dateOnly(scheduled)
		if filter.FromDate != "" {
			from, ok := types.ParseDate(filter.FromDate)
			if ok && day.Before(dateOnly(from)) {
				return false
			}
		}
		if filter.ToDate != "" {
			to, ok := types.ParseDate(filter.ToDate)
			if ok && day.After(dateOnly(to)) {
				return false
			}
		}
	}

	return true
}

// dateOnly truncates a timestamp to its calendar date so range bounds
// are inclusive at day granularity.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// containsFold reports whether needle occurs in haystack, ignoring case
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
