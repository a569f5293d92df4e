package procedure

import (
	"sync"
	"time"

	"github.com/pzepeda90/MedClock-sub002/pkg/logger"
	"github.com/pzepeda90/MedClock-sub002/pkg/monitoring"
	"github.com/pzepeda90/MedClock-sub002/pkg/rbac"
	"github.com/pzepeda90/MedClock-sub002/pkg/types"
)

// Store is the mutable in-memory collection of procedure records. All
// mutation is routed through Create/Update/Remove, each mediated by the
// authorization guard; callers never touch the collection directly.
// The store assumes a single logical writer at a time; the mutex only
// serializes accidental concurrent callers in a multi-threaded host.
type Store struct {
	mu      sync.RWMutex
	records []*types.ProcedureRecord
	logger  *logger.Logger

	// last-applied filter, re-run after every successful mutation so
	// the cached current view stays consistent with the store
	lastIdentity *types.Identity
	lastFilter   *types.ProcedureFilter
	currentView  []*types.ProcedureRecord
}

// NewStore creates an empty procedure record store
func NewStore(log *logger.Logger) *Store {
	return &Store{
		logger: log,
	}
}

// Create adds a new record on behalf of the acting identity. The draft's
// ownership (its proposed AssignedStaffID) is what the guard checks,
// since no record exists in the store yet. The store assigns the id.
func (s *Store) Create(identity *types.Identity, draft *types.ProcedureRecord) (*types.ProcedureRecord, error) {
	if draft == nil {
		return nil, types.NewValidationError("procedure draft is required", nil)
	}

	allowed := rbac.Authorize(rbac.ActionCreate, draft, identity)
	monitoring.RecordAccessDecision(string(rbac.ActionCreate), actorRole(identity), allowed)
	if !allowed {
		s.audit(identity, rbac.ActionCreate, 0, false)
		monitoring.RecordMutation("create", "denied")
		return nil, types.NewAuthorizationError("not allowed to create this procedure", map[string]interface{}{
			"assigned_staff_id": draft.AssignedStaffID,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := draft.Clone()
	record.ID = s.nextIDLocked()
	if record.Category == "" {
		record.Category = types.DefaultCategory
	}
	if record.Status == "" {
		record.Status = types.StatusIndicated
	}

	s.records = append(s.records, record)
	s.refreshViewLocked()

	s.audit(identity, rbac.ActionCreate, record.ID, true)
	monitoring.RecordMutation("create", "ok")
	return record.Clone(), nil
}

// Update shallow-merges the supplied patch into the record with the given
// id. Observations are append-only: a supplied note is concatenated with
// a date stamp after the existing text, never replacing it. A denied
// update leaves the record untouched.
func (s *Store) Update(identity *types.Identity, id int, updates *types.ProcedureUpdates) (*types.ProcedureRecord, error) {
	if updates == nil {
		return nil, types.NewValidationError("procedure updates are required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		monitoring.RecordMutation("update", "not_found")
		return nil, types.NewNotFoundError("procedure not found", map[string]interface{}{"id": id})
	}
	existing := s.records[idx]

	allowed := rbac.Authorize(rbac.ActionEdit, existing, identity)
	monitoring.RecordAccessDecision(string(rbac.ActionEdit), actorRole(identity), allowed)
	if !allowed {
		s.audit(identity, rbac.ActionEdit, id, false)
		monitoring.RecordMutation("update", "denied")
		return nil, types.NewAuthorizationError("not allowed to edit this procedure", map[string]interface{}{"id": id})
	}

	merged := existing.Clone()
	applyUpdates(merged, updates)
	s.records[idx] = merged
	s.refreshViewLocked()

	s.audit(identity, rbac.ActionEdit, id, true)
	monitoring.RecordMutation("update", "ok")
	return merged.Clone(), nil
}

// Remove deletes the record with the given id. Deletion is permanent;
// durable audit trails are an external collaborator's responsibility.
func (s *Store) Remove(identity *types.Identity, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		monitoring.RecordMutation("delete", "not_found")
		return types.NewNotFoundError("procedure not found", map[string]interface{}{"id": id})
	}

	allowed := rbac.Authorize(rbac.ActionDelete, s.records[idx], identity)
	monitoring.RecordAccessDecision(string(rbac.ActionDelete), actorRole(identity), allowed)
	if !allowed {
		s.audit(identity, rbac.ActionDelete, id, false)
		monitoring.RecordMutation("delete", "denied")
		return types.NewAuthorizationError("not allowed to delete this procedure", map[string]interface{}{"id": id})
	}

	s.records = append(s.records[:idx], s.records[idx+1:]...)
	s.refreshViewLocked()

	s.audit(identity, rbac.ActionDelete, id, true)
	monitoring.RecordMutation("delete", "ok")
	return nil
}

// Get returns the record with the given id if the identity may view it
func (s *Store) Get(identity *types.Identity, id int) (*types.ProcedureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return nil, types.NewNotFoundError("procedure not found", map[string]interface{}{"id": id})
	}

	allowed := rbac.Authorize(rbac.ActionView, s.records[idx], identity)
	monitoring.RecordAccessDecision(string(rbac.ActionView), actorRole(identity), allowed)
	if !allowed {
		return nil, types.NewAuthorizationError("not allowed to view this procedure", map[string]interface{}{"id": id})
	}

	return s.records[idx].Clone(), nil
}

// ApplyFilter narrows the store to the identity's visible records and
// then applies the criteria conjunctively. The criteria object is
// remembered for automatic re-filtering after mutations until replaced.
func (s *Store) ApplyFilter(identity *types.Identity, filter *types.ProcedureFilter) []*types.ProcedureRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if filter == nil {
		filter = &types.ProcedureFilter{}
	}

	idCopy := cloneIdentity(identity)
	filterCopy := *filter
	s.lastIdentity = idCopy
	s.lastFilter = &filterCopy
	s.refreshViewLocked()

	return cloneRecords(s.currentView)
}

// CurrentView returns the result of the last-applied filter, kept
// consistent with the store across mutations.
func (s *Store) CurrentView() []*types.ProcedureRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.currentView)
}

// Len returns the number of records in the store
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// snapshot returns a copy of the full record slice for internal use by
// the projector, which applies its own visibility narrowing.
func (s *Store) snapshot() []*types.ProcedureRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.ProcedureRecord, len(s.records))
	copy(out, s.records)
	return out
}

// refreshViewLocked re-runs the last-applied filter; post-condition of
// every successful mutation.
func (s *Store) refreshViewLocked() {
	if s.lastFilter == nil {
		return
	}
	s.currentView = filterRecords(s.records, s.lastIdentity, s.lastFilter)
}

// nextIDLocked assigns ids monotonically: max(existing)+1, or 1 if empty
func (s *Store) nextIDLocked() int {
	maxID := 0
	for _, r := range s.records {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	return maxID + 1
}

func (s *Store) indexOfLocked(id int) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) audit(identity *types.Identity, action rbac.Action, recordID int, allowed bool) {
	if s.logger == nil {
		return
	}
	var details map[string]interface{}
	if recordID != 0 {
		details = map[string]interface{}{"record_id": recordID}
	}
	s.logger.Audit(actorID(identity), actorRole(identity), string(action), "procedure", allowed, details)
}

// applyUpdates shallow-merges a patch into a record; Note appends to
// Observations with a date stamp.
func applyUpdates(record *types.ProcedureRecord, updates *types.ProcedureUpdates) {
	if updates.ProcedureType != nil {
		record.ProcedureType = *updates.ProcedureType
	}
	if updates.Eye != nil {
		record.Eye = *updates.Eye
	}
	if updates.AssignedStaffID != nil {
		record.AssignedStaffID = *updates.AssignedStaffID
	}
	if updates.AssignedStaffName != nil {
		record.AssignedStaffName = *updates.AssignedStaffName
	}
	if updates.Details != nil {
		record.Details = *updates.Details
	}
	if updates.ScheduledDate != nil {
		record.ScheduledDate = *updates.ScheduledDate
	}
	if updates.Status != nil {
		record.Status = *updates.Status
	}
	if updates.Category != nil {
		record.Category = *updates.Category
	}
	if updates.Note != "" {
		record.Observations = appendObservation(record.Observations, updates.Note, time.Now())
	}
}

// appendObservation concatenates a timestamped note after the existing
// text; prior notes are never deleted.
func appendObservation(existing, note string, at time.Time) string {
	stamped := "[" + at.Format("2006-01-02") + "] " + note
	if existing == "" {
		return stamped
	}
	return existing + "\n" + stamped
}

func cloneRecords(records []*types.ProcedureRecord) []*types.ProcedureRecord {
	out := make([]*types.ProcedureRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r.Clone())
	}
	return out
}

func cloneIdentity(identity *types.Identity) *types.Identity {
	if identity == nil {
		return nil
	}
	c := *identity
	return &c
}

func actorID(identity *types.Identity) int {
	if identity == nil {
		return 0
	}
	return identity.ID
}

func actorRole(identity *types.Identity) string {
	if identity == nil {
		return ""
	}
	return string(rbac.NormalizeRole(identity.Role))
}
