package procedure

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pzepeda90/MedClock-sub002/pkg/logger"
	"github.com/pzepeda90/MedClock-sub002/pkg/types"
)

var (
	adminIdentity        = &types.Identity{ID: 1, Role: "admin"}
	physicianIdentity    = &types.Identity{ID: 2, Role: "physician"}
	receptionistIdentity = &types.Identity{ID: 5, Role: "recepcionista"}
	nurseIdentity        = &types.Identity{ID: 7, Role: "nurse"}
	patientIdentity      = &types.Identity{ID: 30, Role: "patient"}
)

func setupTestStore() *Store {
	return NewStore(logger.New("error"))
}

func testDraft(staffID int) *types.ProcedureRecord {
	return &types.ProcedureRecord{
		PatientName:       "Juan Pérez",
		PatientIDNumber:   "12.345.678-9",
		PatientAge:        67,
		ProcedureType:     types.TypeSurgery,
		Eye:               types.EyeLeft,
		AssignedStaffID:   staffID,
		AssignedStaffName: fmt.Sprintf("Staff %d", staffID),
		IndicationDate:    "2023-11-20",
		ScheduledDate:     "2023-12-05",
		Status:            types.StatusScheduled,
	}
}

func TestCreate_AssignsMonotonicIDs(t *testing.T) {
	store := setupTestStore()

	first, err := store.Create(adminIdentity, testDraft(2))
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)

	second, err := store.Create(adminIdentity, testDraft(3))
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	// removing the highest id and creating again reuses max+1 semantics
	require.NoError(t, store.Remove(adminIdentity, 2))
	third, err := store.Create(adminIdentity, testDraft(3))
	require.NoError(t, err)
	assert.Equal(t, 2, third.ID)
}

func TestCreate_DefaultsCategoryAndStatus(t *testing.T) {
	store := setupTestStore()

	draft := testDraft(2)
	draft.Category = ""
	draft.Status = ""

	record, err := store.Create(adminIdentity, draft)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultCategory, record.Category)
	assert.Equal(t, types.StatusIndicated, record.Status)
}

func TestCreate_DeniedPerformsNoMutation(t *testing.T) {
	store := setupTestStore()

	_, err := store.Create(patientIdentity, testDraft(2))
	assert.True(t, types.IsDenied(err))
	assert.Equal(t, 0, store.Len())

	_, err = store.Create(nurseIdentity, testDraft(7))
	assert.True(t, types.IsDenied(err), "nurses hold no create capability")
	assert.Equal(t, 0, store.Len())
}

func TestCreate_PhysicianOnlyForSelf(t *testing.T) {
	store := setupTestStore()

	record, err := store.Create(physicianIdentity, testDraft(2))
	require.NoError(t, err)
	assert.Equal(t, 2, record.AssignedStaffID)

	_, err = store.Create(physicianIdentity, testDraft(9))
	assert.True(t, types.IsDenied(err), "own-scoped create must check the proposed assignee")
	assert.Equal(t, 1, store.Len())
}

func TestUpdate_ShallowMerge(t *testing.T) {
	store := setupTestStore()

	created, err := store.Create(adminIdentity, testDraft(2))
	require.NoError(t, err)

	newStatus := types.StatusPerformed
	newDate := "2023-12-10"
	updated, err := store.Update(adminIdentity, created.ID, &types.ProcedureUpdates{
		Status:        &newStatus,
		ScheduledDate: &newDate,
	})
	require.NoError(t, err)

	assert.Equal(t, types.StatusPerformed, updated.Status)
	assert.Equal(t, "2023-12-10", updated.ScheduledDate)
	// untouched fields survive the merge
	assert.Equal(t, created.PatientName, updated.PatientName)
	assert.Equal(t, created.ProcedureType, updated.ProcedureType)
	assert.Equal(t, created.Eye, updated.Eye)
}

func TestUpdate_ObservationsAppendNeverOverwrite(t *testing.T) {
	store := setupTestStore()

	draft := testDraft(2)
	draft.Observations = "x"
	created, err := store.Create(adminIdentity, draft)
	require.NoError(t, err)

	updated, err := store.Update(adminIdentity, created.ID, &types.ProcedureUpdates{Note: "nota"})
	require.NoError(t, err)

	today := time.Now().Format("2006-01-02")
	assert.Equal(t, "x\n["+today+"] nota", updated.Observations)

	// a second note keeps the full history as a prefix
	updated, err = store.Update(adminIdentity, created.ID, &types.ProcedureUpdates{Note: "control"})
	require.NoError(t, err)
	assert.Equal(t, "x\n["+today+"] nota\n["+today+"] control", updated.Observations)
}

func TestUpdate_FirstNoteOnEmptyObservations(t *testing.T) {
	store := setupTestStore()

	created, err := store.Create(adminIdentity, testDraft(2))
	require.NoError(t, err)

	updated, err := store.Update(adminIdentity, created.ID, &types.ProcedureUpdates{Note: "primera nota"})
	require.NoError(t, err)

	today := time.Now().Format("2006-01-02")
	assert.Equal(t, "["+today+"] primera nota", updated.Observations)
}

func TestUpdate_DeniedIsNoOp(t *testing.T) {
	store := setupTestStore()

	created, err := store.Create(adminIdentity, testDraft(9))
	require.NoError(t, err)

	before, err := store.Get(adminIdentity, created.ID)
	require.NoError(t, err)

	newStatus := types.StatusPerformed
	_, err = store.Update(physicianIdentity, created.ID, &types.ProcedureUpdates{
		Status: &newStatus,
		Note:   "intento",
	})
	assert.True(t, types.IsDenied(err))

	after, err := store.Get(adminIdentity, created.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after, "denied update must leave the record identical")
}

func TestUpdate_NotFound(t *testing.T) {
	store := setupTestStore()

	_, err := store.Update(adminIdentity, 42, &types.ProcedureUpdates{Note: "nota"})
	assert.True(t, types.IsNotFound(err))
}

func TestRemove_ReceptionistDenied(t *testing.T) {
	store := setupTestStore()

	created, err := store.Create(adminIdentity, testDraft(5))
	require.NoError(t, err)

	err = store.Remove(receptionistIdentity, created.ID)
	assert.True(t, types.IsDenied(err))
	assert.Equal(t, 1, store.Len(), "denied delete must leave the store unchanged")

	_, err = store.Get(adminIdentity, created.ID)
	assert.NoError(t, err)
}

func TestRemove_Success(t *testing.T) {
	store := setupTestStore()

	created, err := store.Create(adminIdentity, testDraft(2))
	require.NoError(t, err)

	require.NoError(t, store.Remove(adminIdentity, created.ID))
	assert.Equal(t, 0, store.Len())

	err = store.Remove(adminIdentity, created.ID)
	assert.True(t, types.IsNotFound(err))
}

func TestGet_ViewScope(t *testing.T) {
	store := setupTestStore()

	created, err := store.Create(adminIdentity, testDraft(9))
	require.NoError(t, err)

	_, err = store.Get(physicianIdentity, created.ID)
	assert.True(t, types.IsDenied(err))

	record, err := store.Get(nurseIdentity, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, record.ID)
}

func TestCurrentView_RefreshedAfterMutation(t *testing.T) {
	store := setupTestStore()

	_, err := store.Create(adminIdentity, testDraft(2))
	require.NoError(t, err)

	view := store.ApplyFilter(adminIdentity, &types.ProcedureFilter{})
	require.Len(t, view, 1)

	// the cached view follows mutations without re-applying the filter
	second, err := store.Create(adminIdentity, testDraft(3))
	require.NoError(t, err)
	assert.Len(t, store.CurrentView(), 2)

	require.NoError(t, store.Remove(adminIdentity, second.ID))
	assert.Len(t, store.CurrentView(), 1)
}

func TestCurrentView_RespectsLastCriteria(t *testing.T) {
	store := setupTestStore()

	_, err := store.Create(adminIdentity, testDraft(2))
	require.NoError(t, err)

	view := store.ApplyFilter(adminIdentity, &types.ProcedureFilter{Status: types.StatusScheduled})
	require.Len(t, view, 1)

	// a new record outside the remembered criteria stays out of the view
	draft := testDraft(3)
	draft.Status = types.StatusIndicated
	_, err = store.Create(adminIdentity, draft)
	require.NoError(t, err)

	assert.Len(t, store.CurrentView(), 1)
	assert.Equal(t, 2, store.Len())
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	store := setupTestStore()

	created, err := store.Create(adminIdentity, testDraft(2))
	require.NoError(t, err)

	created.PatientName = "mutated outside the store"

	fresh, err := store.Get(adminIdentity, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", fresh.PatientName)
}
