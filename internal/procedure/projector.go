package procedure

import (
	"fmt"
	"time"

	"github.com/pzepeda90/MedClock-sub002/pkg/logger"
	"github.com/pzepeda90/MedClock-sub002/pkg/monitoring"
	"github.com/pzepeda90/MedClock-sub002/pkg/rbac"
	"github.com/pzepeda90/MedClock-sub002/pkg/types"
)

// eventIDPrefix namespaces procedure-derived events so they never collide
// with manually created appointment events in a shared calendar.
const eventIDPrefix = "procedure-"

// timeWindow is a fixed daily scheduling band anchored to the calendar
// date of the record's scheduled date.
type timeWindow struct {
	startHour, startMin int
	endHour, endMin     int
}

// scheduleWindows maps each procedure type to its fixed time window
var scheduleWindows = map[types.ProcedureType]timeWindow{
	types.TypeIntravitrealInjection: {9, 0, 9, 30},
	types.TypeLaser:                 {10, 0, 10, 45},
	types.TypeSurgery:               {11, 0, 13, 0},
}

// defaultWindow is the band used for unknown procedure types
var defaultWindow = timeWindow{9, 0, 10, 0}

// eventColors maps each procedure type to its display color pair
var eventColors = map[types.ProcedureType]types.EventColor{
	types.TypeIntravitrealInjection: {Background: "#10b981", Border: "#047857"},
	types.TypeLaser:                 {Background: "#f59e0b", Border: "#b45309"},
	types.TypeSurgery:               {Background: "#ef4444", Border: "#b91c1c"},
}

// defaultColor is the neutral gray pair used for unknown procedure types
var defaultColor = types.EventColor{Background: "#9ca3af", Border: "#6b7280"}

// Projector derives calendar-ready events from procedure records
type Projector struct {
	logger *logger.Logger
}

// NewProjector creates a new event projector
func NewProjector(log *logger.Logger) *Projector {
	return &Projector{logger: log}
}

// ToEvent maps a single procedure record onto a calendar event. Records
// the identity may not view, records not in Scheduled status, and records
// with a missing or unparsable scheduled date yield nil; a malformed
// record never aborts projection of the rest of a collection.
func (p *Projector) ToEvent(identity *types.Identity, record *types.ProcedureRecord) *types.CalendarEvent {
	if record == nil {
		return nil
	}

	if !rbac.Authorize(rbac.ActionView, record, identity) {
		monitoring.RecordProjectionSkip("unauthorized")
		return nil
	}

	if record.Status != types.StatusScheduled {
		monitoring.RecordProjectionSkip("not_scheduled")
		return nil
	}

	scheduled, ok := types.ParseDate(record.ScheduledDate)
	if !ok {
		monitoring.RecordProjectionSkip("bad_date")
		if p.logger != nil {
			p.logger.WithComponent("projector").
				Debugf("skipping procedure %d: unparsable scheduled date %q", record.ID, record.ScheduledDate)
		}
		return nil
	}

	window, found := scheduleWindows[record.ProcedureType]
	if !found {
		window = defaultWindow
	}
	color, found := eventColors[record.ProcedureType]
	if !found {
		color = defaultColor
	}

	year, month, day := scheduled.Date()
	start := time.Date(year, month, day, window.startHour, window.startMin, 0, 0, scheduled.Location())
	end := time.Date(year, month, day, window.endHour, window.endMin, 0, 0, scheduled.Location())

	event := &types.CalendarEvent{
		ID:    fmt.Sprintf("%s%d", eventIDPrefix, record.ID),
		Title: fmt.Sprintf("%s - %s (%s)", record.PatientName, record.ProcedureType, record.Eye),
		Start: start,
		End:   end,
		Color: color,
		Props: types.EventProps{
			ProcedureID:       record.ID,
			PatientIDNumber:   record.PatientIDNumber,
			AssignedStaffID:   record.AssignedStaffID,
			AssignedStaffName: record.AssignedStaffName,
			Details:           record.Details,
			Status:            record.Status,
			Category:          record.Category,
			Observations:      record.Observations,
		},
	}

	monitoring.RecordProjection()
	return event
}

// ProjectAll derives events for every record the identity may see,
// applying the same visibility narrowing as the filter pipeline and
// dropping ineligible records. This is what the calendar UI calls to
// merge procedure-derived events with independently created appointments.
func (p *Projector) ProjectAll(identity *types.Identity, store *Store) []*types.CalendarEvent {
	visible := visibleRecords(store.snapshot(), identity)

	events := make([]*types.CalendarEvent, 0, len(visible))
	for _, record := range visible {
		if event := p.ToEvent(identity, record); event != nil {
			events = append(events, event)
		}
	}
	return events
}
