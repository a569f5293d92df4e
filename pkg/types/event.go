package types

import "time"

// EventColor is the display color pair for a calendar event
type EventColor struct {
	Background string `json:"background"`
	Border     string `json:"border"`
}

// EventProps carries the detail payload attached to a projected event,
// sufficient for a calendar UI to render a popover without re-querying
// the record store.
type EventProps struct {
	ProcedureID       int              `json:"procedure_id"`
	PatientIDNumber   string           `json:"patient_id_number"`
	AssignedStaffID   int              `json:"assigned_staff_id"`
	AssignedStaffName string           `json:"assigned_staff_name"`
	Details           ProcedureDetails `json:"details"`
	Status            ProcedureStatus  `json:"status"`
	Category          string           `json:"category"`
	Observations      string           `json:"observations"`
}

// CalendarEvent is a calendar-ready scheduling event derived from a
// procedure record. Its ID is namespaced so procedure-derived events
// never collide with manually created appointment events when the two
// kinds are merged into a shared calendar.
type CalendarEvent struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
	Color EventColor `json:"color"`
	Props EventProps `json:"props"`
}
