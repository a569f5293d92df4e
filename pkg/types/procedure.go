package types

import "time"

// ProcedureType represents the kind of clinical procedure. The wire
// values carry the legacy Spanish labels used by the front end.
type ProcedureType string

const (
	TypeIntravitrealInjection ProcedureType = "Inyección Intravítrea"
	TypeLaser                 ProcedureType = "Láser"
	TypeSurgery               ProcedureType = "Cirugía"
)

// ProcedureStatus represents the lifecycle state of a procedure.
// Indicated → Scheduled → Performed, monotonic forward.
type ProcedureStatus string

const (
	StatusIndicated ProcedureStatus = "indicado"
	StatusScheduled ProcedureStatus = "programado"
	StatusPerformed ProcedureStatus = "realizado"
)

// Eye identifies the treated eye
type Eye string

const (
	EyeLeft  Eye = "Izquierdo"
	EyeRight Eye = "Derecho"
	EyeBoth  Eye = "Ambos"
)

// DefaultCategory is applied when a record is created without a category tag
const DefaultCategory = "procedimiento"

// Contact holds patient contact information
type Contact struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// ProcedureDetails is the variant payload whose meaningful fields depend
// on the procedure type: Medication for injections, the laser fields for
// lasers, and the surgical fields for surgeries. Free-form beyond that.
type ProcedureDetails struct {
	Medication string `json:"medication,omitempty"`

	LaserType string `json:"laser_type,omitempty"`
	Spots     int    `json:"spots,omitempty"`
	Power     string `json:"power,omitempty"`

	Technique  string `json:"technique,omitempty"`
	Lens       string `json:"lens,omitempty"`
	Anesthesia string `json:"anesthesia,omitempty"`
	Complexity string `json:"complexity,omitempty"`
}

// ProcedureRecord is the central entity: a clinical procedure indicated
// for a patient and assigned to exactly one staff member. AssignedStaffID
// alone determines ownership; visibility and mutability for roles without
// view-all/edit-all follow from it.
type ProcedureRecord struct {
	ID                int              `json:"id"`
	PatientName       string           `json:"patient_name"`
	PatientIDNumber   string           `json:"patient_id_number"`
	PatientAge        int              `json:"patient_age"`
	Contact           Contact          `json:"contact"`
	ProcedureType     ProcedureType    `json:"procedure_type"`
	Eye               Eye              `json:"eye"`
	AssignedStaffID   int              `json:"assigned_staff_id"`
	AssignedStaffName string           `json:"assigned_staff_name"`
	Details           ProcedureDetails `json:"details"`
	IndicationDate    string           `json:"indication_date"`
	ScheduledDate     string           `json:"scheduled_date"`
	Status            ProcedureStatus  `json:"status"`
	Category          string           `json:"category"`
	Observations      string           `json:"observations"`
}

// Clone returns a deep copy of the record
func (r *ProcedureRecord) Clone() *ProcedureRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// ProcedureUpdates represents a partial update to a procedure record.
// Nil fields are left untouched. Note is appended to the record's
// observations with a date stamp, never replacing prior text.
type ProcedureUpdates struct {
	ProcedureType     *ProcedureType    `json:"procedure_type,omitempty"`
	Eye               *Eye              `json:"eye,omitempty"`
	AssignedStaffID   *int              `json:"assigned_staff_id,omitempty"`
	AssignedStaffName *string           `json:"assigned_staff_name,omitempty"`
	Details           *ProcedureDetails `json:"details,omitempty"`
	ScheduledDate     *string           `json:"scheduled_date,omitempty"`
	Status            *ProcedureStatus  `json:"status,omitempty"`
	Category          *string           `json:"category,omitempty"`
	Note              string            `json:"note,omitempty"`
}

// ProcedureFilter represents structured filter criteria for record queries.
// Every criterion is optional; set criteria combine conjunctively and only
// ever narrow the caller's visible set, never widen it.
type ProcedureFilter struct {
	PatientName     string          `json:"patient_name,omitempty"`
	PatientIDNumber string          `json:"patient_id_number,omitempty"`
	Status          ProcedureStatus `json:"status,omitempty"`
	Type            ProcedureType   `json:"type,omitempty"`
	AssignedStaffID int             `json:"assigned_staff_id,omitempty"`
	FromDate        string          `json:"from_date,omitempty"`
	ToDate          string          `json:"to_date,omitempty"`
}

// dateLayouts are the accepted scheduled/indication date formats
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate parses a record date string. Parsing is fallible and explicit:
// an empty or malformed value yields ok=false rather than an error or a
// zero time that callers might mistake for a real date.
func ParseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
