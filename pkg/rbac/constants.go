package rbac

import "strings"

// Role identifies a clinic role. The six roles mirror the dashboard's
// role-specific views.
type Role string

const (
	RoleAdmin        Role = "admin"
	RolePhysician    Role = "physician"
	RoleReceptionist Role = "receptionist"
	RoleNurse        Role = "nurse"
	RoleTechnologist Role = "technologist"
	RolePatient      Role = "patient"
)

// roleAliases maps the legacy Spanish role labels still emitted by the
// session layer onto canonical roles.
var roleAliases = map[string]Role{
	"admin":         RoleAdmin,
	"administrador": RoleAdmin,
	"administrator": RoleAdmin,
	"physician":     RolePhysician,
	"medico":        RolePhysician,
	"médico":        RolePhysician,
	"doctor":        RolePhysician,
	"receptionist":  RoleReceptionist,
	"recepcionista": RoleReceptionist,
	"nurse":         RoleNurse,
	"enfermera":     RoleNurse,
	"enfermero":     RoleNurse,
	"technologist":  RoleTechnologist,
	"tecnologo":     RoleTechnologist,
	"tecnólogo":     RoleTechnologist,
	"patient":       RolePatient,
	"paciente":      RolePatient,
}

// NormalizeRole resolves a raw role string to a canonical role. Unknown
// or missing roles resolve to the least-privileged defined role so a
// bad role string fails closed, never open.
func NormalizeRole(raw string) Role {
	if role, ok := roleAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return role
	}
	return RolePatient
}

// Action identifies an operation checked by the authorization guard
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)
