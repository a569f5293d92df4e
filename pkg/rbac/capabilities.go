package rbac

// CapabilitySet defines what a role may do with procedure records.
// "Any" capabilities apply to every record; "Own" capabilities apply
// only to records whose assigned staff member is the acting identity.
type CapabilitySet struct {
	ViewAll   bool `json:"view_all"`
	ViewOwn   bool `json:"view_own"`
	CreateAny bool `json:"create_any"`
	CreateOwn bool `json:"create_own"`
	EditAny   bool `json:"edit_any"`
	EditOwn   bool `json:"edit_own"`
	DeleteAny bool `json:"delete_any"`
	DeleteOwn bool `json:"delete_own"`
}

// capabilityMatrix is the static per-role permission table.
//
// Nurses see everything but edit nothing, and technologists see only
// their own records with no edit rights; both asymmetries are carried
// over from the clinic's access policy as-is.
var capabilityMatrix = map[Role]CapabilitySet{
	RoleAdmin: {
		ViewAll:   true,
		CreateAny: true,
		EditAny:   true,
		DeleteAny: true,
	},
	RolePhysician: {
		ViewOwn:   true,
		CreateOwn: true,
		EditOwn:   true,
		DeleteOwn: true,
	},
	RoleReceptionist: {
		ViewAll:   true,
		CreateAny: true,
		EditAny:   true,
	},
	RoleNurse: {
		ViewAll: true,
	},
	RoleTechnologist: {
		ViewOwn: true,
	},
	RolePatient: {},
}

// PermissionsFor returns the capability set for a role. The raw role
// string is normalized first, so unknown roles resolve to the empty
// patient capability set rather than anything broader.
func PermissionsFor(role string) CapabilitySet {
	return capabilityMatrix[NormalizeRole(role)]
}
