package types

// Identity represents the acting user for the duration of a session.
// It is supplied by the external session/auth collaborator and treated
// as trusted input once handed over.
type Identity struct {
	ID   int    `json:"id"`
	Role string `json:"role"`
}
