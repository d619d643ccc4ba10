package domain

import "context"

// Principal is the authenticated actor behind a request or connection.
type Principal struct {
	ID       string
	Username string
}

// PrincipalFromContext returns the requester stored by the auth middleware.
// ok is false for anonymous requests.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	id, _ := ctx.Value(RequesterIdCtxKey).(string)
	if id == "" {
		return Principal{}, false
	}
	username, _ := ctx.Value(RequesterUsernameCtxKey).(string)
	return Principal{ID: id, Username: username}, true
}

// DisplayName falls back to the id when no username was supplied.
func (p Principal) DisplayName() string {
	if p.Username != "" {
		return p.Username
	}
	return p.ID
}
