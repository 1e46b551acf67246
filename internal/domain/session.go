package domain

type SessionStatus string

const (
	SessionLoading         SessionStatus = "loading"
	SessionUnauthenticated SessionStatus = "unauthenticated"
	SessionVerifying       SessionStatus = "verifying"
	SessionAuthenticated   SessionStatus = "authenticated"
)

// Session is the gate state for the whole application. Content is only
// reachable while Status is SessionAuthenticated.
type Session struct {
	Status    SessionStatus `json:"status"`
	LastError string        `json:"last_error,omitempty"`
}

func NewSession() *Session {
	return &Session{Status: SessionLoading}
}
