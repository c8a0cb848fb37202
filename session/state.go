package session

// State is the lifecycle state of a session.
type State int

const (
	// StateAnonymous means no credential material is held.
	StateAnonymous State = iota
	// StateAuthenticated means a session is live and its tokens are managed.
	StateAuthenticated
	// StateRefreshing is a transient sub-state of authenticated entered while
	// a periodic renewal is in flight. Callers still count as authenticated.
	StateRefreshing
	// StateExpired is only ever held inside a transition to anonymous; it is
	// never observable by callers.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "ANONYMOUS"
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateRefreshing:
		return "REFRESHING"
	case StateExpired:
		return "EXPIRED"
	}
	return "UNKNOWN"
}
