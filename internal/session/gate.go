package session

import "github.com/yyc-track/trackctl/internal/api"

// State is the gate's closed three-state machine. A mount starts pending and
// settles to authorized or unauthorized once resolution finishes; it
// re-settles live if the session changes (e.g. logout while mounted).
type State int

const (
	// StatePending means resolution has not finished. "State unknown", not
	// "logged out": render a neutral placeholder and nothing else.
	StatePending State = iota

	// StateAuthorized means an identity is present; the protected surface
	// may proceed unchanged.
	StateAuthorized

	// StateUnauthorized means resolution finished with no identity; the
	// caller must divert to the realm's login route with no residual
	// protected output.
	StateUnauthorized
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAuthorized:
		return "authorized"
	case StateUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Snapshot is the session state the gate evaluates.
type Snapshot struct {
	Identity *api.Identity
	Loading  bool
}

// Decision is a gate outcome. LoginRoute is set only when unauthorized.
type Decision struct {
	State      State
	LoginRoute string
}

// Evaluate is a pure function of the snapshot. The gate performs no network
// calls and no error handling; it only reacts to session state.
func Evaluate(snap Snapshot, loginRoute string) Decision {
	switch {
	case snap.Loading:
		return Decision{State: StatePending}
	case snap.Identity == nil:
		return Decision{State: StateUnauthorized, LoginRoute: loginRoute}
	default:
		return Decision{State: StateAuthorized}
	}
}

// Gate evaluates the store's current snapshot against its login route.
func (s *Store) Gate() Decision {
	return Evaluate(s.Snapshot(), s.cfg.LoginRoute)
}
