// Package authstate holds the client's view of who is signed in: the session,
// the user's profile and organization, and the flags the redirect gate reads.
package authstate

import (
	"github.com/dimitrije/stockroom/internal/models"
	"github.com/google/uuid"
)

type State struct {
	Session            *models.Session
	User               *models.User
	Profile            *models.Profile
	Organization       *models.Organization
	Initialized        bool
	NeedsPasswordSetup bool
}

func (s State) IsAdmin() bool {
	return s.Profile.IsAdmin()
}

type ActionKind string

const (
	ActionSessionRestored        ActionKind = "SESSION_RESTORED"
	ActionBootstrapTimedOut      ActionKind = "BOOTSTRAP_TIMED_OUT"
	ActionSignedIn               ActionKind = "SIGNED_IN"
	ActionSignedOut              ActionKind = "SIGNED_OUT"
	ActionProfileLoaded          ActionKind = "PROFILE_LOADED"
	ActionProfileUnresolved      ActionKind = "PROFILE_UNRESOLVED"
	ActionPasswordSetupRequired  ActionKind = "PASSWORD_SETUP_REQUIRED"
	ActionPasswordSetupCompleted ActionKind = "PASSWORD_SETUP_COMPLETED"
)

// Action is the only way to change State. Epoch is the store epoch the work
// producing the action started under; results from an older epoch are stale.
type Action struct {
	Kind         ActionKind
	Epoch        uint64
	Session      *models.Session
	Profile      *models.Profile
	Organization *models.Organization
	UserID       uuid.UUID
}

// Reduce applies a to cur. It returns the next state, the next epoch and whether
// the action was applied. Actions that replace the session advance the epoch so
// that in-flight loader and bootstrap results for the old session are dropped.
func Reduce(cur State, epoch uint64, a Action) (State, uint64, bool) {
	switch a.Kind {
	case ActionSessionRestored:
		if a.Epoch != epoch {
			return cur, epoch, false
		}
		next := State{Initialized: true}
		if a.Session != nil {
			next.Session = a.Session
			next.User = a.Session.User
		}
		return next, epoch + 1, true

	case ActionBootstrapTimedOut:
		if cur.Initialized {
			return cur, epoch, false
		}
		cur.Initialized = true
		return cur, epoch + 1, true

	case ActionSignedIn:
		if a.Session == nil || a.Session.User == nil {
			return cur, epoch, false
		}
		next := State{
			Session:     a.Session,
			User:        a.Session.User,
			Initialized: true,
		}
		if cur.User != nil && cur.User.ID == a.Session.User.ID {
			next.Profile = cur.Profile
			next.Organization = cur.Organization
			next.NeedsPasswordSetup = cur.NeedsPasswordSetup
		}
		return next, epoch + 1, true

	case ActionSignedOut:
		return State{Initialized: true}, epoch + 1, true

	case ActionProfileLoaded:
		if a.Epoch != epoch || cur.User == nil || a.Profile == nil || a.Profile.ID != cur.User.ID {
			return cur, epoch, false
		}
		cur.Profile = a.Profile
		cur.Organization = a.Organization
		cur.NeedsPasswordSetup = false
		return cur, epoch, true

	case ActionProfileUnresolved:
		if a.Epoch != epoch || cur.User == nil || a.UserID != cur.User.ID {
			return cur, epoch, false
		}
		cur.Profile = nil
		cur.Organization = nil
		cur.NeedsPasswordSetup = false
		return cur, epoch, true

	case ActionPasswordSetupRequired:
		if a.Epoch != epoch || cur.User == nil || a.UserID != cur.User.ID {
			return cur, epoch, false
		}
		cur.Profile = nil
		cur.Organization = nil
		cur.NeedsPasswordSetup = true
		return cur, epoch, true

	case ActionPasswordSetupCompleted:
		if cur.User == nil || a.UserID != cur.User.ID {
			return cur, epoch, false
		}
		cur.NeedsPasswordSetup = false
		if a.Profile != nil {
			cur.Profile = a.Profile
		}
		return cur, epoch + 1, true
	}
	return cur, epoch, false
}
