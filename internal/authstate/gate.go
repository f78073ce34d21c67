package authstate

// Destination is the screen stack a state is allowed to reach.
type Destination int

const (
	DestLoading Destination = iota
	DestSignIn
	DestPasswordSetup
	DestProfilePending
	DestApp
)

func (d Destination) String() string {
	switch d {
	case DestLoading:
		return "loading"
	case DestSignIn:
		return "sign-in"
	case DestPasswordSetup:
		return "password-setup"
	case DestProfilePending:
		return "profile-pending"
	case DestApp:
		return "app"
	}
	return "unknown"
}

func Gate(s State) Destination {
	switch {
	case !s.Initialized:
		return DestLoading
	case s.User == nil:
		return DestSignIn
	case s.NeedsPasswordSetup:
		return DestPasswordSetup
	case s.Profile == nil:
		return DestProfilePending
	}
	return DestApp
}

type Area string

const (
	AreaDashboard Area = "dashboard"
	AreaItems     Area = "items"
	AreaRequests  Area = "requests"
	AreaManage    Area = "manage-items"
	AreaLocations Area = "locations"
	AreaUsers     Area = "users"
	AreaInvite    Area = "invite"
)

func (a Area) AdminOnly() bool {
	switch a {
	case AreaManage, AreaLocations, AreaUsers, AreaInvite:
		return true
	}
	return false
}

// CanEnter reports whether the state may open area.
func CanEnter(s State, a Area) bool {
	if Gate(s) != DestApp {
		return false
	}
	return !a.AdminOnly() || s.IsAdmin()
}
