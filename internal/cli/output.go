package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dimitrije/stockroom/internal/authstate"
)

var allAreas = []authstate.Area{
	authstate.AreaDashboard,
	authstate.AreaItems,
	authstate.AreaRequests,
	authstate.AreaManage,
	authstate.AreaLocations,
	authstate.AreaUsers,
	authstate.AreaInvite,
}

func writeState(w io.Writer, st authstate.State) {
	dest := authstate.Gate(st)
	fmt.Fprintf(w, "destination:  %s\n", dest)

	if st.User != nil {
		fmt.Fprintf(w, "user:         %s (%s)\n", st.User.Email, st.User.ID)
	}
	if st.Profile != nil {
		fmt.Fprintf(w, "name:         %s\n", st.Profile.Name())
		fmt.Fprintf(w, "role:         %s\n", st.Profile.Role)
	}
	if st.Organization != nil {
		fmt.Fprintf(w, "organization: %s\n", st.Organization.Name)
	}

	switch dest {
	case authstate.DestSignIn:
		fmt.Fprintln(w, "\nNot signed in. Run `stockroom signin`.")
	case authstate.DestPasswordSetup:
		fmt.Fprintln(w, "\nYou were invited. Run `stockroom setup-password` to finish joining.")
	case authstate.DestProfilePending:
		fmt.Fprintln(w, "\nYour profile is not ready yet. Try `stockroom status` again shortly.")
	case authstate.DestApp:
		var areas []string
		for _, a := range allAreas {
			if authstate.CanEnter(st, a) {
				areas = append(areas, string(a))
			}
		}
		fmt.Fprintf(w, "areas:        %s\n", strings.Join(areas, ", "))
	}
}
