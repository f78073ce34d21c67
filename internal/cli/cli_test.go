package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dimitrije/stockroom/internal/authclient"
	"github.com/dimitrije/stockroom/internal/authstate"
	"github.com/dimitrije/stockroom/internal/config"
	"github.com/dimitrije/stockroom/internal/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes args against a command tree whose runtime must never be opened.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := noRuntimeApp(t, nil).rootCmd()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestNewRootCmd_Commands(t *testing.T) {
	root := NewRootCmd("test")

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"signin", "signup", "signout", "status", "create-org", "setup-password", "reset-password", "invite-link"} {
		assert.Contains(t, names, want)
	}
}

func TestInviteLink(t *testing.T) {
	orgID := uuid.New()

	out, err := run(t, "invite-link", "https://app.example.com/invite?org="+orgID.String())
	require.NoError(t, err)
	assert.Contains(t, out, orgID.String())

	out, err = run(t, "invite-link", "https://app.example.com/invite#error=access_denied&error_code=otp_expired&error_description=Email+link+is+invalid+or+has+expired")
	require.NoError(t, err)
	assert.Contains(t, out, "expired")
	assert.Contains(t, out, "Email link is invalid or has expired")

	_, err = run(t, "invite-link", "https://app.example.com/invite?org=nope")
	assert.Error(t, err)
}

func TestValidationHappensBeforeAnyCall(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"signin without password", []string{"signin", "--email", "a@x.com"}, "email and password are required"},
		{"signup short password", []string{"signup", "--email", "a@x.com", "--password", "abc", "--confirm", "abc"}, authstate.ErrPasswordTooShort.Error()},
		{"signup mismatch", []string{"signup", "--email", "a@x.com", "--password", "secret1", "--confirm", "secret2"}, authstate.ErrPasswordMismatch.Error()},
		{"setup mismatch", []string{"setup-password", "--password", "secret1", "--confirm", "secret2"}, authstate.ErrPasswordMismatch.Error()},
		{"reset without email", []string{"reset-password"}, "email is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opened := false
			root := noRuntimeApp(t, &opened).rootCmd()

			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(tt.args)

			err := root.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.False(t, opened)
		})
	}
}

func TestWriteState(t *testing.T) {
	orgID := uuid.New()
	user := &models.User{ID: uuid.New(), Email: "admin@example.com"}

	tests := []struct {
		name  string
		state authstate.State
		want  []string
	}{
		{
			name:  "signed out",
			state: authstate.State{Initialized: true},
			want:  []string{"destination:  sign-in", "stockroom signin"},
		},
		{
			name:  "invited",
			state: authstate.State{Initialized: true, User: user, NeedsPasswordSetup: true},
			want:  []string{"destination:  password-setup", "setup-password"},
		},
		{
			name: "admin",
			state: authstate.State{
				Initialized:  true,
				User:         user,
				Profile:      &models.Profile{ID: user.ID, OrganizationID: orgID, Email: user.Email, Role: models.RoleAdmin},
				Organization: &models.Organization{ID: orgID, Name: "Acme"},
			},
			want: []string{"destination:  app", "organization: Acme", "role:         admin", "users", "invite"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writeState(&buf, tt.state)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestWriteState_UserAreas(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "u@example.com"}
	st := authstate.State{
		Initialized: true,
		User:        user,
		Profile:     &models.Profile{ID: user.ID, Email: user.Email, Role: models.RoleUser},
	}

	var buf bytes.Buffer
	writeState(&buf, st)

	assert.Contains(t, buf.String(), "areas:        dashboard, items, requests\n")
}

func TestNewSessionStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s, closeFn, err := newSessionStorage(&config.ClientConfig{SessionStore: "file", SessionFile: path})
	require.NoError(t, err)
	assert.Nil(t, closeFn)
	assert.IsType(t, &authclient.FileStorage{}, s)

	s, closeFn, err = newSessionStorage(&config.ClientConfig{SessionStore: "redis", RedisAddr: "localhost:6379"})
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	closeFn()
	assert.IsType(t, &authclient.RedisStorage{}, s)

	_, _, err = newSessionStorage(&config.ClientConfig{SessionStore: "redis"})
	assert.Error(t, err)

	_, _, err = newSessionStorage(&config.ClientConfig{SessionStore: "memcached"})
	assert.Error(t, err)
}

func noRuntimeApp(t *testing.T, opened *bool) *app {
	t.Helper()
	return &app{
		version: "test",
		timeout: time.Second,
		open: func(*cobra.Command, bool) (*runtime, error) {
			if opened != nil {
				*opened = true
			}
			return nil, errors.New("runtime opened unexpectedly")
		},
	}
}
