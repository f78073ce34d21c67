package authstate

import (
	"context"
	"testing"

	"github.com/dimitrije/stockroom/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type loaderFixture struct {
	auth     *fakeAuth
	profiles *fakeProfiles
	orgs     *fakeOrgs
	loader   *Loader
	org      *models.Organization
}

func newLoaderFixture() *loaderFixture {
	org := &models.Organization{ID: uuid.New(), Name: "Acme"}
	f := &loaderFixture{
		auth:     newFakeAuth(),
		profiles: newFakeProfiles(),
		orgs:     &fakeOrgs{orgs: map[uuid.UUID]*models.Organization{org.ID: org}},
		org:      org,
	}
	f.loader = NewLoader(f.profiles, f.orgs, f.auth, zap.NewNop())
	return f
}

func TestLoader_ExistingProfile(t *testing.T) {
	f := newLoaderFixture()
	user := newUser(nil)
	f.profiles.put(&models.Profile{ID: user.ID, OrganizationID: f.org.ID, Role: models.RoleUser})

	out := f.loader.Load(context.Background(), user)

	require.Equal(t, OutcomeResolved, out.Kind)
	assert.Equal(t, out.Profile.OrganizationID, out.Organization.ID)
}

func TestLoader_MissingOrganizationIsNotFatal(t *testing.T) {
	f := newLoaderFixture()
	user := newUser(nil)
	f.profiles.put(&models.Profile{ID: user.ID, OrganizationID: uuid.New()})

	out := f.loader.Load(context.Background(), user)

	assert.Equal(t, OutcomeResolved, out.Kind)
	assert.NotNil(t, out.Profile)
	assert.Nil(t, out.Organization)
}

func TestLoader_InvitedUserNeedsPasswordSetup(t *testing.T) {
	f := newLoaderFixture()
	user := newUser(map[string]any{"invited_by": uuid.NewString(), "organization_id": f.org.ID.String()})
	f.auth.user = user

	out := f.loader.Load(context.Background(), user)

	assert.Equal(t, OutcomeNeedsPasswordSetup, out.Kind)
	assert.Nil(t, out.Profile)
	assert.Equal(t, 0, f.profiles.creates)
}

func TestLoader_UsesFreshMetadata(t *testing.T) {
	f := newLoaderFixture()
	stale := newUser(nil)
	fresh := *stale
	fresh.Metadata = map[string]any{"invited_by": uuid.NewString()}
	f.auth.user = &fresh

	out := f.loader.Load(context.Background(), stale)

	assert.Equal(t, OutcomeNeedsPasswordSetup, out.Kind)
}

func TestLoader_ProvisionsOrgMember(t *testing.T) {
	f := newLoaderFixture()
	user := newUser(map[string]any{"organization_id": f.org.ID.String()})
	f.auth.user = user

	out := f.loader.Load(context.Background(), user)

	require.Equal(t, OutcomeResolved, out.Kind)
	assert.Equal(t, f.org.ID, out.Profile.OrganizationID)
	assert.Equal(t, "ana", *out.Profile.DisplayName)
	assert.Equal(t, models.RoleUser, out.Profile.Role)
	assert.Equal(t, f.org, out.Organization)

	stored, err := f.profiles.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, f.org.ID, stored.OrganizationID)
}

func TestLoader_ProvisionFailureLeavesUnresolved(t *testing.T) {
	f := newLoaderFixture()
	user := newUser(map[string]any{"organization_id": f.org.ID.String()})
	f.auth.user = user
	f.profiles.createErrs = []error{assert.AnError}

	out := f.loader.Load(context.Background(), user)

	assert.Equal(t, OutcomeUnresolved, out.Kind)
	assert.ErrorIs(t, out.Err, assert.AnError)
	assert.Equal(t, 1, f.profiles.creates)
}

func TestLoader_NoMetadataLeavesUnresolved(t *testing.T) {
	f := newLoaderFixture()
	user := newUser(nil)
	f.auth.user = user

	out := f.loader.Load(context.Background(), user)

	assert.Equal(t, OutcomeUnresolved, out.Kind)
	assert.NoError(t, out.Err)
}

func TestLoader_ReadFailureDoesNotProvision(t *testing.T) {
	f := newLoaderFixture()
	user := newUser(map[string]any{"organization_id": f.org.ID.String()})
	f.auth.user = user
	f.profiles.getErr = assert.AnError

	out := f.loader.Load(context.Background(), user)

	assert.Equal(t, OutcomeFailed, out.Kind)
	assert.ErrorIs(t, out.Err, assert.AnError)
	assert.Equal(t, 0, f.profiles.creates)
}
