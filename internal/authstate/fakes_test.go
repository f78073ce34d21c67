package authstate

import (
	"context"
	"sync"

	"github.com/dimitrije/stockroom/internal/authclient"
	"github.com/dimitrije/stockroom/internal/models"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/google/uuid"
)

type fakeAuth struct {
	mu         sync.Mutex
	session    *models.Session
	sessionErr error
	user       *models.User
	userErr    error
	updateErr  error
	updates    []authclient.UserAttributes

	// hold, when set, delays GetSession until it is closed, ignoring ctx.
	hold chan struct{}
	// hang makes GetSession block until ctx is done.
	hang bool

	events       chan authclient.Event
	subscribed   int
	unsubscribed bool
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{events: make(chan authclient.Event, 16)}
}

func (f *fakeAuth) GetSession(ctx context.Context) (*models.Session, error) {
	f.mu.Lock()
	hold, hang := f.hold, f.hang
	f.mu.Unlock()

	if hold != nil {
		<-hold
	}
	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.sessionErr
}

func (f *fakeAuth) GetUser(context.Context) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userErr != nil {
		return nil, f.userErr
	}
	if f.user == nil {
		return nil, authclient.ErrNoSession
	}
	u := *f.user
	return &u, nil
}

func (f *fakeAuth) UpdateUser(_ context.Context, attrs authclient.UserAttributes) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, attrs)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	meta := map[string]any{}
	for k, v := range f.user.Metadata {
		meta[k] = v
	}
	for k, v := range attrs.Data {
		meta[k] = v
	}
	f.user.Metadata = meta
	u := *f.user
	return &u, nil
}

func (f *fakeAuth) OnAuthStateChange() *authclient.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed++
	return authclient.NewSubscription(f.events, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unsubscribed = true
		close(f.events)
	})
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.Profile
	getErr   error
	// createErrs are returned by successive Create calls before succeeding.
	createErrs []error
	creates    int
	// gate, when set, delays GetByID until it is closed.
	gate chan struct{}
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: map[uuid.UUID]*models.Profile{}}
}

func (f *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, services.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) Create(_ context.Context, p *models.Profile) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return nil, err
	}
	if _, ok := f.profiles[p.ID]; ok {
		return nil, services.ErrProfileExists
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return &cp, nil
}

func (f *fakeProfiles) put(p *models.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.ID] = p
}

func (f *fakeProfiles) remove(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.profiles, id)
}

func (f *fakeProfiles) failReads(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr = err
}

type fakeOrgs struct {
	orgs map[uuid.UUID]*models.Organization
}

func (f *fakeOrgs) GetByID(_ context.Context, id uuid.UUID) (*models.Organization, error) {
	o, ok := f.orgs[id]
	if !ok {
		return nil, services.ErrOrganizationNotFound
	}
	return o, nil
}

func newUser(meta map[string]any) *models.User {
	return &models.User{ID: uuid.New(), Email: "ana@example.com", Metadata: meta}
}

func sessionFor(u *models.User) *models.Session {
	return &models.Session{AccessToken: "access", RefreshToken: "refresh", TokenType: "bearer", User: u}
}
