package authstate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dimitrije/stockroom/internal/authclient"
	"github.com/dimitrije/stockroom/internal/models"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultBootstrapTimeout = 6 * time.Second

// AuthService is the part of the auth client the manager depends on.
type AuthService interface {
	UserFetcher
	GetSession(ctx context.Context) (*models.Session, error)
	UpdateUser(ctx context.Context, attrs authclient.UserAttributes) (*models.User, error)
	OnAuthStateChange() *authclient.Subscription
}

type Manager struct {
	auth     AuthService
	profiles ProfileRepository
	loader   *Loader
	store    *Store
	timeout  time.Duration
	log      *zap.Logger

	started   atomic.Bool
	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
	sub       *authclient.Subscription
	wg        sync.WaitGroup
	inflight  *inflight
	// barrier asks the listener to handle every queued event and then close
	// the given channel.
	barrier    chan chan struct{}
	listenDone chan struct{}
}

// inflight counts bootstrap and loader work. idle is closed while the count
// is zero.
type inflight struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

func newInflight() *inflight {
	idle := make(chan struct{})
	close(idle)
	return &inflight{idle: idle}
}

func (f *inflight) add() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.n == 0 {
		f.idle = make(chan struct{})
	}
	f.n++
}

func (f *inflight) done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n--
	if f.n == 0 {
		close(f.idle)
	}
}

func (f *inflight) wait() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.idle
}

func NewManager(auth AuthService, profiles ProfileRepository, orgs OrganizationRepository, bootstrapTimeout time.Duration, log *zap.Logger) *Manager {
	if bootstrapTimeout <= 0 {
		bootstrapTimeout = DefaultBootstrapTimeout
	}
	log = log.With(zap.String("component", "authstate"))
	return &Manager{
		auth:     auth,
		profiles: profiles,
		loader:   NewLoader(profiles, orgs, auth, log),
		store:    NewStore(log),
		timeout:  bootstrapTimeout,
		log:      log,

		inflight:   newInflight(),
		barrier:    make(chan chan struct{}),
		listenDone: make(chan struct{}),
	}
}

func (m *Manager) Store() *Store {
	return m.store
}

func (m *Manager) State() State {
	return m.store.State()
}

// Start subscribes to auth events and restores the persisted session in the
// background. It may be called once.
func (m *Manager) Start(ctx context.Context) error {
	if !m.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	m.ctx, m.cancel = context.WithCancel(ctx)

	m.sub = m.auth.OnAuthStateChange()
	m.wg.Add(1)
	go m.listen()

	m.bootstrap()
	return nil
}

func (m *Manager) bootstrap() {
	epoch := m.store.Epoch()
	fetchCtx, cancelFetch := context.WithCancel(m.ctx)

	timer := time.AfterFunc(m.timeout, func() {
		cancelFetch()
		if _, ok := m.store.Dispatch(Action{Kind: ActionBootstrapTimedOut}); ok {
			m.log.Warn("session restore timed out, continuing signed out", zap.Duration("timeout", m.timeout))
		}
	})

	m.inflight.add()
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.inflight.done()
		defer cancelFetch()

		sess, err := m.auth.GetSession(fetchCtx)
		timer.Stop()
		if err != nil {
			m.log.Warn("failed to restore session", zap.Error(err))
			sess = nil
		}

		next, ok := m.store.Dispatch(Action{Kind: ActionSessionRestored, Epoch: epoch, Session: sess})
		if !ok {
			m.log.Debug("session restore result discarded")
			return
		}
		if sess != nil && sess.User != nil {
			m.loadAsync(sess.User, next)
		}
	}()
}

func (m *Manager) listen() {
	defer m.wg.Done()
	defer close(m.listenDone)
	for {
		select {
		case <-m.ctx.Done():
			return
		case ack := <-m.barrier:
			open := m.drain()
			close(ack)
			if !open {
				return
			}
		case ev, ok := <-m.sub.Events:
			if !ok {
				return
			}
			m.handle(ev)
		}
	}
}

// drain handles every event already queued on the subscription. It reports
// false once the subscription is closed.
func (m *Manager) drain() bool {
	for {
		select {
		case ev, ok := <-m.sub.Events:
			if !ok {
				return false
			}
			m.handle(ev)
		default:
			return true
		}
	}
}

func (m *Manager) handle(ev authclient.Event) {
	switch ev.Type {
	case authclient.EventSignedOut:
		m.store.Dispatch(Action{Kind: ActionSignedOut})

	case authclient.EventSignedIn, authclient.EventTokenRefreshed, authclient.EventUserUpdated:
		if ev.Session == nil || ev.Session.User == nil {
			m.log.Warn("auth event without session", zap.String("event", string(ev.Type)))
			return
		}
		epoch, ok := m.store.Dispatch(Action{Kind: ActionSignedIn, Session: ev.Session})
		if ok {
			m.loadAsync(ev.Session.User, epoch)
		}

	default:
		m.log.Debug("ignoring auth event", zap.String("event", string(ev.Type)))
	}
}

func (m *Manager) loadAsync(user *models.User, epoch uint64) {
	m.inflight.add()
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.inflight.done()
		m.apply(m.loader.Load(m.ctx, user), user.ID, epoch)
	}()
}

func (m *Manager) apply(out Outcome, userID uuid.UUID, epoch uint64) {
	switch out.Kind {
	case OutcomeResolved:
		m.store.Dispatch(Action{Kind: ActionProfileLoaded, Epoch: epoch, Profile: out.Profile, Organization: out.Organization})
	case OutcomeNeedsPasswordSetup:
		m.store.Dispatch(Action{Kind: ActionPasswordSetupRequired, Epoch: epoch, UserID: userID})
	case OutcomeUnresolved:
		m.store.Dispatch(Action{Kind: ActionProfileUnresolved, Epoch: epoch, UserID: userID})
	case OutcomeFailed:
		// A failed read says nothing about the profile; keep what we have.
	}
}

// Refresh re-runs the profile loader for the current user. Concurrent loader
// runs under the same session are last-write-wins.
func (m *Manager) Refresh(ctx context.Context) error {
	st := m.store.State()
	if st.User == nil {
		return ErrNotAuthenticated
	}
	epoch := m.store.Epoch()

	out := m.loader.Load(ctx, st.User)
	m.apply(out, st.User.ID, epoch)
	if out.Kind == OutcomeFailed {
		return out.Err
	}
	return nil
}

// CompletePasswordSetup sets the invited user's password and creates their
// profile. The two steps are not atomic; a failed profile insert leaves the
// invite metadata in place so the flow can be repeated.
func (m *Manager) CompletePasswordSetup(ctx context.Context, password, displayName string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	sess, err := m.auth.GetSession(ctx)
	if err != nil || sess == nil || sess.User == nil {
		return ErrNotAuthenticated
	}

	attrs := authclient.UserAttributes{Password: password}
	if displayName != "" {
		attrs.Data = map[string]any{models.MetaDisplayName: displayName}
	}
	user, err := m.auth.UpdateUser(ctx, attrs)
	if err != nil {
		return err
	}

	orgID, err := uuid.Parse(user.MetaString(models.MetaOrganizationID))
	if err != nil {
		return ErrNoOrganization
	}

	name := displayName
	if name == "" {
		name = user.MetaString(models.MetaDisplayName)
	}
	if name == "" {
		name = EmailLocalPart(user.Email)
	}

	profile, err := m.profiles.Create(ctx, &models.Profile{
		ID:             user.ID,
		OrganizationID: orgID,
		Email:          user.Email,
		DisplayName:    &name,
		Role:           models.ParseRole(user.MetaString(models.MetaInvitedRole)),
	})
	if errors.Is(err, services.ErrProfileExists) {
		m.log.Info("profile already exists, finishing setup", zap.String("user_id", user.ID.String()))
		profile, err = nil, nil
	}
	if err != nil {
		return err
	}

	epoch, ok := m.store.Dispatch(Action{Kind: ActionPasswordSetupCompleted, UserID: user.ID, Profile: profile})
	if !ok {
		return nil
	}
	m.apply(m.loader.Load(ctx, user), user.ID, epoch)
	return nil
}

// Settled waits until the state is initialized, every auth event queued before
// the call has been handled and no bootstrap or loader work is in flight.
func (m *Manager) Settled(ctx context.Context) (State, error) {
	if m.started.Load() {
		ack := make(chan struct{})
		select {
		case m.barrier <- ack:
			select {
			case <-ack:
			case <-ctx.Done():
				return m.store.State(), ctx.Err()
			}
		case <-m.listenDone:
		case <-ctx.Done():
			return m.store.State(), ctx.Err()
		}
	}

	updates, stop := m.store.Watch()
	defer stop()

	for {
		idle := m.inflight.wait()
		select {
		case <-idle:
			if st := m.store.State(); st.Initialized {
				return st, nil
			}
			// idle but not initialized: only a state change can help
			idle = nil
		default:
		}

		select {
		case <-ctx.Done():
			return m.store.State(), ctx.Err()
		case _, ok := <-updates:
			if !ok {
				return m.store.State(), nil
			}
		case <-idle:
		}
	}
}

// Close stops the listener, cancels in-flight work and waits for it. Results
// arriving afterwards are ignored.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.store.Close()
		if m.cancel != nil {
			m.cancel()
		}
		if m.sub != nil {
			m.sub.Unsubscribe()
		}
		m.wg.Wait()
	})
}
