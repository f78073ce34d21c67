// Package authclient talks to the external auth service through the GoTrue
// client and keeps the current session in a pluggable store.
package authclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dimitrije/stockroom/internal/models"
	"github.com/google/uuid"
	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"go.uber.org/zap"
)

type Config struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	Timeout        time.Duration
}

type Client struct {
	api     gotrue.Client
	admin   gotrue.Client
	http    *http.Client
	storage SessionStorage
	events  *broker
	log     *zap.Logger

	mu      sync.RWMutex
	session *models.Session

	// serializes refresh-token exchanges
	refreshMu sync.Mutex
}

func New(cfg Config, storage SessionStorage, log *zap.Logger) *Client {
	if storage == nil {
		storage = &MemoryStorage{}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	baseURL := strings.TrimRight(cfg.URL, "/")

	c := &Client{
		api:     gotrue.New("", cfg.AnonKey).WithCustomGoTrueURL(baseURL),
		http:    &http.Client{Timeout: timeout},
		storage: storage,
		events:  newBroker(log),
		log:     log,
	}
	if cfg.ServiceRoleKey != "" {
		c.admin = gotrue.New("", cfg.ServiceRoleKey).
			WithCustomGoTrueURL(baseURL).
			WithToken(cfg.ServiceRoleKey)
	}
	return c
}

// OnAuthStateChange subscribes to sign-in, sign-out, refresh and user update events.
func (c *Client) OnAuthStateChange() *Subscription {
	return c.events.subscribe()
}

func fromUser(u types.User) *models.User {
	return &models.User{ID: u.ID, Email: u.Email, Metadata: u.UserMetadata}
}

func fromSession(s types.Session) *models.Session {
	expiresAt := time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	if s.ExpiresAt > 0 {
		expiresAt = time.Unix(s.ExpiresAt, 0)
	}
	tokenType := s.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}
	sess := &models.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    tokenType,
		ExpiresAt:    expiresAt,
	}
	if s.User.ID != uuid.Nil {
		sess.User = fromUser(s.User)
	}
	return sess
}

func (c *Client) current() *models.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) setSession(ctx context.Context, s *models.Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()

	if err := c.storage.Save(ctx, s); err != nil {
		c.log.Warn("failed to persist session", zap.Error(err))
	}
}

func (c *Client) clearSession(ctx context.Context) {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	if err := c.storage.Clear(ctx); err != nil {
		c.log.Warn("failed to clear stored session", zap.Error(err))
	}
}

// GetSession returns the stored session, refreshing it when the access token has
// expired. It returns (nil, nil) when nobody is signed in.
func (c *Client) GetSession(ctx context.Context) (*models.Session, error) {
	sess := c.current()
	if sess == nil {
		stored, err := c.storage.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		if stored == nil {
			return nil, nil
		}
		c.mu.Lock()
		c.session = stored
		c.mu.Unlock()
		sess = stored
	}

	if !sess.Expired() {
		return sess, nil
	}
	return c.RefreshSession(ctx)
}

// RefreshSession exchanges the refresh token for a new session. A rejected
// refresh token signs the user out.
func (c *Client) RefreshSession(ctx context.Context) (*models.Session, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	sess := c.current()
	if sess == nil || sess.RefreshToken == "" {
		return nil, ErrNoSession
	}

	res, err := c.bind(ctx, c.api, c.http, "").RefreshToken(sess.RefreshToken)
	err = translate(err)
	if IsStatus(err, http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden) {
		c.clearSession(ctx)
		c.events.publish(Event{Type: EventSignedOut})
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	refreshed := fromSession(res.Session)
	if refreshed.User == nil {
		refreshed.User = sess.User
	}
	c.setSession(ctx, refreshed)
	c.events.publish(Event{Type: EventTokenRefreshed, Session: refreshed})
	return refreshed, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	res, err := c.bind(ctx, c.api, c.http, "").SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, translate(err)
	}

	sess := fromSession(res.Session)
	c.setSession(ctx, sess)
	c.events.publish(Event{Type: EventSignedIn, Session: sess})
	return sess, nil
}

// SignUp registers a new identity. The session is nil when the auth service
// requires email confirmation first.
func (c *Client) SignUp(ctx context.Context, email, password string, data map[string]any) (*models.User, *models.Session, error) {
	res, err := c.bind(ctx, c.api, c.http, "").Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     data,
	})
	if err != nil {
		return nil, nil, translate(err)
	}

	if res.AccessToken != "" {
		sess := fromSession(res.Session)
		if sess.User == nil {
			sess.User = fromUser(res.User)
		}
		c.setSession(ctx, sess)
		c.events.publish(Event{Type: EventSignedIn, Session: sess})
		return sess.User, sess, nil
	}
	return fromUser(res.User), nil, nil
}

// SignOut revokes the session remotely and always clears it locally.
func (c *Client) SignOut(ctx context.Context) error {
	sess := c.current()
	if sess == nil {
		stored, err := c.storage.Load(ctx)
		if err == nil {
			sess = stored
		}
	}

	var err error
	if sess != nil {
		err = translate(c.bind(ctx, c.api.WithToken(sess.AccessToken), c.http, "").Logout())
		if IsStatus(err, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound) {
			err = nil
		}
	}

	c.clearSession(ctx)
	c.events.publish(Event{Type: EventSignedOut})
	return err
}

func (c *Client) GetUser(ctx context.Context) (*models.User, error) {
	hc, err := c.authorized(ctx)
	if err != nil {
		return nil, err
	}

	res, err := c.bind(ctx, c.api, hc, "").GetUser()
	if err != nil {
		return nil, translate(err)
	}
	return fromUser(res.User), nil
}

// UserAttributes are the fields UpdateUser may change. Data is merged into the
// user's metadata by the auth service.
type UserAttributes struct {
	Email    string
	Password string
	Data     map[string]any
}

func (c *Client) UpdateUser(ctx context.Context, attrs UserAttributes) (*models.User, error) {
	hc, err := c.authorized(ctx)
	if err != nil {
		return nil, err
	}

	req := types.UpdateUserRequest{Email: attrs.Email, Data: attrs.Data}
	if attrs.Password != "" {
		req.Password = &attrs.Password
	}
	res, err := c.bind(ctx, c.api, hc, "").UpdateUser(req)
	if err != nil {
		return nil, translate(err)
	}
	user := fromUser(res.User)

	if sess := c.current(); sess != nil {
		updated := *sess
		updated.User = user
		c.setSession(ctx, &updated)
		c.events.publish(Event{Type: EventUserUpdated, Session: &updated})
	}
	return user, nil
}

func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	err := c.bind(ctx, c.api, c.http, redirectTo).Recover(types.RecoverRequest{Email: email})
	return translate(err)
}

// InviteUserByEmail is an administrative call made with the service role key.
func (c *Client) InviteUserByEmail(ctx context.Context, email string, data map[string]any, redirectTo string) (*models.User, error) {
	if c.admin == nil {
		return nil, ErrNoServiceKey
	}

	res, err := c.bind(ctx, c.admin, c.http, redirectTo).Invite(types.InviteRequest{Email: email, Data: data})
	if err != nil {
		return nil, translate(err)
	}
	return fromUser(res.User), nil
}
