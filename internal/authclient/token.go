package authclient

import (
	"context"
	"net/http"

	gotrue "github.com/supabase-community/gotrue-go"
	"golang.org/x/oauth2"
)

// refreshSource hands oauth2 a fresh token whenever the cached one expires.
type refreshSource struct {
	ctx context.Context
	c   *Client
}

func (s *refreshSource) Token() (*oauth2.Token, error) {
	sess, err := s.c.RefreshSession(s.ctx)
	if err != nil {
		return nil, err
	}
	return sess.Token(), nil
}

// authorized returns an HTTP client that sends the session's access token and
// refreshes it transparently.
func (c *Client) authorized(ctx context.Context) (*http.Client, error) {
	sess := c.current()
	if sess == nil {
		var err error
		if sess, err = c.GetSession(ctx); err != nil {
			return nil, err
		}
		if sess == nil {
			return nil, ErrNoSession
		}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	ts := oauth2.ReuseTokenSource(sess.Token(), &refreshSource{ctx: ctx, c: c})
	return oauth2.NewClient(ctx, ts), nil
}

// boundTransport attaches the caller's context to every request the GoTrue
// client builds, and the redirect_to query for calls that send an email link.
type boundTransport struct {
	ctx        context.Context
	base       http.RoundTripper
	redirectTo string
}

func (t *boundTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(t.ctx)
	if t.redirectTo != "" {
		q := req.URL.Query()
		q.Set("redirect_to", t.redirectTo)
		req.URL.RawQuery = q.Encode()
	}
	return t.base.RoundTrip(req)
}

// bind returns a copy of api that sends through hc for the duration of ctx.
func (c *Client) bind(ctx context.Context, api gotrue.Client, hc *http.Client, redirectTo string) gotrue.Client {
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return api.WithClient(http.Client{
		Transport: &boundTransport{ctx: ctx, base: base, redirectTo: redirectTo},
		Timeout:   c.http.Timeout,
	})
}
