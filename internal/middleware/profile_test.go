package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dimitrije/stockroom/internal/models"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProfiles struct {
	profiles map[uuid.UUID]*models.Profile
	err      error
}

func (s *stubProfiles) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.profiles[id]; ok {
		return p, nil
	}
	return nil, services.ErrProfileNotFound
}

func newProfileApp(t *testing.T, profiles ProfileGetter, adminOnly bool, seen **models.Profile) (http.Handler, *services.JWTService) {
	t.Helper()
	jwtSvc := newTestJWTService()
	app := drift.New()
	app.Use(Auth(jwtSvc))
	app.Use(Profile(profiles))
	if adminOnly {
		app.Use(RequireAdmin())
	}
	app.Get("/protected", func(c *drift.Context) {
		if seen != nil {
			*seen = GetProfile(c)
		}
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return app, jwtSvc
}

func TestProfile_LoadsCallerProfile(t *testing.T) {
	userID := uuid.New()
	profile := &models.Profile{ID: userID, OrganizationID: uuid.New(), Email: "a@example.com", Role: models.RoleUser}
	var seen *models.Profile
	app, jwtSvc := newProfileApp(t, &stubProfiles{profiles: map[uuid.UUID]*models.Profile{userID: profile}}, false, &seen)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, jwtSvc, userID, "a@example.com"))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, profile.OrganizationID, seen.OrganizationID)
}

func TestProfile_MissingProfileForbidden(t *testing.T) {
	app, jwtSvc := newProfileApp(t, &stubProfiles{}, false, nil)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, jwtSvc, uuid.New(), "a@example.com"))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "profile not found")
}

func TestProfile_LookupError(t *testing.T) {
	app, jwtSvc := newProfileApp(t, &stubProfiles{err: errors.New("connection refused")}, false, nil)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, jwtSvc, uuid.New(), "a@example.com"))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	adminID, userID := uuid.New(), uuid.New()
	orgID := uuid.New()
	profiles := &stubProfiles{profiles: map[uuid.UUID]*models.Profile{
		adminID: {ID: adminID, OrganizationID: orgID, Role: models.RoleAdmin},
		userID:  {ID: userID, OrganizationID: orgID, Role: models.RoleUser},
	}}
	app, jwtSvc := newProfileApp(t, profiles, true, nil)

	tests := []struct {
		name   string
		caller uuid.UUID
		want   int
	}{
		{"admin", adminID, http.StatusOK},
		{"user", userID, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+generateTestToken(t, jwtSvc, tt.caller, "x@example.com"))
			rec := httptest.NewRecorder()

			app.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGetProfile_NotSet(t *testing.T) {
	app := drift.New()
	var seen *models.Profile
	app.Get("/test", func(c *drift.Context) {
		seen = GetProfile(c)
		_ = c.JSON(http.StatusOK, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Nil(t, seen)
}
