package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/dimitrije/stockroom/internal/models"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	ProfileKey   = "profile"
)

type ProfileGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

func Auth(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UserEmailKey, claims.Email)

		c.Next()
	}
}

// Profile loads the caller's profile. Must run after Auth.
func Profile(profiles ProfileGetter) drift.HandlerFunc {
	return func(c *drift.Context) {
		userID := GetUserID(c)
		if userID == uuid.Nil {
			c.Unauthorized("unauthorized")
			return
		}

		profile, err := profiles.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrProfileNotFound) {
				c.Forbidden("profile not found")
				return
			}
			c.InternalServerError("failed to load profile")
			return
		}

		c.Set(ProfileKey, profile)
		c.Next()
	}
}

func RequireAdmin() drift.HandlerFunc {
	return func(c *drift.Context) {
		if !GetProfile(c).IsAdmin() {
			c.Forbidden("admin access required")
			return
		}
		c.Next()
	}
}

func GetUserID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(UserIDKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid
		}
	}
	return uuid.Nil
}

func GetUserEmail(c *drift.Context) string {
	if email, ok := c.Get(UserEmailKey); ok {
		if e, ok := email.(string); ok {
			return e
		}
	}
	return ""
}

func GetProfile(c *drift.Context) *models.Profile {
	if v, ok := c.Get(ProfileKey); ok {
		if p, ok := v.(*models.Profile); ok {
			return p
		}
	}
	return nil
}
