package server

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"scribe/internal/cache"
	"scribe/internal/middleware"
	"scribe/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionIssuer   = "scribe"
	sessionAudience = "scribe-web"

	localsViewer = "viewer"
	localsUserID = "userID"
)

func (s *Server) sessionTTL() time.Duration {
	if s.config.SessionTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.config.SessionTTLHours) * time.Hour
}

// newSessionToken signs a session token for user.
func (s *Server) newSessionToken(user *models.User, now time.Time) (string, time.Time, error) {
	if s.config.SessionSecret == "" {
		return "", time.Time{}, fmt.Errorf("session secret not configured")
	}
	expires := now.Add(s.sessionTTL())
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		Issuer:    sessionIssuer,
		Audience:  jwt.ClaimStrings{sessionAudience},
		ExpiresAt: jwt.NewNumericDate(expires),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SessionSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// parseSessionToken validates signature, issuer, audience and expiry.
func (s *Server) parseSessionToken(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(s.config.SessionSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// startSession logs user in by setting the session cookie.
func (s *Server) startSession(c *fiber.Ctx, user *models.User) error {
	token, expires, err := s.newSessionToken(user, time.Now())
	if err != nil {
		return models.NewInternalError(err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		Secure:   s.config.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Locals(localsViewer, user)
	c.Locals(localsUserID, user.ID)
	return nil
}

// endSession revokes the current token, when redis is available, and clears the cookie.
func (s *Server) endSession(c *fiber.Ctx) {
	if raw := c.Cookies(s.config.SessionCookie); raw != "" {
		if claims, err := s.parseSessionToken(raw); err == nil && claims.ExpiresAt != nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			if err := cache.RevokeToken(c.UserContext(), s.redis, claims.ID, ttl); err != nil {
				middleware.Logger.WarnContext(c.UserContext(), "session revocation failed",
					slog.String("error", err.Error()))
			}
		}
	}
	s.clearSessionCookie(c)
	c.Locals(localsViewer, nil)
	c.Locals(localsUserID, nil)
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   s.config.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ResolveViewer loads the logged-in user from the session cookie. Requests without a
// valid, unrevoked session continue anonymously.
func (s *Server) ResolveViewer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(s.config.SessionCookie)
		if raw == "" {
			return c.Next()
		}

		user, err := s.viewerFromToken(c.UserContext(), raw)
		if err != nil {
			return err
		}
		if user == nil {
			s.clearSessionCookie(c)
			return c.Next()
		}

		c.Locals(localsViewer, user)
		c.Locals(localsUserID, user.ID)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))
		return c.Next()
	}
}

// viewerFromToken returns nil, nil for any token that does not identify a live user.
func (s *Server) viewerFromToken(ctx context.Context, raw string) (*models.User, error) {
	claims, err := s.parseSessionToken(raw)
	if err != nil {
		return nil, nil
	}

	revoked, err := cache.IsRevoked(ctx, s.redis, claims.ID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "session revocation check failed", slog.String("error", err.Error()))
	}
	if revoked {
		return nil, nil
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, nil
	}
	user, err := s.userRepo.GetByID(ctx, uint(id))
	if err != nil {
		if models.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// viewerFrom returns the user resolved for this request, or nil.
func viewerFrom(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsViewer).(*models.User)
	return user
}
