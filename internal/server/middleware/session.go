// Package middleware provides HTTP middleware for browser sessions.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// sessionIDKey is the context key for storing the session ID.
const sessionIDKey ContextKey = "sessionID"

// TokenService issues and validates session tokens.
// This allows the middleware to work with any token implementation.
type TokenService interface {
	GenerateToken(sessionID uuid.UUID) (string, error)
	ValidateToken(tokenString string) (SessionClaims, error)
}

// SessionClaims exposes what the middleware needs from validated token claims.
type SessionClaims interface {
	GetSessionID() uuid.UUID
	// GetExpiry returns the token expiry. The zero time means it never expires.
	GetExpiry() time.Time
}

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
	// RefreshWithin re-issues a valid token for the same session once it expires
	// within this window. Zero means half of MaxAge.
	RefreshWithin time.Duration
}

func (o CookieOptions) refreshWithin() time.Duration {
	if o.RefreshWithin > 0 {
		return o.RefreshWithin
	}
	return o.MaxAge / 2
}

// Session attaches a session ID to every request. A missing, invalid or expired
// cookie starts a new session and sets a fresh cookie. A valid cookie close to
// expiry is replaced with a new token for the same session, so active users keep
// their session.
func Session(tokens TokenService, opts CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(opts.Name); err == nil && cookie.Value != "" {
				if claims, err := tokens.ValidateToken(cookie.Value); err == nil {
					sessionID := claims.GetSessionID()
					if exp := claims.GetExpiry(); !exp.IsZero() && time.Until(exp) < opts.refreshWithin() {
						// Keep serving the current token if re-signing fails.
						if token, err := tokens.GenerateToken(sessionID); err == nil {
							setCookie(w, opts, token)
						}
					}
					next.ServeHTTP(w, WithSessionID(r, sessionID))
					return
				}
			}

			sessionID := uuid.New()
			token, err := tokens.GenerateToken(sessionID)
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			setCookie(w, opts, token)
			next.ServeHTTP(w, WithSessionID(r, sessionID))
		})
	}
}

func setCookie(w http.ResponseWriter, opts CookieOptions, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithSessionID returns a copy of r carrying sessionID.
func WithSessionID(r *http.Request, sessionID uuid.UUID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionIDKey, sessionID))
}

// GetSessionID extracts the session ID from the request context.
func GetSessionID(r *http.Request) (uuid.UUID, error) {
	sessionID, ok := r.Context().Value(sessionIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("session ID not found in request context")
	}
	return sessionID, nil
}
