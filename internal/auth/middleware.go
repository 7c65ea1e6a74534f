// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/vitrine/internal/logging"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ContextWithClaims attaches validated claims to ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the claims of an authenticated request, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey).(*Claims)
	return claims
}

// ErrorWriter renders an authentication or authorization failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, code, message string)

func plainError(w http.ResponseWriter, _ *http.Request, status int, _, message string) {
	http.Error(w, message, status)
}

// Middleware authenticates bearer tokens and enforces the policy.
type Middleware struct {
	tokens      *TokenManager
	revocations *RevocationStore
	authorizer  *Authorizer
	writeError  ErrorWriter
}

// NewMiddleware wires token validation, revocation checks and
// authorization. A nil writeError falls back to http.Error.
func NewMiddleware(tokens *TokenManager, revocations *RevocationStore, authorizer *Authorizer, writeError ErrorWriter) *Middleware {
	if writeError == nil {
		writeError = plainError
	}
	return &Middleware{
		tokens:      tokens,
		revocations: revocations,
		authorizer:  authorizer,
		writeError:  writeError,
	}
}

// Authenticate rejects requests without a valid, unrevoked bearer token.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			m.writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		claims, err := m.claimsFor(r.Context(), token)
		if err != nil {
			m.reject(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
	})
}

// OptionalAuthenticate attaches claims when a valid bearer token is present
// and otherwise serves the request anonymously. A token that is present
// but invalid is still rejected.
func (m *Middleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.claimsFor(r.Context(), token)
		if err != nil {
			m.reject(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
	})
}

// Authorize requires an authenticated caller whose role may perform action
// on object. It must run after Authenticate.
func (m *Middleware) Authorize(object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				m.writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			allowed, err := m.authorizer.Allowed(claims.Role, object, action)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
				m.writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				return
			}
			if !allowed {
				logging.Ctx(r.Context()).Debug().
					Str("role", claims.Role).
					Str("object", object).
					Str("action", action).
					Msg("Authorization denied")
				m.writeError(w, r, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Revoke logs out the token described by claims.
func (m *Middleware) Revoke(ctx context.Context, claims *Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	return m.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (m *Middleware) claimsFor(ctx context.Context, token string) (*Claims, error) {
	claims, err := m.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTokenRevoked):
		m.writeError(w, r, http.StatusUnauthorized, "TOKEN_REVOKED", "Token has been revoked")
	case errors.Is(err, ErrInvalidToken):
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Rejected bearer token")
		m.writeError(w, r, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Token check failed")
		m.writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func withIdentity(ctx context.Context, claims *Claims) context.Context {
	ctx = ContextWithClaims(ctx, claims)
	return logging.ContextWithUserID(ctx, claims.UserID)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
