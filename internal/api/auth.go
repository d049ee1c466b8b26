package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vaheed/coursenova/internal/lib/httperr"
)

const (
	authContextKey  = contextKey("auth")
	defaultTokenTTL = 60 * time.Minute

	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

type contextKey string

type AuthContext struct {
	Subject string
	Roles   []string
}

// IssueToken signs an HS256 token carrying subject and roles.
func IssueToken(key []byte, subject string, roles []string, ttl time.Duration) (string, time.Time, error) {
	if len(key) == 0 {
		return "", time.Time{}, errors.New("signing key not configured")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := time.Now()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":   subject,
		"roles": roles,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.requireAuth {
			next.ServeHTTP(w, r)
			return
		}
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			writeError(w, http.StatusUnauthorized, httperr.Unauthorized, "missing bearer token")
			return
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
			}
			return s.signingKey, nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, httperr.Unauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeError(w, http.StatusUnauthorized, httperr.Unauthorized, "invalid token claims")
			return
		}
		roles := []string{}
		if raw, ok := claims["roles"].([]any); ok {
			for _, r := range raw {
				if str, ok := r.(string); ok {
					roles = append(roles, str)
				}
			}
		}
		subject, _ := claims["sub"].(string)
		ctx := context.WithValue(r.Context(), authContextKey, &AuthContext{
			Subject: subject,
			Roles:   roles,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) authContext(ctx context.Context) *AuthContext {
	if v, ok := ctx.Value(authContextKey).(*AuthContext); ok && v != nil {
		return v
	}
	return &AuthContext{Subject: "anonymous", Roles: []string{}}
}

// requireRole is a no-op while auth is disabled.
func (s *Server) requireRole(w http.ResponseWriter, r *http.Request, allowed ...string) bool {
	if !s.requireAuth {
		return true
	}
	auth := s.authContext(r.Context())
	for _, role := range auth.Roles {
		for _, allowedRole := range allowed {
			if role == allowedRole {
				return true
			}
		}
	}
	writeError(w, http.StatusForbidden, httperr.Forbidden, "forbidden")
	return false
}

// Request DTOs
type TokenRequest struct {
	Subject    string   `json:"subject"`
	Roles      []string `json:"roles"`
	TTLMinutes int      `json:"ttlMinutes"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request) {
	if !s.requireRole(w, r, RoleAdmin) {
		return
	}
	if len(s.signingKey) == 0 {
		writeError(w, http.StatusInternalServerError, httperr.Internal, "signing key not configured")
		return
	}
	var req TokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, httperr.BadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		writeError(w, http.StatusBadRequest, httperr.BadRequest, "subject is required")
		return
	}
	signed, exp, err := IssueToken(s.signingKey, req.Subject, req.Roles, time.Duration(req.TTLMinutes)*time.Minute)
	if err != nil {
		writeError(w, http.StatusInternalServerError, httperr.Internal, "could not sign token")
		return
	}
	writeJSON(w, http.StatusCreated, TokenResponse{Token: signed, ExpiresAt: exp})
}
