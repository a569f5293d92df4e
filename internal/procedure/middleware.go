package procedure

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pzepeda90/MedClock-sub002/pkg/types"
)

type contextKey string

const (
	identityContextKey  contextKey = "identity"
	requestIDContextKey contextKey = "request_id"
)

// sessionClaims are the claims the external auth collaborator places in
// session tokens. This service only verifies and decodes; it never
// issues tokens or validates credentials.
type sessionClaims struct {
	StaffID int    `json:"staff_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// identityMiddleware extracts the acting identity from the bearer token.
// Requests without a valid token are rejected before reaching the core.
func (s *Service) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			s.writeErrorResponse(w, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}

		identity, err := s.parseSessionToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			s.writeErrorResponse(w, http.StatusUnauthorized, "invalid session token", err)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseSessionToken verifies the HMAC signature and decodes the identity
func (s *Service) parseSessionToken(tokenString string) (*types.Identity, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("session token is not valid")
	}

	return &types.Identity{
		ID:   claims.StaffID,
		Role: claims.Role,
	}, nil
}

// identityFromRequest returns the identity placed in the request context
// by identityMiddleware.
func identityFromRequest(r *http.Request) *types.Identity {
	identity, _ := r.Context().Value(identityContextKey).(*types.Identity)
	return identity
}

// requestIDMiddleware tags every request with a correlation id and logs
// its completion.
func (s *Service) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
		next.ServeHTTP(rec, r.WithContext(ctx))

		s.logger.HTTPRequest(r.Method, r.URL.Path, requestID, rec.status, time.Since(start).Milliseconds())
	})
}

// statusWriter captures the response status for request logging
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
