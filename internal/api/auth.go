package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role allowed to trigger runs.
const RoleAdmin = "admin"

// AdminClaims is the JWT payload of an admin bearer token.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type contextKey string

const ctxKeySubject contextKey = "admin_subject"

// MintAdminToken signs an HS256 admin token for subject valid for ttl.
func MintAdminToken(secret, subject string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("api: empty signing secret")
	}
	claims := AdminClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("api: sign admin token: %w", err)
	}
	return signed, nil
}

// requireAdmin is chi middleware that validates the bearer token. A missing,
// malformed, expired or wrongly signed token is a 401; a valid token without
// the admin role is a 403.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			respondErr(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims := &AdminClaims{}
		_, err := jwt.ParseWithClaims(raw, claims,
			func(*jwt.Token) (any, error) { return []byte(s.cfg.AdminJWTSecret), nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		)
		if err != nil {
			s.logger.Warn("api: rejected admin token", "error", err, logField(r))
			respondErr(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		if claims.Role != RoleAdmin {
			respondErr(w, http.StatusForbidden, "admin role required")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeySubject, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminSubject returns the sub claim of the verified token, if any.
func adminSubject(ctx context.Context) string {
	sub, _ := ctx.Value(ctxKeySubject).(string)
	return sub
}
