package middleware

import (
	"context"
	"net/http"
	"strings"

	"investment-flow-service/pkg/response"

	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors what the identity service puts in its access tokens. The
// flow service only verifies; it never issues tokens.
type Claims struct {
	UserID        string `json:"uid"`
	Role          string `json:"role,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	secret []byte
	issuer string
}

func RequireAuth(secret []byte, issuer string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret, issuer: issuer}
}

// Middleware extracts and verifies the bearer token, then stores the
// caller's id, role and email_verified flag in the request context.
func (am *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Error(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims := &Claims{}
		opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
		if am.issuer != "" {
			opts = append(opts, jwt.WithIssuer(am.issuer))
		}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return am.secret, nil
		}, opts...)
		if err != nil || !token.Valid {
			response.Error(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if claims.UserID == "" {
			response.Error(w, http.StatusUnauthorized, "token missing subject")
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, claims.UserID)
		ctx = context.WithValue(ctx, ContextRole, claims.Role)
		ctx = context.WithValue(ctx, ContextEmailVerified, claims.EmailVerified)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
