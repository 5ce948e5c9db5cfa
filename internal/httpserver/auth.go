// internal/httpserver/auth.go
//
// Admin authentication for score moderation.
//   - POST /auth/token {password} → {token, expiresAt}; the password is
//     checked with bcrypt against ADMIN_PASSWORD_HASH.
//   - requireAdmin guards routes with "Authorization: Bearer <token>".
//
// With no ADMIN_PASSWORD_HASH configured no token can ever be issued.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const adminTokenTTL = 12 * time.Hour

type tokenReq struct {
	Password string `json:"password"`
}

type tokenRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) mountAuth(r chi.Router) {
	r.Post("/auth/token", s.handleToken)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if s.env.AdminPasswordHash == "" {
		writeError(w, http.StatusServiceUnavailable, "admin_disabled")
		return
	}
	var req tokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if !checkPassword(s.env.AdminPasswordHash, req.Password) {
		log.Warn().Str("ip", r.RemoteAddr).Msg("admin login failed")
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	tok, exp, err := s.signAdminJWT()
	if err != nil {
		log.Error().Err(err).Msg("sign admin token")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, tokenRes{Token: tok, ExpiresAt: exp})
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func (s *Server) jwtSecret() []byte {
	if s.env.JWTSecret == "" {
		return []byte("dev_secret_change_me")
	}
	return []byte(s.env.JWTSecret)
}

func (s *Server) signAdminJWT() (string, time.Time, error) {
	now := s.now()
	exp := now.Add(adminTokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	})
	ss, err := t.SignedString(s.jwtSecret())
	return ss, exp, err
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(tok)
	}
	return ""
}

// requireAdmin rejects requests without a valid admin token.
func (s *Server) requireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearer(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return s.jwtSecret(), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			if role, _ := claims["role"].(string); role != "admin" {
				http.Error(w, `{"error":"Forbidden"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
