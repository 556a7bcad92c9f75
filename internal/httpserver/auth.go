package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/keshimasu/internal/players"
)

const cookieName = "keshimasu_token"

// authPlayer is placed into request context by withOptionalAuth.
type authPlayer struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

type ctxPlayerKey struct{}

// playerClaims carries the player id in Subject.
type playerClaims struct {
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// signToken creates an HS256 token for p that expires after the configured TTL.
func (s *Server) signToken(p *players.Player) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.cfg.TokenTTL())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, playerClaims{
		Nickname: p.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseToken verifies tok and returns the player id it names.
func (s *Server) parseToken(tok string) (int64, error) {
	var claims playerClaims
	t, err := jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	if !t.Valid {
		return 0, errors.New("invalid token")
	}
	return strconv.ParseInt(claims.Subject, 10, 64)
}

// setAuthCookie mirrors the token into an HttpOnly cookie.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := strings.HasPrefix(s.cfg.ClientOrigin, "https://")
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a token from the Authorization header or the auth cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// withOptionalAuth attaches the player to the request when a valid token for
// an existing player is present. It never rejects a request.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := bearerOrCookie(r); tok != "" {
			if id, err := s.parseToken(tok); err == nil {
				if p, err := s.players.Get(r.Context(), id); err == nil {
					ctx := context.WithValue(r.Context(), ctxPlayerKey{}, &authPlayer{ID: p.ID, Nickname: p.Nickname})
					r = r.WithContext(ctx)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests withOptionalAuth did not identify.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentPlayer(r) == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// currentPlayer returns the authenticated player, or nil for guests.
func currentPlayer(r *http.Request) *authPlayer {
	p, _ := r.Context().Value(ctxPlayerKey{}).(*authPlayer)
	return p
}
