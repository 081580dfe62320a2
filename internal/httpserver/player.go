// internal/httpserver/player.go
//
// Player identity for the HTTP front end.
// There are no accounts: each browser gets a random player ID, carried in an
// HS256-signed JWT cookie so IDs cannot be guessed or forged. A missing,
// expired or tampered cookie simply yields a fresh ID (and a fresh session).

package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const playerCookieName = "wordscramble_player"

const tokenIssuer = "wordscramble"

// ctxPlayerKey is the context key type for the player ID.
type ctxPlayerKey struct{}

// playerID returns the ID placed in the context by withPlayer.
func playerID(r *http.Request) string {
	id, _ := r.Context().Value(ctxPlayerKey{}).(string)
	return id
}

// withPlayer resolves the player ID from the cookie or issues a new one.
// It never rejects a request.
func (s *Server) withPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
			if sub, err := s.parsePlayerToken(c.Value); err == nil {
				id = sub
			} else {
				log.Debug().Err(err).Msg("player token rejected")
			}
		}
		if id == "" {
			id = genID()
			if err := s.setPlayerCookie(w, id); err != nil {
				log.Error().Err(err).Msg("sign player token")
				http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
				return
			}
		}
		ctx := context.WithValue(r.Context(), ctxPlayerKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// signPlayerToken creates an HS256 JWT whose subject is the player ID.
func (s *Server) signPlayerToken(id string, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.cfg.PlayerTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(s.cfg.TokenKey)
	return ss, exp, err
}

// parsePlayerToken verifies a token and returns its subject.
func (s *Server) parsePlayerToken(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.cfg.TokenKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", jwt.ErrTokenInvalidSubject
	}
	return claims.Subject, nil
}

// setPlayerCookie writes the signed player cookie.
func (s *Server) setPlayerCookie(w http.ResponseWriter, id string) error {
	tok, exp, err := s.signPlayerToken(id, time.Now())
	if err != nil {
		return err
	}
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode // required for cross-site use when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
	return nil
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
