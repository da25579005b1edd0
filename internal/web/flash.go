package web

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	flashCookie = "flash"
	flashKey    = "flashes"
	flashIssuer = "taskpanel-flash"
	flashMaxAge = 5 * time.Minute
)

const (
	flashSuccess = "success"
	flashDanger  = "danger"
	flashInfo    = "info"
	flashWarning = "warning"
)

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type flashClaims struct {
	Flashes []Flash `json:"flashes"`
	jwt.RegisteredClaims
}

// flashCodec signs pending flashes into a cookie so they survive a redirect
// without server-side state
type flashCodec struct {
	secret []byte
}

func (f flashCodec) encode(flashes []Flash, now time.Time) (string, error) {
	claims := flashClaims{
		Flashes: flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    flashIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashMaxAge)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.secret)
}

func (f flashCodec) decode(raw string) ([]Flash, error) {
	var claims flashClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return f.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(flashIssuer))
	if err != nil {
		return nil, err
	}
	return claims.Flashes, nil
}

// pendingFlashes returns the flashes queued for this client: those carried in
// by the cookie plus any added while handling the current request.
func (s *Server) pendingFlashes(c *gin.Context) []Flash {
	if v, ok := c.Get(flashKey); ok {
		return v.([]Flash)
	}

	var flashes []Flash
	if raw, err := c.Cookie(flashCookie); err == nil && raw != "" {
		// A forged or expired cookie just means no messages
		flashes, _ = s.flashes.decode(raw)
	}
	c.Set(flashKey, flashes)
	return flashes
}

// flash queues a message for the next rendered page
func (s *Server) flash(c *gin.Context, category, message string) {
	flashes := append(s.pendingFlashes(c), Flash{Category: category, Message: message})
	c.Set(flashKey, flashes)

	raw, err := s.flashes.encode(flashes, time.Now())
	if err != nil {
		log.Printf("failed to encode flash cookie: %v", err)
		return
	}
	s.setCookie(c, flashCookie, raw, int(flashMaxAge/time.Second))
}

// takeFlashes returns and clears every pending flash
func (s *Server) takeFlashes(c *gin.Context) []Flash {
	flashes := s.pendingFlashes(c)
	c.Set(flashKey, []Flash(nil))

	if _, err := c.Cookie(flashCookie); err == nil || len(flashes) > 0 {
		s.clearCookie(c, flashCookie)
	}
	return flashes
}
