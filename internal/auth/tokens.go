package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/balkashynov/taskpanel/internal/models"
)

const tokenIssuer = "taskpanel"

// tokens signs session ids into the value stored in the client cookie.
// The session record stays the authority; the signature only stops clients
// from forging ids.
type tokens struct {
	secret []byte
	now    func() time.Time
}

func (t tokens) sign(session *models.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        session.ID,
		Subject:   strconv.FormatUint(uint64(session.UserID), 10),
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// parse returns the session id inside a token. With verifyExpiry false an
// expired but correctly signed token is still accepted.
func (t tokens) parse(raw string, verifyExpiry bool) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.now),
	}
	if !verifyExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", errors.New("token has no session id")
	}
	return claims.ID, nil
}
