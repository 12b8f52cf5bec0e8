package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/medilink/medilink/server/auth/key"
)

const SESSION_ISSUER = "medilink"

// SessionClaims are carried by the session token the identity provider issues.
// The subject is the user id.
type SessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.StandardClaims
}

// UserID returns the subject as a user id
func (claims *SessionClaims) UserID() (uint, error) {
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid session subject %q", claims.Subject)
	}

	return uint(id), nil
}

// NewSessionClaims builds claims for userID valid for ttl
func NewSessionClaims(userID uint, email string, ttl time.Duration) SessionClaims {
	now := time.Now()
	return SessionClaims{
		Email: email,
		StandardClaims: jwt.StandardClaims{
			Subject:   fmt.Sprint(userID),
			Issuer:    SESSION_ISSUER,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
}

func EncodeJWT(claims SessionClaims, keyPair *key.KeyPair) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod("RS256"), claims)
	token.Header["kid"] = keyPair.Kid

	tokenString, err := token.SignedString(keyPair.PrivateKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func DecodeJWT(tokenString string, keyPair *key.KeyPair) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// validate the alg is what you expect:
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return keyPair.PublicKey, nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid jwt: %v", err)
	}

	tokenClaims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("unable to assert token.Claims to SessionClaims")
	}

	if !tokenClaims.VerifyIssuer(SESSION_ISSUER, true) {
		return nil, fmt.Errorf("invalid jwt: unexpected issuer %q", tokenClaims.Issuer)
	}

	return tokenClaims, nil
}
