package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const TOKEN_KEY = "Authorization"

var (
	ErrInvalidJWT = errors.New("invalid token")
)

// TokenClaims identifies an authenticated staff principal. The identity
// provider itself is external; we only carry its assertion.
type TokenClaims struct {
	Principal  string `json:"prc"`
	Role       string `json:"role"`
	ExpireTime int64  `json:"exp"`
	NotBefore  int64  `json:"nbf"`
}

func NewTokenClaims(principal, role string, expireTime int64) TokenClaims {
	return TokenClaims{
		Principal:  principal,
		Role:       role,
		ExpireTime: expireTime,
		NotBefore:  time.Now().Unix() - 1,
	}
}

func (t TokenClaims) GetPrincipal() string {
	return t.Principal
}

// ShareGrantClaims is the short-lived authorization the access validator
// returns after a link passes every check. It is never persisted; holding a
// valid grant is the proof that one validation (and one view, if metered)
// already happened.
type ShareGrantClaims struct {
	Kind       string `json:"knd"`
	ResourceID string `json:"rid"`
	Token      string `json:"tkn"`
	ExpireTime int64  `json:"exp"`
	NotBefore  int64  `json:"nbf"`
}

func NewShareGrantClaims(kind, resourceID, token string, ttl time.Duration) ShareGrantClaims {
	return ShareGrantClaims{
		Kind:       kind,
		ResourceID: resourceID,
		Token:      token,
		ExpireTime: time.Now().Add(ttl).Unix(),
		NotBefore:  time.Now().Unix() - 1,
	}
}

func GenerateJWT(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (t TokenClaims) Valid() error {
	return validWindow(t.ExpireTime, t.NotBefore)
}

func (g ShareGrantClaims) Valid() error {
	return validWindow(g.ExpireTime, g.NotBefore)
}

func validWindow(exp, nbf int64) error {
	now := time.Now().Unix()
	if exp < now || nbf > now {
		return fmt.Errorf("expired token, %w", ErrInvalidJWT)
	}
	return nil
}

func VerifyToken(tokenString string, secret []byte) (*TokenClaims, error) {
	result := &TokenClaims{}
	if err := parseInto(tokenString, secret, result); err != nil {
		return nil, err
	}
	return result, nil
}

func VerifyShareGrant(tokenString string, secret []byte) (*ShareGrantClaims, error) {
	result := &ShareGrantClaims{}
	if err := parseInto(tokenString, secret, result); err != nil {
		return nil, err
	}
	return result, nil
}

func parseInto(tokenString string, secret []byte, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v, %w", t.Header["alg"], ErrInvalidJWT)
		}
		return secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrInvalidJWT
	}
	return nil
}
