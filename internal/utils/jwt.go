package utils // package utils provides helpers for token creation and password hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken is the signed credential returned on register/login. The
// Token field contains the serialized JWT; Exp is its UTC expiration.
// There is no server-side revocation list: logout is client-side token
// deletion, so the only way a token stops working is expiry.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// NewSessionToken builds and signs an HS256 JWT for a user. The claims
// are: subject (sub) carrying the user id, role, expiration (exp) and
// issued-at (iat).
func NewSessionToken(secret string, userID uint64, role string, ttlHours int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates a serialized token and returns the user id
// and role it carries. Tokens signed with a different method or secret,
// expired tokens and malformed claims are all rejected.
func ParseSessionToken(secret, raw string) (uint64, string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(float64) // numeric claims decode as float64
	if !ok {
		return 0, "", errors.New("missing sub claim")
	}
	role, _ := claims["role"].(string)
	return uint64(sub), role, nil
}
