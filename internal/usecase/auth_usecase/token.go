package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// TokenClaims is the verified identity carried by a session token.
type TokenClaims struct {
	AdminID   int64
	Username  string
	ExpiresAt time.Time
}

// AccessTokenIssuer issues a signed session token.
type AccessTokenIssuer interface {
	Issue(adminID int64, username string, now time.Time) (token string, expiresAt time.Time, err error)
}

// TokenVerifier checks signature and expiry and returns the identity.
type TokenVerifier interface {
	Verify(raw string) (TokenClaims, error)
}

// TokenIssuer signs and verifies HS256 session tokens. Tokens whose
// payload or signature were altered fail verification; expiry is
// enforced even on a valid signature.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: secret,
		ttl:    ttl,
	}
}

func (i *TokenIssuer) Issue(adminID int64, username string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(adminID, 10),
		"username": username,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (i *TokenIssuer) Verify(raw string) (TokenClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenClaims{}, ErrExpiredToken
		}
		return TokenClaims{}, ErrInvalidToken
	}
	if token == nil || !token.Valid {
		return TokenClaims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}

	adminID, err := parseAdminID(claims["sub"])
	if err != nil || adminID <= 0 {
		return TokenClaims{}, ErrInvalidToken
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return TokenClaims{}, ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return TokenClaims{}, ErrInvalidToken
	}

	return TokenClaims{
		AdminID:   adminID,
		Username:  username,
		ExpiresAt: exp.Time,
	}, nil
}

func parseAdminID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}
