package token

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/domains"
	"github.com/golang-jwt/jwt/v5"
	"github.com/heartsync/heartsync-be/src/shared/lib/errors/mark"
)

var (
	InvalidTokenMark    = domains.New("invalid_token")
	MalformedClaimsMark = domains.New("malformed_claims")
)

const sessionTokenTTL = time.Hour

// Claims identifies the internal user behind a session token.
type Claims struct {
	UserID   string
	Username string
}

type jwtClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) Issuer {
	return Issuer{
		secret: []byte(secret),
	}
}

func (i Issuer) Issue(userID string, username string) (string, error) {
	now := time.Now()

	claims := jwtClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "Failed to sign session token")
	}

	return signed, nil
}

func (i Issuer) Verify(tokenString string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Newf("Unexpected signing method %s", t.Method.Alg())
		}

		return i.secret, nil
	})

	if err != nil {
		return Claims{}, mark.Wrap(err, InvalidTokenMark, "Session token could not be verified")
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok {
		err := errors.New("Token claims are not in the expected shape")
		return Claims{}, mark.Wrap(err, MalformedClaimsMark, "Session token claims are malformed")
	}

	if claims.Subject == "" {
		err := errors.New("Token claims carry no subject")
		return Claims{}, mark.Wrap(err, MalformedClaimsMark, "Session token claims are malformed")
	}

	return Claims{
		UserID:   claims.Subject,
		Username: claims.Username,
	}, nil
}
