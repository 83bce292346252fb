package server

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// SessionCookieName is the single cookie the portal sets on every response.
const SessionCookieName = "sid"

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SignSessionID wraps the opaque session id in a signed token so the client
// cannot forge or tamper with it.
func SignSessionID(id bson.ObjectID, secret string) (string, error) {
	claims := sessionClaims{
		SessionID: id.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionID verifies a signed cookie value and extracts the session
// id. Absent, malformed or tampered values yield a fresh id, which causes
// the adapter to mint a new anonymous session.
func ParseSessionID(raw, secret string) bson.ObjectID {
	if raw == "" {
		return bson.NewObjectID()
	}
	token, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return bson.NewObjectID()
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok {
		return bson.NewObjectID()
	}
	id, err := bson.ObjectIDFromHex(claims.SessionID)
	if err != nil {
		return bson.NewObjectID()
	}
	return id
}
