package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SessionUser is the authenticated-user reference embedded in a session.
// The user type is denormalized so permission predicates stay pure
// functions of the session.
type SessionUser struct {
	ID   bson.ObjectID `bson:"id" json:"id"`
	Type UserType      `bson:"type" json:"type"`
}

// Session is the server side of the signed session cookie. SessionID is the
// opaque token held by the client; a session with no user is anonymous.
type Session struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	SessionID bson.ObjectID `bson:"sessionId"`
	User      *SessionUser  `bson:"user,omitempty"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func (s *Session) LoggedIn() bool {
	return s.User != nil
}

type PublicSession struct {
	ID        bson.ObjectID `json:"_id"`
	SessionID bson.ObjectID `json:"sessionId"`
	User      *PublicUser   `json:"user,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// MakePublicSession resolves the session's user reference against the user
// store. A dangling or inactive user reference yields an anonymous public
// session rather than an error.
func MakePublicSession(ctx context.Context, session *Session, users UserStore) (PublicSession, error) {
	public := PublicSession{
		ID:        session.ID,
		SessionID: session.SessionID,
		CreatedAt: session.CreatedAt,
	}
	if session.User == nil {
		return public, nil
	}
	user, err := users.FindByID(ctx, session.User.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return public, nil
		}
		return public, err
	}
	if user.Active {
		pu := MakePublicUser(user)
		public.User = &pu
	}
	return public, nil
}
