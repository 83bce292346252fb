package models

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrNotFound is returned by every store when a lookup does not resolve to
// a document. The Mongo-backed implementations map mongo.ErrNoDocuments to
// this sentinel.
var ErrNotFound = errors.New("models: not found")

// ErrDuplicateKey is returned when a write violates a unique index.
var ErrDuplicateKey = errors.New("models: duplicate key")

// Store interfaces are the live model handles resources are constructed
// with. The database package provides Mongo-backed implementations;
// modeltest provides in-memory ones.

type UserStore interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id bson.ObjectID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindActive returns active users sorted by email.
	FindActive(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
}

type SessionStore interface {
	// FindOrCreate resolves a client-held session id, minting a fresh
	// anonymous session document when none exists.
	FindOrCreate(ctx context.Context, sessionID bson.ObjectID) (*Session, error)
	// New mints a fresh anonymous session with a new session id.
	New(ctx context.Context) (*Session, error)
	// SetUser logs a user in (non-nil) or out (nil) of a session.
	SetUser(ctx context.Context, session *Session, user *SessionUser) error
}

type RfiStore interface {
	Create(ctx context.Context, rfi *Rfi) error
	FindByID(ctx context.Context, id bson.ObjectID) (*Rfi, error)
	FindAll(ctx context.Context) ([]*Rfi, error)
	Update(ctx context.Context, rfi *Rfi) error
}

type FileStore interface {
	Create(ctx context.Context, file *File) error
	FindByID(ctx context.Context, id bson.ObjectID) (*File, error)
	FindByHash(ctx context.Context, hash string) (*File, error)
}

type FeedbackStore interface {
	Create(ctx context.Context, feedback *Feedback) error
}

type VendorIdeaStore interface {
	Create(ctx context.Context, idea *VendorIdea) error
	FindByID(ctx context.Context, id bson.ObjectID) (*VendorIdea, error)
	FindAll(ctx context.Context) ([]*VendorIdea, error)
	Update(ctx context.Context, idea *VendorIdea) error
}

type ForgotPasswordTokenStore interface {
	Create(ctx context.Context, token *ForgotPasswordToken) error
	FindByID(ctx context.Context, id bson.ObjectID) (*ForgotPasswordToken, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}
