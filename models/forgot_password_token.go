package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ForgotPasswordToken records an outstanding password reset. The signed
// token itself travels by email; the document is consumed on a successful
// reset.
type ForgotPasswordToken struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Token     string        `bson:"token"`
	UserID    bson.ObjectID `bson:"userId"`
	CreatedAt time.Time     `bson:"createdAt"`
}
