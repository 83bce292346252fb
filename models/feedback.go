package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Rating string

const (
	RatingGood Rating = "good"
	RatingMeh  Rating = "meh"
	RatingBad  Rating = "bad"
)

func ParseRating(raw string) (Rating, bool) {
	switch Rating(raw) {
	case RatingGood, RatingMeh, RatingBad:
		return Rating(raw), true
	}
	return "", false
}

// Feedback is append-only; it is never read back through the API.
type Feedback struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Rating    Rating        `bson:"rating"`
	Text      string        `bson:"text"`
	UserType  *UserType     `bson:"userType,omitempty"`
	CreatedAt time.Time     `bson:"createdAt"`
}

type PublicFeedback struct {
	ID        bson.ObjectID `json:"_id"`
	Rating    Rating        `json:"rating"`
	Text      string        `json:"text"`
	UserType  *UserType     `json:"userType,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

func MakePublicFeedback(feedback *Feedback) PublicFeedback {
	return PublicFeedback{
		ID:        feedback.ID,
		Rating:    feedback.Rating,
		Text:      feedback.Text,
		UserType:  feedback.UserType,
		CreatedAt: feedback.CreatedAt,
	}
}
