package dto

type CreateFeedbackRequest struct {
	Rating string `json:"rating"`
	Text   string `json:"text"`
}
