package dto

type CreateSessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
