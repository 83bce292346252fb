package dto

type CreateForgotPasswordTokenRequest struct {
	Email string `json:"email"`
}

type UpdateForgotPasswordTokenRequest struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Password string `json:"password"`
}
