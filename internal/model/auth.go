package model

// LoginRequest asks for an email token to be sent. The endpoint responds
// identically whether or not the user already exists.
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AuthenticateRequest redeems an emailed token for an API token.
type AuthenticateRequest struct {
	Email      string `json:"email" binding:"required,email"`
	EmailToken string `json:"email_token" binding:"required,len=8,numeric"`
}
