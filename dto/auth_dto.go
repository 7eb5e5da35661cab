package dto

type SendMagicLinkBody struct {
	Email string `json:"email" binding:"required,email"`
}

type SessionToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
