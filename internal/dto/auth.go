package dto

// TokenRequest exchanges a service's shared secret for a bearer token.
type TokenRequest struct {
	ServiceID string `json:"serviceID" binding:"required"`
	Secret    string `json:"secret" binding:"required"`
}

// TokenResponse carries the issued JWT.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"` // seconds
}
