package domain

import "time"

// LoginRequest carries admin credentials
type LoginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// LoginResponse carries the credential to send on admin requests
type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// AdminClaims identifies the admin a signed token was issued to
type AdminClaims struct {
	Subject   string
	ExpiresAt time.Time
}
