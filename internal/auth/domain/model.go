package domain

import "time"

// User is one credential record. The password hash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Credentials carries a register/login request.
type Credentials struct {
	Email    string
	Password string
}

// Session is what a successful register or login returns.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
