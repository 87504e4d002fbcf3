package model

import "time"

// Admin is a dashboard account.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AdminCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
