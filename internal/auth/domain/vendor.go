package domain

import (
	"time"
)

type Vendor struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"business_name"`
	Email        string    `json:"email"`
	PhoneNumber  *string   `json:"phone_number,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	BusinessName string  `json:"business_name" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	PhoneNumber  *string `json:"phone_number"`
	Password     string  `json:"password" binding:"required,min=8"`
}

// Identifier is an email address or a phone number.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Vendor Vendor `json:"vendor"`
	Token  string `json:"token"`
}
