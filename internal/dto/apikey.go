package dto

import "time"

type CreateAPIKeyRequestDTO struct {
	UserID int `json:"user_id" validate:"required,gt=0"`
}

// CreateAPIKeyResponseDTO is the only place the plaintext token ever
// appears; it is not recoverable afterwards.
type CreateAPIKeyResponseDTO struct {
	Success   bool      `json:"success"`
	KeyID     int       `json:"key_id"`
	Token     string    `json:"token"`
	KeyPrefix string    `json:"key_prefix"`
	CreatedAt time.Time `json:"created_at"`
}

type RevokeAPIKeyRequestDTO struct {
	KeyPrefix string `json:"key_prefix" validate:"required"`
}

type RevokeAPIKeyResponseDTO struct {
	Success   bool   `json:"success"`
	KeyPrefix string `json:"key_prefix"`
}
