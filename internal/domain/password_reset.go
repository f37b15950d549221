package domain

import "time"

// PasswordReset representa un intento de recuperación en curso. Solo se modela el
// esquema; ningún flujo del servicio crea ni consume códigos todavía.
type PasswordReset struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RecoveryCode string    `json:"-"`
	Expiration   time.Time `json:"expiration"`
	CreatedAt    time.Time `json:"created_at"`
}

