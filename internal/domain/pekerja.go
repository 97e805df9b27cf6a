package domain

import "time"

// Pekerja is a field worker record, thinner than a Pegawai and optionally
// linked to a user account.
type Pekerja struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	PhoneNumber string     `json:"phone_number"`
	UserID      *string    `json:"user_id"`
	DeletedAt   *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
