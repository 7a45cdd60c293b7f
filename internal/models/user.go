package models

import "time"

// User holds the account row. Password is the bcrypt hash and never leaves
// the API. RefreshToken is single-valued: issuing a new one or logging out
// invalidates whatever was stored before.
type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"size:100;not null" json:"username"`
	Email        string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password     string  `gorm:"not null" json:"-"`
	RefreshToken *string `gorm:"size:512" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
