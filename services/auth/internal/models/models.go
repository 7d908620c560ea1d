package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleGuest          = "guest"
	RoleHost           = "host"
	RoleHostUnverified = "host_unverified"
)

type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"  json:"id"`
	Email           string     `gorm:"uniqueIndex;not null"  json:"email"`
	PasswordHash    string     `gorm:"not null"              json:"-"`
	FirstName       string     `gorm:"not null"              json:"first_name"`
	LastName        string     `gorm:"not null"              json:"last_name"`
	Phone           string     `gorm:"index"                 json:"phone,omitempty"`
	Role            string     `gorm:"not null"              json:"role"`
	PhoneVerifiedAt *time.Time `json:"phone_verified_at,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type HostProfile struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CompanyName string    `json:"company_name"`
	About       string    `json:"about"`
	CreatedAt   time.Time `json:"created_at"`
}

// PasswordResetToken keeps at most one live entry per email: a new reset
// request overwrites any pending one.
type PasswordResetToken struct {
	Email     string    `gorm:"primaryKey"  json:"email"`
	Token     string    `gorm:"not null"    json:"-"`
	CreatedAt time.Time `gorm:"not null"    json:"created_at"`
}
