package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Stay struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HostID        uuid.UUID `gorm:"type:uuid;index;not null" json:"host_id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `json:"description"`
	City          string    `gorm:"index" json:"city"`
	Country       string    `json:"country"`
	Address       string    `json:"address"`
	PricePerNight int64     `gorm:"not null" json:"price_per_night"`
	MaxGuests     int       `gorm:"not null;default:1" json:"max_guests"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *Stay) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
