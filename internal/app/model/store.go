package model

import (
	"time"

	"gorm.io/gorm"
)

type Store struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"` // owning vendor
	User        User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"vendor,omitempty"`
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`
	Description string         `gorm:"type:text;not null" json:"description"`
	LogoURL     string         `json:"logo_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Products []Product `gorm:"foreignKey:StoreID" json:"products,omitempty"`
}

func (Store) TableName() string {
	return "stores"
}

// OwnerID returns the vendor owning this store.
func (s *Store) OwnerID() uint {
	return s.UserID
}
