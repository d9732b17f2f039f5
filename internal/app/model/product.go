package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	StoreID     uint           `gorm:"not null;index" json:"store_id"`
	Store       Store          `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE" json:"store,omitempty"`
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Price       float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string         `json:"image_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Reviews []Review `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// OwnerID returns the vendor owning the store this product belongs to.
// The Store association must be preloaded.
func (p *Product) OwnerID() uint {
	return p.Store.UserID
}
