package model

import (
	"time"
)

// Review is a customer rating on a product. One review per (product, reviewer)
// pair; reviews are removed for good when their product goes away, so no soft
// delete here - a soft-deleted row would still block the unique index.
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;index:idx_product_reviewer,unique" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	UserID    uint      `gorm:"not null;index:idx_product_reviewer,unique" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"reviewer,omitempty"`
	Rating    int       `gorm:"not null" json:"rating"` // 1-5
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}
