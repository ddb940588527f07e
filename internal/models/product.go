package models

import "time"

// Product statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

// Categories is the fixed set of labels a product may be filed under.
var Categories = []string{
	"electronics",
	"fashion",
	"beauty",
	"home",
	"sports",
	"books",
	"jewelry",
	"accessories",
}

// IsValidCategory reports whether c is one of Categories.
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is a known product status.
func IsValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive || s == StatusPending
}

// Rating is the aggregate of a product's approved reviews.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// ProductImage is a hosted image owned by a product. ExternalID is the key
// of the asset in the image store.
type ProductImage struct {
	ID         uint   `json:"-" gorm:"primaryKey"`
	ProductID  string `json:"-" gorm:"type:varchar(36);index"`
	Position   int    `json:"-"`
	URL        string `json:"url" gorm:"type:varchar(500)"`
	ExternalID string `json:"externalId" gorm:"type:varchar(255)"`
}

// Product represents a product listed by a vendor.
type Product struct {
	ID            string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string         `json:"name" gorm:"type:varchar(200)"`
	Description   string         `json:"description" gorm:"type:text"`
	Price         float64        `json:"price" gorm:"index"`
	OriginalPrice *float64       `json:"originalPrice,omitempty"`
	Category      string         `json:"category" gorm:"type:varchar(50);index"`
	Stock         int            `json:"stock"`
	Status        string         `json:"status" gorm:"type:varchar(20);index"`
	IsActive      bool           `json:"isActive"`
	Rating        Rating         `json:"rating" gorm:"embedded;embeddedPrefix:rating_"`
	ViewCount     int64          `json:"viewCount"`
	Images        []ProductImage `json:"images" gorm:"foreignKey:ProductID"`
	VendorID      string         `json:"vendor" gorm:"type:varchar(36);index"`
	CreatedAt     time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Listable reports whether the product may appear in public listings.
func (p *Product) Listable() bool {
	return p.Status == StatusActive && p.IsActive
}
