package models

import "time"

// Review is a user's rating of a product. A user reviews a product at most once.
type Review struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title" gorm:"type:varchar(100)"`
	Comment    string    `json:"comment" gorm:"type:text"`
	ProductID  string    `json:"productId" gorm:"type:varchar(36);uniqueIndex:idx_review_product_user"`
	UserID     string    `json:"userId" gorm:"type:varchar(36);uniqueIndex:idx_review_product_user"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
