package entities

import (
	"time"
)

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_favorites_user_book" json:"userId"`
	BookID    uint      `gorm:"uniqueIndex:idx_favorites_user_book" json:"bookId"`
	Book      *Book     `gorm:"foreignKey:BookID" json:"book,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ReadingHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_history_user_book" json:"userId"`
	BookID      uint      `gorm:"uniqueIndex:idx_history_user_book" json:"bookId"`
	Book        *Book     `gorm:"foreignKey:BookID" json:"book,omitempty"`
	CurrentPage int       `gorm:"default:0" json:"currentPage"`
	TotalPages  int       `gorm:"default:0" json:"totalPages"`
	Progress    int       `gorm:"default:0" json:"progress"` // percentage, 0-100
	IsCompleted bool      `gorm:"default:false" json:"isCompleted"`
	LastReadAt  time.Time `json:"lastReadAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"index" json:"userId"`
	BookID  uint   `gorm:"index" json:"bookId"`
	User    *User  `gorm:"foreignKey:UserID" json:"-"`
	Book    *Book  `gorm:"foreignKey:BookID" json:"-"`
	Content string `gorm:"type:text" json:"content"`

	// Optional 1-5 star rating. Only approved rated comments feed the
	// owning book's rating aggregate.
	Rating *int `json:"rating,omitempty"`

	IsApproved   bool      `gorm:"default:false;index" json:"isApproved"`
	HelpfulCount int       `gorm:"default:0" json:"helpfulCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Favorite) TableName() string {
	return "favorites"
}

func (ReadingHistory) TableName() string {
	return "reading_history"
}

func (Comment) TableName() string {
	return "comments"
}
