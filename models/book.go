package models

import "time"

const BookTable = "lib_books"

// Book is soft-deleted: the row stays while transactions reference it,
// Deleted just hides it from search and new issues.
type Book struct {
	ID              string `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string `gorm:"size:200;not null;index" json:"title"`
	Author          string `gorm:"size:100" json:"author"`
	Genre           string `gorm:"size:50" json:"genre"`
	PublishedYear   int    `json:"publishedYear"`
	AvailableCopies int    `gorm:"not null;default:1" json:"availableCopies"`
	Deleted         bool   `gorm:"not null;default:false;index" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Book) TableName() string { return BookTable }
