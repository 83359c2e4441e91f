package model

import (
	"time"
)

// BookStatus is the lifecycle state of a book.
type BookStatus string

const (
	BookStatusDraft     BookStatus = "draft"
	BookStatusPublished BookStatus = "published"
	BookStatusArchived  BookStatus = "archived"
)

// Book is a top level authored work owned by a single user.
type Book struct {
	ID        string `gorm:"primaryKey;uuid;not null"`
	OwnerID   string `gorm:"uuid;not null;index"`
	Title     string `gorm:"not null"`
	Summary   string
	Status    BookStatus `gorm:"not null;default:draft"`
	SortKey   int64      `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
