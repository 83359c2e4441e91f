package model

import (
	"time"
)

// Block is the smallest content unit of a section.
type Block struct {
	ID        string `gorm:"primaryKey;uuid;not null"`
	OwnerID   string `gorm:"uuid;not null"`
	BookID    string `gorm:"uuid;not null"`
	PartID    string `gorm:"uuid;not null"`
	ChapterID string `gorm:"uuid;not null"`
	SectionID string `gorm:"uuid;not null;index"`
	Text      string `gorm:"not null"`
	Summary   string
	SortKey   int64 `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
