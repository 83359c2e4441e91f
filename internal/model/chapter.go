package model

import (
	"time"
)

// ChapterStatus tracks the two-phase move lifecycle of a chapter.
// A chapter copied to a new part during a staged move stays behind as
// pending_deletion until the removal is confirmed.
type ChapterStatus string

const (
	ChapterStatusActive          ChapterStatus = "active"
	ChapterStatusPendingDeletion ChapterStatus = "pending_deletion"
)

// Chapter is a division of a part.
type Chapter struct {
	ID        string `gorm:"primaryKey;uuid;not null"`
	OwnerID   string `gorm:"uuid;not null"`
	BookID    string `gorm:"uuid;not null"`
	PartID    string `gorm:"uuid;not null;index"`
	Title     string `gorm:"not null"`
	Summary   string
	Status    ChapterStatus `gorm:"not null;default:active"`
	SortKey   int64         `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
