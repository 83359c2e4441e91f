package model

import (
	"encoding/json"
	"time"
)

// NoteScope names the tree level a note is attached to. A note belongs
// to exactly one of book, part, chapter or section.
type NoteScope string

const (
	NoteScopeBook    NoteScope = "book"
	NoteScopePart    NoteScope = "part"
	NoteScopeChapter NoteScope = "chapter"
	NoteScopeSection NoteScope = "section"
)

// NotePriority is the user facing priority of a note.
type NotePriority string

const (
	NotePriorityLow    NotePriority = "low"
	NotePriorityMedium NotePriority = "medium"
	NotePriorityHigh   NotePriority = "high"
)

// Note is a free form annotation attached to a single tree node.
// The ancestor id columns below the note's scope stay empty.
type Note struct {
	ID        string    `gorm:"primaryKey;uuid;not null"`
	OwnerID   string    `gorm:"uuid;not null"`
	Scope     NoteScope `gorm:"not null;index"`
	BookID    string    `gorm:"uuid;not null;index"`
	PartID    string    `gorm:"uuid"`
	ChapterID string    `gorm:"uuid"`
	SectionID string    `gorm:"uuid"`
	Title     string    `gorm:"not null"`
	Content   string
	Tags      string // json encoded list of tags
	Priority  NotePriority `gorm:"not null;default:medium"`
	Archived  bool         `gorm:"not null;default:false"`
	SortKey   int64        `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TagList decodes the json encoded tags column.
func (n *Note) TagList() ([]string, error) {
	if n.Tags == "" {
		return []string{}, nil
	}

	var tags []string
	err := json.Unmarshal([]byte(n.Tags), &tags)
	if err != nil {
		return nil, err
	}

	return tags, nil
}

// SetTagList encodes tags into the json tags column.
func (n *Note) SetTagList(tags []string) error {
	if tags == nil {
		tags = []string{}
	}

	data, err := json.Marshal(tags)
	if err != nil {
		return err
	}

	n.Tags = string(data)
	return nil
}
