package service

import (
	"errors"
	"fmt"

	"github.com/emrgen/book/internal/store"
)

// Path is the ancestor chain addressing a node in the tree. Ids below
// the addressed level stay empty.
type Path struct {
	OwnerID   string
	BookID    string
	PartID    string
	ChapterID string
	SectionID string
}

func (p Path) requireOwner() error {
	if p.OwnerID == "" {
		return fmt.Errorf("%w: missing ownerId", ErrInvalidArgument)
	}
	return nil
}

func (p Path) requireBook() error {
	if err := p.requireOwner(); err != nil {
		return err
	}
	if p.BookID == "" {
		return fmt.Errorf("%w: missing bookId", ErrInvalidArgument)
	}
	return nil
}

func (p Path) requirePart() error {
	if err := p.requireBook(); err != nil {
		return err
	}
	if p.PartID == "" {
		return fmt.Errorf("%w: missing partId", ErrInvalidArgument)
	}
	return nil
}

func (p Path) requireChapter() error {
	if err := p.requirePart(); err != nil {
		return err
	}
	if p.ChapterID == "" {
		return fmt.Errorf("%w: missing chapterId", ErrInvalidArgument)
	}
	return nil
}

func (p Path) requireSection() error {
	if err := p.requireChapter(); err != nil {
		return err
	}
	if p.SectionID == "" {
		return fmt.Errorf("%w: missing sectionId", ErrInvalidArgument)
	}
	return nil
}

// notFound translates the store's missing-row error into ErrNotFound.
// Every other store failure passes through unchanged.
func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
