package service

import (
	"context"
	"strings"

	"github.com/emrgen/book/internal/model"
	"github.com/emrgen/book/internal/store"
)

// NewNavigator creates a new Navigator over the given store.
func NewNavigator(store store.Store) *Navigator {
	return &Navigator{
		store: store,
	}
}

// Navigator resolves entity paths and composes read views. Views are
// assembled fresh on every call, one query per level.
type Navigator struct {
	store store.Store
}

// BookView is a book with its ordered parts and each part's chapters.
type BookView struct {
	Book  *model.Book `json:"book"`
	Parts []*PartView `json:"parts"`
}

// PartView is a part with its ordered chapters.
type PartView struct {
	Part     *model.Part      `json:"part"`
	Chapters []*model.Chapter `json:"chapters"`
}

// ChapterView is a chapter with its ordered sections.
type ChapterView struct {
	Chapter  *model.Chapter   `json:"chapter"`
	Sections []*model.Section `json:"sections"`
}

// SectionView is a section with its ordered blocks. ContentText joins
// the block texts with a blank line, a derived convenience field that
// is never persisted.
type SectionView struct {
	Section     *model.Section `json:"section"`
	Blocks      []*model.Block `json:"blocks"`
	ContentText string         `json:"contentText"`
}

// GetBookView composes a book with every part and each part's chapters.
func (n *Navigator) GetBookView(ctx context.Context, path Path) (*BookView, error) {
	if err := path.requireBook(); err != nil {
		return nil, err
	}

	book, err := n.store.GetBook(ctx, path.OwnerID, path.BookID)
	if err != nil {
		return nil, notFound(err)
	}

	parts, err := n.store.ListParts(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	view := &BookView{Book: book, Parts: make([]*PartView, 0, len(parts))}
	for _, part := range parts {
		chapters, err := n.store.ListChapters(ctx, part.ID)
		if err != nil {
			return nil, err
		}
		view.Parts = append(view.Parts, &PartView{Part: part, Chapters: chapters})
	}

	return view, nil
}

// GetPartView composes a part with its ordered chapters.
func (n *Navigator) GetPartView(ctx context.Context, path Path) (*PartView, error) {
	if err := path.requirePart(); err != nil {
		return nil, err
	}

	part, err := n.store.GetPart(ctx, path.BookID, path.PartID)
	if err != nil {
		return nil, notFound(err)
	}

	chapters, err := n.store.ListChapters(ctx, part.ID)
	if err != nil {
		return nil, err
	}

	return &PartView{Part: part, Chapters: chapters}, nil
}

// GetChapterView composes a chapter with its ordered sections.
func (n *Navigator) GetChapterView(ctx context.Context, path Path) (*ChapterView, error) {
	if err := path.requireChapter(); err != nil {
		return nil, err
	}

	chapter, err := n.store.GetChapter(ctx, path.PartID, path.ChapterID)
	if err != nil {
		return nil, notFound(err)
	}

	sections, err := n.store.ListSections(ctx, chapter.ID)
	if err != nil {
		return nil, err
	}

	return &ChapterView{Chapter: chapter, Sections: sections}, nil
}

// GetSectionView composes a section with its ordered blocks.
func (n *Navigator) GetSectionView(ctx context.Context, path Path) (*SectionView, error) {
	if err := path.requireSection(); err != nil {
		return nil, err
	}

	section, err := n.store.GetSection(ctx, path.ChapterID, path.SectionID)
	if err != nil {
		return nil, notFound(err)
	}

	blocks, err := n.store.ListBlocks(ctx, section.ID)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		texts = append(texts, block.Text)
	}

	return &SectionView{
		Section:     section,
		Blocks:      blocks,
		ContentText: strings.Join(texts, "\n\n"),
	}, nil
}

// ListBooks lists the owner's books ordered by sort key.
func (n *Navigator) ListBooks(ctx context.Context, path Path) ([]*model.Book, error) {
	if err := path.requireOwner(); err != nil {
		return nil, err
	}
	return n.store.ListBooks(ctx, path.OwnerID)
}

// ListParts lists a book's parts ordered by sort key.
func (n *Navigator) ListParts(ctx context.Context, path Path) ([]*model.Part, error) {
	if err := path.requireBook(); err != nil {
		return nil, err
	}
	return n.store.ListParts(ctx, path.BookID)
}

// ListChapters lists a part's chapters ordered by sort key.
func (n *Navigator) ListChapters(ctx context.Context, path Path) ([]*model.Chapter, error) {
	if err := path.requirePart(); err != nil {
		return nil, err
	}
	return n.store.ListChapters(ctx, path.PartID)
}

// ListSections lists a chapter's sections ordered by sort key.
func (n *Navigator) ListSections(ctx context.Context, path Path) ([]*model.Section, error) {
	if err := path.requireChapter(); err != nil {
		return nil, err
	}
	return n.store.ListSections(ctx, path.ChapterID)
}

// ListBlocks lists a section's blocks ordered by sort key.
func (n *Navigator) ListBlocks(ctx context.Context, path Path) ([]*model.Block, error) {
	if err := path.requireSection(); err != nil {
		return nil, err
	}
	return n.store.ListBlocks(ctx, path.SectionID)
}
