package store

import (
	"context"
	"errors"
	"time"

	"github.com/emrgen/book/internal/model"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = gorm.ErrRecordNotFound
	// ErrLatestPublishedBookNotFound is returned when a book has never been published.
	ErrLatestPublishedBookNotFound = errors.New("latest published book not found")
)

type Store interface {
	BookStore
	PartStore
	ChapterStore
	SectionStore
	BlockStore
	NoteStore
	PublishedBookStore
	MaintenanceStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type BookStore interface {
	// CreateBook creates a new book.
	CreateBook(ctx context.Context, book *model.Book) error
	// GetBook retrieves a book by owner and id.
	GetBook(ctx context.Context, ownerID, id string) (*model.Book, error)
	// ListBooks retrieves the owner's books ordered by sort key.
	ListBooks(ctx context.Context, ownerID string) ([]*model.Book, error)
	// UpdateBook saves a book.
	UpdateBook(ctx context.Context, book *model.Book) error
	// DeleteBook deletes the book row only.
	DeleteBook(ctx context.Context, ownerID, id string) error
	// DeleteBookTree deletes the book and every descendant row.
	DeleteBookTree(ctx context.Context, ownerID, id string) error
	// MaxBookSortKey returns the highest sort key among the owner's books, 0 when none.
	MaxBookSortKey(ctx context.Context, ownerID string) (int64, error)
	// SetBookSortKey updates a single book's sort key.
	SetBookSortKey(ctx context.Context, ownerID, id string, key int64) error
}

type PartStore interface {
	CreatePart(ctx context.Context, part *model.Part) error
	GetPart(ctx context.Context, bookID, id string) (*model.Part, error)
	// ListParts retrieves the book's parts ordered by sort key.
	ListParts(ctx context.Context, bookID string) ([]*model.Part, error)
	UpdatePart(ctx context.Context, part *model.Part) error
	DeletePart(ctx context.Context, bookID, id string) error
	DeletePartTree(ctx context.Context, bookID, id string) error
	MaxPartSortKey(ctx context.Context, bookID string) (int64, error)
	SetPartSortKey(ctx context.Context, bookID, id string, key int64) error
}

type ChapterStore interface {
	CreateChapter(ctx context.Context, chapter *model.Chapter) error
	GetChapter(ctx context.Context, partID, id string) (*model.Chapter, error)
	// ListChapters retrieves the part's chapters ordered by sort key.
	ListChapters(ctx context.Context, partID string) ([]*model.Chapter, error)
	UpdateChapter(ctx context.Context, chapter *model.Chapter) error
	DeleteChapter(ctx context.Context, partID, id string) error
	DeleteChapterTree(ctx context.Context, partID, id string) error
	MaxChapterSortKey(ctx context.Context, partID string) (int64, error)
	SetChapterSortKey(ctx context.Context, partID, id string, key int64) error
}

type SectionStore interface {
	CreateSection(ctx context.Context, section *model.Section) error
	GetSection(ctx context.Context, chapterID, id string) (*model.Section, error)
	// ListSections retrieves the chapter's sections ordered by sort key.
	ListSections(ctx context.Context, chapterID string) ([]*model.Section, error)
	UpdateSection(ctx context.Context, section *model.Section) error
	DeleteSection(ctx context.Context, chapterID, id string) error
	DeleteSectionTree(ctx context.Context, chapterID, id string) error
	MaxSectionSortKey(ctx context.Context, chapterID string) (int64, error)
	SetSectionSortKey(ctx context.Context, chapterID, id string, key int64) error
}

type BlockStore interface {
	CreateBlock(ctx context.Context, block *model.Block) error
	GetBlock(ctx context.Context, sectionID, id string) (*model.Block, error)
	// ListBlocks retrieves the section's blocks ordered by sort key.
	ListBlocks(ctx context.Context, sectionID string) ([]*model.Block, error)
	UpdateBlock(ctx context.Context, block *model.Block) error
	DeleteBlock(ctx context.Context, sectionID, id string) error
	MaxBlockSortKey(ctx context.Context, sectionID string) (int64, error)
	SetBlockSortKey(ctx context.Context, sectionID, id string, key int64) error
}

type NoteStore interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetNote(ctx context.Context, id string) (*model.Note, error)
	// ListNotes retrieves the notes attached to one node, ordered by sort key.
	ListNotes(ctx context.Context, scope model.NoteScope, nodeID string) ([]*model.Note, error)
	UpdateNote(ctx context.Context, note *model.Note) error
	DeleteNote(ctx context.Context, id string) error
	MaxNoteSortKey(ctx context.Context, scope model.NoteScope, nodeID string) (int64, error)
}

type PublishedBookStore interface {
	// PublishBook creates a new published version and updates the latest row.
	PublishBook(ctx context.Context, book *model.PublishedBook) error
	// GetPublishedBookByVersion retrieves one published version.
	GetPublishedBookByVersion(ctx context.Context, id, version string) (*model.PublishedBook, error)
	// GetLatestPublishedBook retrieves the most recent published version.
	GetLatestPublishedBook(ctx context.Context, id string) (*model.LatestPublishedBook, error)
	// ListPublishedVersions retrieves all published versions of a book.
	ListPublishedVersions(ctx context.Context, id string) ([]*model.PublishedBook, error)
	// UnpublishBook removes every published version of a book.
	UnpublishBook(ctx context.Context, id string) error
}

// MaintenanceStore serves the background jobs.
type MaintenanceStore interface {
	// ListOrphanParts lists parts whose book row no longer exists.
	ListOrphanParts(ctx context.Context) ([]*model.Part, error)
	// ListOrphanChapters lists chapters whose part row no longer exists.
	ListOrphanChapters(ctx context.Context) ([]*model.Chapter, error)
	// ListOrphanSections lists sections whose chapter row no longer exists.
	ListOrphanSections(ctx context.Context) ([]*model.Section, error)
	// ListOrphanBlocks lists blocks whose section row no longer exists.
	ListOrphanBlocks(ctx context.Context) ([]*model.Block, error)
	// ListChaptersPendingDeletion lists chapters stuck in pending_deletion since before the given time.
	ListChaptersPendingDeletion(ctx context.Context, before time.Time) ([]*model.Chapter, error)
}
