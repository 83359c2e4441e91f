package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/emrgen/book/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *GormStore {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "book.db")), &gorm.Config{})
	assert.NoError(t, err)

	s := NewGormStore(db)
	assert.NoError(t, s.Migrate())
	return s
}

func seedChapterPath(t *testing.T, s *GormStore) (*model.Book, *model.Part, *model.Chapter) {
	ctx := context.TODO()
	ownerID := uuid.New().String()

	book := &model.Book{ID: uuid.New().String(), OwnerID: ownerID, Title: "b", Status: model.BookStatusDraft, SortKey: 100}
	assert.NoError(t, s.CreateBook(ctx, book))

	part := &model.Part{ID: uuid.New().String(), OwnerID: ownerID, BookID: book.ID, Title: "p", SortKey: 100}
	assert.NoError(t, s.CreatePart(ctx, part))

	chapter := &model.Chapter{ID: uuid.New().String(), OwnerID: ownerID, BookID: book.ID, PartID: part.ID, Title: "c", Status: model.ChapterStatusActive, SortKey: 100}
	assert.NoError(t, s.CreateChapter(ctx, chapter))

	return book, part, chapter
}

func TestGormStore_MaxSortKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.TODO()

	book, part, _ := seedChapterPath(t, s)

	// empty sibling set reports zero
	last, err := s.MaxChapterSortKey(ctx, uuid.New().String())
	assert.NoError(t, err)
	assert.Equal(t, int64(0), last)

	last, err = s.MaxChapterSortKey(ctx, part.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), last)

	last, err = s.MaxPartSortKey(ctx, book.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), last)
}

func TestGormStore_DeleteMissingRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.TODO()

	_, part, chapter := seedChapterPath(t, s)

	err := s.DeleteChapter(ctx, part.ID, uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.DeleteChapter(ctx, part.ID, chapter.ID)
	assert.NoError(t, err)

	err = s.DeleteChapter(ctx, part.ID, chapter.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_OrphanListing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.TODO()

	book, part, chapter := seedChapterPath(t, s)

	orphans, err := s.ListOrphanChapters(ctx)
	assert.NoError(t, err)
	assert.Len(t, orphans, 0)

	// shallow delete of the part strands its chapter
	assert.NoError(t, s.DeletePart(ctx, book.ID, part.ID))

	orphans, err = s.ListOrphanChapters(ctx)
	assert.NoError(t, err)
	assert.Len(t, orphans, 1)
	assert.Equal(t, chapter.ID, orphans[0].ID)

	parts, err := s.ListOrphanParts(ctx)
	assert.NoError(t, err)
	assert.Len(t, parts, 0)
}

func TestGormStore_ListChaptersPendingDeletion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.TODO()

	_, _, chapter := seedChapterPath(t, s)

	stale, err := s.ListChaptersPendingDeletion(ctx, time.Now().Add(time.Hour))
	assert.NoError(t, err)
	assert.Len(t, stale, 0)

	chapter.Status = model.ChapterStatusPendingDeletion
	assert.NoError(t, s.UpdateChapter(ctx, chapter))

	stale, err = s.ListChaptersPendingDeletion(ctx, time.Now().Add(time.Hour))
	assert.NoError(t, err)
	assert.Len(t, stale, 1)

	stale, err = s.ListChaptersPendingDeletion(ctx, time.Now().Add(-time.Hour))
	assert.NoError(t, err)
	assert.Len(t, stale, 0)
}

func TestGormStore_TransactionRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.TODO()

	_, part, chapter := seedChapterPath(t, s)

	err := s.Transaction(ctx, func(tx Store) error {
		if err := tx.DeleteChapter(ctx, part.ID, chapter.ID); err != nil {
			return err
		}
		// force a rollback after the delete
		return tx.DeleteChapter(ctx, part.ID, uuid.New().String())
	})
	assert.ErrorIs(t, err, ErrNotFound)

	chapters, err := s.ListChapters(ctx, part.ID)
	assert.NoError(t, err)
	assert.Len(t, chapters, 1)
}
