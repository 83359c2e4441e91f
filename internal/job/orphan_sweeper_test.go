package job

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/emrgen/book/internal/model"
	"github.com/emrgen/book/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *store.GormStore {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "book.db")), &gorm.Config{})
	assert.NoError(t, err)

	s := store.NewGormStore(db)
	assert.NoError(t, s.Migrate())
	return s
}

func TestOrphanSweeper_Purge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.TODO()
	ownerID := uuid.New().String()

	book := &model.Book{ID: uuid.New().String(), OwnerID: ownerID, Title: "b", Status: model.BookStatusDraft, SortKey: 100}
	assert.NoError(t, s.CreateBook(ctx, book))

	part := &model.Part{ID: uuid.New().String(), OwnerID: ownerID, BookID: book.ID, Title: "p", SortKey: 100}
	assert.NoError(t, s.CreatePart(ctx, part))

	chapter := &model.Chapter{ID: uuid.New().String(), OwnerID: ownerID, BookID: book.ID, PartID: part.ID, Title: "c", Status: model.ChapterStatusActive, SortKey: 100}
	assert.NoError(t, s.CreateChapter(ctx, chapter))

	section := &model.Section{ID: uuid.New().String(), OwnerID: ownerID, BookID: book.ID, PartID: part.ID, ChapterID: chapter.ID, Title: "s", SortKey: 100}
	assert.NoError(t, s.CreateSection(ctx, section))

	// shallow delete the part, stranding chapter and section
	assert.NoError(t, s.DeletePart(ctx, book.ID, part.ID))

	// reporting mode leaves the orphans alone
	NewOrphanSweeper(s, false).Run()

	orphans, err := s.ListOrphanChapters(ctx)
	assert.NoError(t, err)
	assert.Len(t, orphans, 1)

	NewOrphanSweeper(s, true).Run()

	orphans, err = s.ListOrphanChapters(ctx)
	assert.NoError(t, err)
	assert.Len(t, orphans, 0)

	sections, err := s.ListOrphanSections(ctx)
	assert.NoError(t, err)
	assert.Len(t, sections, 0)

	// the intact book is untouched
	books, err := s.ListBooks(ctx, ownerID)
	assert.NoError(t, err)
	assert.Len(t, books, 1)
}
