package service

import (
	"context"
	"testing"

	"github.com/emrgen/book/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestMoveChapter(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	target, err := f.mut.CreatePart(ctx, f.bookPath(), PartData{Title: "Practice"})
	assert.NoError(t, err)
	targetPath := f.bookPath()
	targetPath.PartID = target.ID

	// give the target an existing chapter so the mover lands after it
	existing, err := f.mut.CreateChapter(ctx, targetPath, ChapterData{Title: "Exercises"})
	assert.NoError(t, err)
	assert.Equal(t, int64(100), existing.SortKey)

	moved, err := f.mut.MoveChapter(ctx, f.chapter.ID, f.partPath(), targetPath)
	assert.NoError(t, err)
	assert.Equal(t, target.ID, moved.PartID)
	assert.Equal(t, int64(200), moved.SortKey)

	// gone from the source
	source, err := f.nav.ListChapters(ctx, f.partPath())
	assert.NoError(t, err)
	assert.Len(t, source, 0)

	// present at the target, at the end
	chapters, err := f.nav.ListChapters(ctx, targetPath)
	assert.NoError(t, err)
	assert.Len(t, chapters, 2)
	assert.Equal(t, f.chapter.ID, chapters[1].ID)
}

func TestMoveChapterSamePartIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	moved, err := f.mut.MoveChapter(ctx, f.chapter.ID, f.partPath(), f.partPath())
	assert.NoError(t, err)
	assert.Equal(t, f.chapter.ID, moved.ID)
	assert.Equal(t, f.chapter.SortKey, moved.SortKey)
}

func TestMoveChapterMissingSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	target, err := f.mut.CreatePart(ctx, f.bookPath(), PartData{Title: "Practice"})
	assert.NoError(t, err)
	targetPath := f.bookPath()
	targetPath.PartID = target.ID

	_, err = f.mut.MoveChapter(ctx, "ghost", f.partPath(), targetPath)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoveSection(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	other, err := f.mut.CreateChapter(ctx, f.partPath(), ChapterData{Title: "Types"})
	assert.NoError(t, err)
	targetPath := f.partPath()
	targetPath.ChapterID = other.ID

	moved, err := f.mut.MoveSection(ctx, f.section.ID, f.chapterPath(), targetPath)
	assert.NoError(t, err)
	assert.Equal(t, other.ID, moved.ChapterID)
	assert.Equal(t, int64(100), moved.SortKey)

	sections, err := f.nav.ListSections(ctx, f.chapterPath())
	assert.NoError(t, err)
	assert.Len(t, sections, 0)
}

func TestMoveBlockCarriesAncestry(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	block, err := f.mut.CreateBlock(ctx, f.sectionPath(), BlockData{Text: "Welcome."})
	assert.NoError(t, err)

	other, err := f.mut.CreateSection(ctx, f.chapterPath(), SectionData{Title: "Setup"})
	assert.NoError(t, err)
	targetPath := f.chapterPath()
	targetPath.SectionID = other.ID

	moved, err := f.mut.MoveBlock(ctx, block.ID, f.sectionPath(), targetPath)
	assert.NoError(t, err)
	assert.Equal(t, other.ID, moved.SectionID)
	assert.Equal(t, f.chapter.ID, moved.ChapterID)
	assert.Equal(t, f.part.ID, moved.PartID)
	assert.Equal(t, f.book.ID, moved.BookID)
}

func TestStageChapterMove(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	target, err := f.mut.CreatePart(ctx, f.bookPath(), PartData{Title: "Practice"})
	assert.NoError(t, err)
	targetPath := f.bookPath()
	targetPath.PartID = target.ID

	copied, err := f.mut.StageChapterMove(ctx, f.chapter.ID, f.partPath(), targetPath)
	assert.NoError(t, err)
	assert.NotEqual(t, f.chapter.ID, copied.ID)
	assert.Equal(t, target.ID, copied.PartID)
	assert.Equal(t, model.ChapterStatusActive, copied.Status)

	// the source survives, flagged for removal
	source, err := f.store.GetChapter(ctx, f.part.ID, f.chapter.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.ChapterStatusPendingDeletion, source.Status)

	// confirming removes the source for good
	err = f.mut.ConfirmChapterRemoval(ctx, f.chapterPath())
	assert.NoError(t, err)

	_, err = f.store.GetChapter(ctx, f.part.ID, f.chapter.ID)
	assert.Error(t, err)
}

func TestConfirmChapterRemovalRequiresStaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	err := f.mut.ConfirmChapterRemoval(ctx, f.chapterPath())
	assert.ErrorIs(t, err, ErrNotPendingDeletion)

	// the chapter is untouched
	chapter, err := f.store.GetChapter(ctx, f.part.ID, f.chapter.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.ChapterStatusActive, chapter.Status)
}
