package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReorderChapters(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	c1 := f.chapter
	c2, err := f.mut.CreateChapter(ctx, f.partPath(), ChapterData{Title: "Types"})
	assert.NoError(t, err)
	c3, err := f.mut.CreateChapter(ctx, f.partPath(), ChapterData{Title: "Functions"})
	assert.NoError(t, err)

	err = f.mut.ReorderChapters(ctx, f.partPath(), []string{c3.ID, c1.ID, c2.ID})
	assert.NoError(t, err)

	chapters, err := f.nav.ListChapters(ctx, f.partPath())
	assert.NoError(t, err)
	assert.Len(t, chapters, 3)
	assert.Equal(t, c3.ID, chapters[0].ID)
	assert.Equal(t, c1.ID, chapters[1].ID)
	assert.Equal(t, c2.ID, chapters[2].ID)

	// keys are rewritten onto the coarse grid
	assert.Equal(t, int64(0), chapters[0].SortKey)
	assert.Equal(t, int64(1000), chapters[1].SortKey)
	assert.Equal(t, int64(2000), chapters[2].SortKey)

	// appending after a reorder still lands at the end
	c4, err := f.mut.CreateChapter(ctx, f.partPath(), ChapterData{Title: "Methods"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2100), c4.SortKey)
}

func TestReorderRejectsNonPermutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	c2, err := f.mut.CreateChapter(ctx, f.partPath(), ChapterData{Title: "Types"})
	assert.NoError(t, err)

	// missing a sibling
	err = f.mut.ReorderChapters(ctx, f.partPath(), []string{c2.ID})
	assert.ErrorIs(t, err, ErrNotPermutation)

	// unknown id
	err = f.mut.ReorderChapters(ctx, f.partPath(), []string{c2.ID, f.chapter.ID, "ghost"})
	assert.ErrorIs(t, err, ErrNotPermutation)

	// duplicate id
	err = f.mut.ReorderChapters(ctx, f.partPath(), []string{c2.ID, c2.ID})
	assert.ErrorIs(t, err, ErrNotPermutation)

	// order must be untouched after the failed attempts
	chapters, err := f.nav.ListChapters(ctx, f.partPath())
	assert.NoError(t, err)
	assert.Equal(t, f.chapter.ID, chapters[0].ID)
	assert.Equal(t, c2.ID, chapters[1].ID)
}

func TestReorderParts(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	p2, err := f.mut.CreatePart(ctx, f.bookPath(), PartData{Title: "Practice"})
	assert.NoError(t, err)

	err = f.mut.ReorderParts(ctx, f.bookPath(), []string{p2.ID, f.part.ID})
	assert.NoError(t, err)

	parts, err := f.nav.ListParts(ctx, f.bookPath())
	assert.NoError(t, err)
	assert.Equal(t, p2.ID, parts[0].ID)
	assert.Equal(t, f.part.ID, parts[1].ID)
}
