package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNavigator_GetBookView(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	p2, err := f.mut.CreatePart(ctx, f.bookPath(), PartData{Title: "Practice"})
	assert.NoError(t, err)
	p2Path := f.bookPath()
	p2Path.PartID = p2.ID

	_, err = f.mut.CreateChapter(ctx, p2Path, ChapterData{Title: "Exercises"})
	assert.NoError(t, err)

	view, err := f.nav.GetBookView(ctx, f.bookPath())
	assert.NoError(t, err)
	assert.Equal(t, f.book.ID, view.Book.ID)
	assert.Len(t, view.Parts, 2)
	assert.Equal(t, f.part.ID, view.Parts[0].Part.ID)
	assert.Equal(t, p2.ID, view.Parts[1].Part.ID)
	assert.Len(t, view.Parts[0].Chapters, 1)
	assert.Len(t, view.Parts[1].Chapters, 1)
}

func TestNavigator_GetBookViewMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	missing := f.bookPath()
	missing.BookID = uuid.New().String()

	_, err := f.nav.GetBookView(ctx, missing)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.nav.GetBookView(ctx, Path{OwnerID: f.ownerID})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNavigator_GetSectionViewJoinsBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	_, err := f.mut.CreateBlock(ctx, f.sectionPath(), BlockData{Text: "First paragraph."})
	assert.NoError(t, err)
	_, err = f.mut.CreateBlock(ctx, f.sectionPath(), BlockData{Text: "Second paragraph."})
	assert.NoError(t, err)

	view, err := f.nav.GetSectionView(ctx, f.sectionPath())
	assert.NoError(t, err)
	assert.Len(t, view.Blocks, 2)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", view.ContentText)
}

func TestNavigator_GetSectionViewEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	view, err := f.nav.GetSectionView(ctx, f.sectionPath())
	assert.NoError(t, err)
	assert.Len(t, view.Blocks, 0)
	assert.Equal(t, "", view.ContentText)
}

func TestNavigator_ListOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	titles := []string{"Types", "Functions", "Methods"}
	for _, title := range titles {
		_, err := f.mut.CreateChapter(ctx, f.partPath(), ChapterData{Title: title})
		assert.NoError(t, err)
	}

	chapters, err := f.nav.ListChapters(ctx, f.partPath())
	assert.NoError(t, err)
	assert.Len(t, chapters, 4)

	// creation order is list order, keys strictly increasing
	assert.Equal(t, "Getting Started", chapters[0].Title)
	for i := 1; i < len(chapters); i++ {
		assert.Equal(t, titles[i-1], chapters[i].Title)
		assert.Greater(t, chapters[i].SortKey, chapters[i-1].SortKey)
	}
}

func TestNavigator_SiblingPosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	c2, err := f.mut.CreateChapter(ctx, f.partPath(), ChapterData{Title: "Types"})
	assert.NoError(t, err)

	chapters, err := f.nav.ListChapters(ctx, f.partPath())
	assert.NoError(t, err)

	ids := make([]string, 0, len(chapters))
	for _, c := range chapters {
		ids = append(ids, c.ID)
	}

	pos, err := ResolveSiblingPosition(c2.ID, ids)
	assert.NoError(t, err)
	assert.Equal(t, 2, pos)
}
