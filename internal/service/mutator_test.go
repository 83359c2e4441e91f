package service

import (
	"context"
	"testing"

	"github.com/emrgen/book/internal/model"
	"github.com/emrgen/book/internal/queue"
	"github.com/emrgen/book/internal/store"
	"github.com/emrgen/book/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fixture struct {
	store *store.GormStore
	mut   *Mutator
	nav   *Navigator

	ownerID string
	book    *model.Book
	part    *model.Part
	chapter *model.Chapter
	section *model.Section
}

// newFixture builds a fresh db with one book/part/chapter/section path.
func newFixture(t *testing.T) *fixture {
	tester.RemoveDBFile()
	tester.Setup()

	gs := store.NewGormStore(tester.TestDB())
	mut := NewMutator(gs, queue.NewNop())

	f := &fixture{
		store:   gs,
		mut:     mut,
		nav:     NewNavigator(gs),
		ownerID: uuid.New().String(),
	}

	ctx := context.TODO()
	var err error

	f.book, err = mut.CreateBook(ctx, Path{OwnerID: f.ownerID}, BookData{Title: "The Go Workshop"})
	assert.NoError(t, err)

	f.part, err = mut.CreatePart(ctx, f.bookPath(), PartData{Title: "Foundations"})
	assert.NoError(t, err)

	f.chapter, err = mut.CreateChapter(ctx, f.partPath(), ChapterData{Title: "Getting Started"})
	assert.NoError(t, err)

	f.section, err = mut.CreateSection(ctx, f.chapterPath(), SectionData{Title: "Installing"})
	assert.NoError(t, err)

	return f
}

func (f *fixture) ownerPath() Path {
	return Path{OwnerID: f.ownerID}
}

func (f *fixture) bookPath() Path {
	return Path{OwnerID: f.ownerID, BookID: f.book.ID}
}

func (f *fixture) partPath() Path {
	return Path{OwnerID: f.ownerID, BookID: f.book.ID, PartID: f.part.ID}
}

func (f *fixture) chapterPath() Path {
	return Path{OwnerID: f.ownerID, BookID: f.book.ID, PartID: f.part.ID, ChapterID: f.chapter.ID}
}

func (f *fixture) sectionPath() Path {
	return Path{OwnerID: f.ownerID, BookID: f.book.ID, PartID: f.part.ID, ChapterID: f.chapter.ID, SectionID: f.section.ID}
}

func TestMutator_CreateAssignsSortKeys(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	// the fixture part is first, new siblings land after it
	assert.Equal(t, int64(100), f.part.SortKey)

	second, err := f.mut.CreatePart(ctx, f.bookPath(), PartData{Title: "Practice"})
	assert.NoError(t, err)
	assert.Equal(t, int64(200), second.SortKey)

	third, err := f.mut.CreatePart(ctx, f.bookPath(), PartData{Title: "Appendix"})
	assert.NoError(t, err)
	assert.Equal(t, int64(300), third.SortKey)

	parts, err := f.nav.ListParts(ctx, f.bookPath())
	assert.NoError(t, err)
	assert.Len(t, parts, 3)
	assert.Equal(t, []string{f.part.ID, second.ID, third.ID}, []string{parts[0].ID, parts[1].ID, parts[2].ID})
}

func TestMutator_CreateRejectsEmptyTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	_, err := f.mut.CreateBook(ctx, f.ownerPath(), BookData{})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = f.mut.CreatePart(ctx, f.bookPath(), PartData{})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = f.mut.CreateChapter(ctx, f.partPath(), ChapterData{})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	// blocks have no title, empty text is fine
	block, err := f.mut.CreateBlock(ctx, f.sectionPath(), BlockData{})
	assert.NoError(t, err)
	assert.Equal(t, "", block.Text)
}

func TestMutator_CreateRequiresAncestorPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	_, err := f.mut.CreateBook(ctx, Path{}, BookData{Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = f.mut.CreatePart(ctx, Path{OwnerID: f.ownerID}, PartData{Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = f.mut.CreateChapter(ctx, f.bookPath(), ChapterData{Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMutator_UpdatePatchesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	title := "The Go Workshop, 2nd Edition"
	updated, err := f.mut.UpdateBook(ctx, f.bookPath(), BookPatch{Title: &title})
	assert.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	// untouched fields survive the patch
	assert.Equal(t, f.book.Summary, updated.Summary)
	assert.Equal(t, f.book.SortKey, updated.SortKey)

	content := "Install Go from go.dev/dl."
	section, err := f.mut.UpdateSection(ctx, f.sectionPath(), SectionPatch{Content: &content})
	assert.NoError(t, err)
	assert.Equal(t, content, section.Content)
	assert.Equal(t, "Installing", section.Title)

	empty := ""
	_, err = f.mut.UpdateBook(ctx, f.bookPath(), BookPatch{Title: &empty})
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestMutator_UpdateMissingEntity(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	missing := f.bookPath()
	missing.BookID = uuid.New().String()

	title := "x"
	_, err := f.mut.UpdateBook(ctx, missing, BookPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMutator_ShallowDeleteLeavesDescendants(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	err := f.mut.DeletePart(ctx, f.partPath())
	assert.NoError(t, err)

	parts, err := f.nav.ListParts(ctx, f.bookPath())
	assert.NoError(t, err)
	assert.Len(t, parts, 0)

	// the chapter row is still there, orphaned under the deleted part
	chapters, err := f.store.ListChapters(ctx, f.part.ID)
	assert.NoError(t, err)
	assert.Len(t, chapters, 1)
	assert.Equal(t, f.chapter.ID, chapters[0].ID)
}

func TestMutator_DeleteWithDescendants(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	_, err := f.mut.CreateBlock(ctx, f.sectionPath(), BlockData{Text: "Welcome."})
	assert.NoError(t, err)

	err = f.mut.DeleteBookWithDescendants(ctx, f.bookPath())
	assert.NoError(t, err)

	books, err := f.nav.ListBooks(ctx, f.ownerPath())
	assert.NoError(t, err)
	assert.Len(t, books, 0)

	chapters, err := f.store.ListChapters(ctx, f.part.ID)
	assert.NoError(t, err)
	assert.Len(t, chapters, 0)

	blocks, err := f.store.ListBlocks(ctx, f.section.ID)
	assert.NoError(t, err)
	assert.Len(t, blocks, 0)
}

func TestMutator_DeleteMissingEntity(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	missing := f.partPath()
	missing.PartID = uuid.New().String()

	err := f.mut.DeletePart(ctx, missing)
	assert.ErrorIs(t, err, ErrNotFound)
}
