package service

import (
	"context"
	"testing"

	"github.com/emrgen/book/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNoteService_CreateNote(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()
	notes := NewNoteService(f.store)

	note, err := notes.CreateNote(ctx, model.NoteScopeChapter, f.chapterPath(), NoteData{
		Title:   "Needs rewrite",
		Content: "The intro drags, tighten it.",
		Tags:    []string{"editing", "draft"},
	})
	assert.NoError(t, err)
	assert.Equal(t, model.NoteScopeChapter, note.Scope)
	assert.Equal(t, f.chapter.ID, note.ChapterID)
	assert.Equal(t, model.NotePriorityMedium, note.Priority)
	assert.Equal(t, int64(100), note.SortKey)

	tags, err := note.TagList()
	assert.NoError(t, err)
	assert.Equal(t, []string{"editing", "draft"}, tags)
}

func TestNoteService_CreateNoteRequiresScopePath(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()
	notes := NewNoteService(f.store)

	// chapter note without a chapter id
	_, err := notes.CreateNote(ctx, model.NoteScopeChapter, f.partPath(), NoteData{Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = notes.CreateNote(ctx, model.NoteScopeBook, f.bookPath(), NoteData{})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = notes.CreateNote(ctx, model.NoteScope("margin"), f.bookPath(), NoteData{Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNoteService_ListNotesByScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()
	notes := NewNoteService(f.store)

	_, err := notes.CreateNote(ctx, model.NoteScopeBook, f.bookPath(), NoteData{Title: "Cover idea"})
	assert.NoError(t, err)
	_, err = notes.CreateNote(ctx, model.NoteScopeChapter, f.chapterPath(), NoteData{Title: "Needs rewrite"})
	assert.NoError(t, err)

	bookNotes, err := notes.ListNotes(ctx, model.NoteScopeBook, f.bookPath())
	assert.NoError(t, err)
	assert.Len(t, bookNotes, 1)
	assert.Equal(t, "Cover idea", bookNotes[0].Title)

	chapterNotes, err := notes.ListNotes(ctx, model.NoteScopeChapter, f.chapterPath())
	assert.NoError(t, err)
	assert.Len(t, chapterNotes, 1)
	assert.Equal(t, "Needs rewrite", chapterNotes[0].Title)
}

func TestNoteService_UpdateAndArchive(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()
	notes := NewNoteService(f.store)

	note, err := notes.CreateNote(ctx, model.NoteScopeSection, f.sectionPath(), NoteData{Title: "Check command output"})
	assert.NoError(t, err)

	high := model.NotePriorityHigh
	updated, err := notes.UpdateNote(ctx, note.ID, NotePatch{Priority: &high})
	assert.NoError(t, err)
	assert.Equal(t, model.NotePriorityHigh, updated.Priority)
	assert.Equal(t, note.Title, updated.Title)

	archived, err := notes.ArchiveNote(ctx, note.ID, true)
	assert.NoError(t, err)
	assert.True(t, archived.Archived)

	err = notes.DeleteNote(ctx, note.ID)
	assert.NoError(t, err)

	_, err = notes.GetNote(ctx, note.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = notes.DeleteNote(ctx, note.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
