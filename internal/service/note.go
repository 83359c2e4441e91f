package service

import (
	"context"
	"fmt"

	"github.com/emrgen/book/internal/model"
	"github.com/emrgen/book/internal/store"
	"github.com/google/uuid"
)

// NewNoteService creates a new NoteService.
func NewNoteService(store store.Store) *NoteService {
	return &NoteService{
		store: store,
	}
}

// NoteService manages annotations attached to tree nodes. A note hangs
// off exactly one of book, part, chapter or section.
type NoteService struct {
	store store.Store
}

type NoteData struct {
	Title    string
	Content  string
	Tags     []string
	Priority model.NotePriority
}

type NotePatch struct {
	Title    *string
	Content  *string
	Tags     *[]string
	Priority *model.NotePriority
	Archived *bool
}

// CreateNote attaches a note at the path's level. The path must carry
// every ancestor id down to the scope, a chapter note without a
// chapterId is an invalid argument.
func (s *NoteService) CreateNote(ctx context.Context, scope model.NoteScope, path Path, data NoteData) (*model.Note, error) {
	if err := requireScope(scope, path); err != nil {
		return nil, err
	}
	if data.Title == "" {
		return nil, ErrEmptyTitle
	}

	priority := data.Priority
	if priority == "" {
		priority = model.NotePriorityMedium
	}

	nodeID := scopeNodeID(scope, path)
	last, err := s.store.MaxNoteSortKey(ctx, scope, nodeID)
	if err != nil {
		return nil, err
	}

	note := &model.Note{
		ID:        uuid.New().String(),
		OwnerID:   path.OwnerID,
		Scope:     scope,
		BookID:    path.BookID,
		PartID:    path.PartID,
		ChapterID: path.ChapterID,
		SectionID: path.SectionID,
		Title:     data.Title,
		Content:   data.Content,
		Priority:  priority,
		SortKey:   NextSortKey(last),
	}
	if err := note.SetTagList(data.Tags); err != nil {
		return nil, err
	}

	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// GetNote retrieves a note by id.
func (s *NoteService) GetNote(ctx context.Context, id string) (*model.Note, error) {
	note, err := s.store.GetNote(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return note, nil
}

// ListNotes lists the notes attached to the path's level, ordered by
// sort key.
func (s *NoteService) ListNotes(ctx context.Context, scope model.NoteScope, path Path) ([]*model.Note, error) {
	if err := requireScope(scope, path); err != nil {
		return nil, err
	}
	return s.store.ListNotes(ctx, scope, scopeNodeID(scope, path))
}

// UpdateNote merges the patch into the note.
func (s *NoteService) UpdateNote(ctx context.Context, id string, patch NotePatch) (*model.Note, error) {
	note, err := s.store.GetNote(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, ErrEmptyTitle
		}
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	if patch.Tags != nil {
		if err := note.SetTagList(*patch.Tags); err != nil {
			return nil, err
		}
	}
	if patch.Priority != nil {
		note.Priority = *patch.Priority
	}
	if patch.Archived != nil {
		note.Archived = *patch.Archived
	}

	if err := s.store.UpdateNote(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// ArchiveNote flips the archived flag.
func (s *NoteService) ArchiveNote(ctx context.Context, id string, archived bool) (*model.Note, error) {
	return s.UpdateNote(ctx, id, NotePatch{Archived: &archived})
}

// DeleteNote removes a note.
func (s *NoteService) DeleteNote(ctx context.Context, id string) error {
	return notFound(s.store.DeleteNote(ctx, id))
}

func requireScope(scope model.NoteScope, path Path) error {
	switch scope {
	case model.NoteScopeBook:
		return path.requireBook()
	case model.NoteScopePart:
		return path.requirePart()
	case model.NoteScopeChapter:
		return path.requireChapter()
	case model.NoteScopeSection:
		return path.requireSection()
	default:
		return fmt.Errorf("%w: unknown note scope %q", ErrInvalidArgument, scope)
	}
}

func scopeNodeID(scope model.NoteScope, path Path) string {
	switch scope {
	case model.NoteScopeBook:
		return path.BookID
	case model.NoteScopePart:
		return path.PartID
	case model.NoteScopeChapter:
		return path.ChapterID
	default:
		return path.SectionID
	}
}
