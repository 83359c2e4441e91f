package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/emrgen/book/internal/model"
	"github.com/emrgen/book/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// NewHandler creates the http handler set over the core services.
func NewHandler(nav *service.Navigator, mut *service.Mutator, notes *service.NoteService, publisher *service.Publisher) *Handler {
	return &Handler{
		nav:       nav,
		mut:       mut,
		notes:     notes,
		publisher: publisher,
	}
}

type Handler struct {
	nav       *service.Navigator
	mut       *service.Mutator
	notes     *service.NoteService
	publisher *service.Publisher
}

type createBookRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type createPartRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type createChapterRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type createSectionRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

type createBlockRequest struct {
	Text    string `json:"text"`
	Summary string `json:"summary"`
}

type updateBookRequest struct {
	Title   *string           `json:"title"`
	Summary *string           `json:"summary"`
	Status  *model.BookStatus `json:"status"`
}

type updateTitledRequest struct {
	Title   *string `json:"title"`
	Summary *string `json:"summary"`
	Content *string `json:"content"`
}

type updateBlockRequest struct {
	Text    *string `json:"text"`
	Summary *string `json:"summary"`
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

type moveRequest struct {
	BookID    string `json:"bookId"`
	PartID    string `json:"partId"`
	ChapterID string `json:"chapterId"`
	SectionID string `json:"sectionId"`
}

type publishRequest struct {
	Version string `json:"version"`
}

type createNoteRequest struct {
	Title    string             `json:"title"`
	Content  string             `json:"content"`
	Tags     []string           `json:"tags"`
	Priority model.NotePriority `json:"priority"`
}

type updateNoteRequest struct {
	Title    *string             `json:"title"`
	Content  *string             `json:"content"`
	Tags     *[]string           `json:"tags"`
	Priority *model.NotePriority `json:"priority"`
	Archived *bool               `json:"archived"`
}

type archiveNoteRequest struct {
	Archived bool `json:"archived"`
}

// pathFrom assembles the ancestor path from the url params.
func pathFrom(r *http.Request) service.Path {
	return service.Path{
		OwnerID:   chi.URLParam(r, "userID"),
		BookID:    chi.URLParam(r, "bookID"),
		PartID:    chi.URLParam(r, "partID"),
		ChapterID: chi.URLParam(r, "chapterID"),
		SectionID: chi.URLParam(r, "sectionID"),
	}
}

// noteScopeFrom picks the note scope from the deepest url param present.
func noteScopeFrom(path service.Path) model.NoteScope {
	switch {
	case path.SectionID != "":
		return model.NoteScopeSection
	case path.ChapterID != "":
		return model.NoteScopeChapter
	case path.PartID != "":
		return model.NoteScopePart
	default:
		return model.NoteScopeBook
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logrus.Errorf("error encoding response: %v", err)
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrNotPermutation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNotPendingDeletion),
		errors.Is(err, service.ErrVersionNotGreater):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		logrus.Errorf("internal error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.nav.ListBooks(r.Context(), pathFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if !decode(w, r, &req) {
		return
	}

	book, err := h.mut.CreateBook(r.Context(), pathFrom(r), service.BookData{Title: req.Title, Summary: req.Summary})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (h *Handler) GetBookView(w http.ResponseWriter, r *http.Request) {
	view, err := h.nav.GetBookView(r.Context(), pathFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var req updateBookRequest
	if !decode(w, r, &req) {
		return
	}

	book, err := h.mut.UpdateBook(r.Context(), pathFrom(r), service.BookPatch{
		Title:   req.Title,
		Summary: req.Summary,
		Status:  req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	var err error
	if r.URL.Query().Get("cascade") == "true" {
		err = h.mut.DeleteBookWithDescendants(r.Context(), pathFrom(r))
	} else {
		err = h.mut.DeleteBook(r.Context(), pathFrom(r))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ReorderBooks(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.mut.ReorderBooks(r.Context(), pathFrom(r), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) ListParts(w http.ResponseWriter, r *http.Request) {
	parts, err := h.nav.ListParts(r.Context(), pathFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parts)
}

func (h *Handler) CreatePart(w http.ResponseWriter, r *http.Request) {
	var req createPartRequest
	if !decode(w, r, &req) {
		return
	}

	part, err := h.mut.CreatePart(r.Context(), pathFrom(r), service.PartData{Title: req.Title, Summary: req.Summary})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, part)
}

func (h *Handler) GetPartView(w http.ResponseWriter, r *http.Request) {
	view, err := h.nav.GetPartView(r.Context(), pathFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) UpdatePart(w http.ResponseWriter, r *http.Request) {
	var req updateTitledRequest
	if !decode(w, r, &req) {
		return
	}

	part, err := h.mut.UpdatePart(r.Context(), pathFrom(r), service.PartPatch{Title: req.Title, Summary: req.Summary})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, part)
}

func (h *Handler) DeletePart(w http.ResponseWriter, r *http.Request) {
	var err error
	if r.URL.Query().Get("cascade") == "true" {
		err = h.mut.DeletePartWithDescendants(r.Context(), pathFrom(r))
	} else {
		err = h.mut.DeletePart(r.Context(), pathFrom(r))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ReorderParts(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.mut.ReorderParts(r.Context(), pathFrom(r), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) ListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.nav.ListChapters(r.Context(), pathFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chapters)
}

func (h *Handler) CreateChapter(w http.ResponseWriter, r *http.Request) {
	var req createChapterRequest
	if !decode(w, r, &req) {
		return
	}

	chapter, err := h.mut.CreateChapter(r.Context(), pathFrom(r), service.ChapterData{Title: req.Title, Summary: req.Summary})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, chapter)
}

func (h *Handler) GetChapterView(w http.ResponseWriter, r *http.Request) {
	view, err := h.nav.GetChapterView(r.Context(), pathFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) UpdateChapter(w http.ResponseWriter, r *http.Request) {
	var req updateTitledRequest
	if !decode(w, r, &req) {
		return
	}

	chapter, err := h.mut.UpdateChapter(r.Context(), pathFrom(r), service.ChapterPatch{Title: req.Title, Summary: req.Summary})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chapter)
}

func (h *Handler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	var err error
	if r.URL.Query().Get("cascade") == "true" {
		err = h.mut.DeleteChapterWithDescendants(r.Context(), pathFrom(r))
	} else {
		err = h.mut.DeleteChapter(r.Context(), pathFrom(r))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ReorderChapters(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.mut.ReorderChapters(r.Context(), pathFrom(r), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// target returns the move destination path, inheriting any id the
// request leaves empty from the source path.
func (m moveRequest) target(from service.Path) service.Path {
	to := from
	if m.BookID != "" {
		to.BookID = m.BookID
	}
	if m.PartID != "" {
		to.PartID = m.PartID
	}
	if m.ChapterID != "" {
		to.ChapterID = m.ChapterID
	}
	if m.SectionID != "" {
		to.SectionID = m.SectionID
	}
	return to
}

func (h *Handler) MoveChapter(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}

	from := pathFrom(r)
	chapterID := from.ChapterID
	from.ChapterID = ""
	to := req.target(from)

	chapter, err := h.mut.MoveChapter(r.Context(), chapterID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chapter)
}

func (h *Handler) StageChapterMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}

	from := pathFrom(r)
	chapterID := from.ChapterID
	from.ChapterID = ""
	to := req.target(from)

	chapter, err := h.mut.StageChapterMove(r.Context(), chapterID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chapter)
}

func (h *Handler) ConfirmChapterRemoval(w http.ResponseWriter, r *http.Request) {
	if err := h.mut.ConfirmChapterRemoval(r.Context(), pathFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.nav.ListSections(r.Context(), pathFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var req createSectionRequest
	if !decode(w, r, &req) {
		return
	}

	section, err := h.mut.CreateSection(r.Context(), pathFrom(r), service.SectionData{
		Title:   req.Title,
		Summary: req.Summary,
		Content: req.Content,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, section)
}

func (h *Handler) GetSectionView(w http.ResponseWriter, r *http.Request) {
	view, err := h.nav.GetSectionView(r.Context(), pathFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	var req updateTitledRequest
	if !decode(w, r, &req) {
		return
	}

	section, err := h.mut.UpdateSection(r.Context(), pathFrom(r), service.SectionPatch{
		Title:   req.Title,
		Summary: req.Summary,
		Content: req.Content,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	var err error
	if r.URL.Query().Get("cascade") == "true" {
		err = h.mut.DeleteSectionWithDescendants(r.Context(), pathFrom(r))
	} else {
		err = h.mut.DeleteSection(r.Context(), pathFrom(r))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.mut.ReorderSections(r.Context(), pathFrom(r), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) MoveSection(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}

	from := pathFrom(r)
	sectionID := from.SectionID
	from.SectionID = ""
	to := req.target(from)

	section, err := h.mut.MoveSection(r.Context(), sectionID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (h *Handler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.nav.ListBlocks(r.Context(), pathFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blocks)
}

func (h *Handler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var req createBlockRequest
	if !decode(w, r, &req) {
		return
	}

	block, err := h.mut.CreateBlock(r.Context(), pathFrom(r), service.BlockData{Text: req.Text, Summary: req.Summary})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, block)
}

func (h *Handler) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	var req updateBlockRequest
	if !decode(w, r, &req) {
		return
	}

	block, err := h.mut.UpdateBlock(r.Context(), pathFrom(r), chi.URLParam(r, "blockID"), service.BlockPatch{
		Text:    req.Text,
		Summary: req.Summary,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

func (h *Handler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	if err := h.mut.DeleteBlock(r.Context(), pathFrom(r), chi.URLParam(r, "blockID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ReorderBlocks(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.mut.ReorderBlocks(r.Context(), pathFrom(r), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) MoveBlock(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}

	from := pathFrom(r)
	to := req.target(from)

	block, err := h.mut.MoveBlock(r.Context(), chi.URLParam(r, "blockID"), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if !decode(w, r, &req) {
		return
	}

	path := pathFrom(r)
	note, err := h.notes.CreateNote(r.Context(), noteScopeFrom(path), path, service.NoteData{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Priority: req.Priority,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	path := pathFrom(r)
	notes, err := h.notes.ListNotes(r.Context(), noteScopeFrom(path), path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.GetNote(r.Context(), chi.URLParam(r, "noteID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req updateNoteRequest
	if !decode(w, r, &req) {
		return
	}

	note, err := h.notes.UpdateNote(r.Context(), chi.URLParam(r, "noteID"), service.NotePatch{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Priority: req.Priority,
		Archived: req.Archived,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.DeleteNote(r.Context(), chi.URLParam(r, "noteID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ArchiveNote(w http.ResponseWriter, r *http.Request) {
	var req archiveNoteRequest
	if !decode(w, r, &req) {
		return
	}

	note, err := h.notes.ArchiveNote(r.Context(), chi.URLParam(r, "noteID"), req.Archived)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) PublishBook(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if !decode(w, r, &req) {
		return
	}

	published, err := h.publisher.PublishBook(r.Context(), pathFrom(r), req.Version)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      published.ID,
		"version": published.Version,
	})
}

func (h *Handler) UnpublishBook(w http.ResponseWriter, r *http.Request) {
	if err := h.publisher.UnpublishBook(r.Context(), pathFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) GetPublishedBook(w http.ResponseWriter, r *http.Request) {
	view, err := h.publisher.GetPublishedBook(r.Context(), chi.URLParam(r, "bookID"), r.URL.Query().Get("version"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) ListPublishedVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.publisher.ListPublishedVersions(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		writeError(w, err)
		return
	}

	type versionInfo struct {
		Version   string `json:"version"`
		CreatedAt string `json:"createdAt"`
	}
	out := make([]versionInfo, 0, len(versions))
	for _, v := range versions {
		out = append(out, versionInfo{Version: v.Version, CreatedAt: v.CreatedAt.Format("2006-01-02T15:04:05Z07:00")})
	}
	writeJSON(w, http.StatusOK, out)
}
