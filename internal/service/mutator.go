package service

import (
	"context"
	"time"

	"github.com/emrgen/book/internal/model"
	"github.com/emrgen/book/internal/queue"
	"github.com/emrgen/book/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewMutator creates a new Mutator. Change events go to the given
// publisher, queue.NewNop() when no broker is configured.
func NewMutator(store store.Store, events queue.Publisher) *Mutator {
	return &Mutator{
		store:  store,
		events: events,
	}
}

// Mutator performs create, update, delete, move and reorder operations
// against the store, maintaining sibling sort keys and denormalized
// ancestor ids. Errors from the store surface to the caller unchanged,
// no retries.
type Mutator struct {
	store  store.Store
	events queue.Publisher
}

type BookData struct {
	Title   string
	Summary string
}

type PartData struct {
	Title   string
	Summary string
}

type ChapterData struct {
	Title   string
	Summary string
}

type SectionData struct {
	Title   string
	Summary string
	Content string
}

type BlockData struct {
	Text    string
	Summary string
}

type BookPatch struct {
	Title   *string
	Summary *string
	Status  *model.BookStatus
}

type PartPatch struct {
	Title   *string
	Summary *string
}

type ChapterPatch struct {
	Title   *string
	Summary *string
}

type SectionPatch struct {
	Title   *string
	Summary *string
	Content *string
}

type BlockPatch struct {
	Text    *string
	Summary *string
}

// CreateBook creates a book at the end of the owner's book list.
func (m *Mutator) CreateBook(ctx context.Context, path Path, data BookData) (*model.Book, error) {
	if err := path.requireOwner(); err != nil {
		return nil, err
	}
	if data.Title == "" {
		return nil, ErrEmptyTitle
	}

	last, err := m.store.MaxBookSortKey(ctx, path.OwnerID)
	if err != nil {
		return nil, err
	}

	book := &model.Book{
		ID:      uuid.New().String(),
		OwnerID: path.OwnerID,
		Title:   data.Title,
		Summary: data.Summary,
		Status:  model.BookStatusDraft,
		SortKey: NextSortKey(last),
	}

	if err := m.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	m.emit(ctx, queue.EventCreated, "book", book.ID, book.ID)
	return book, nil
}

// CreatePart appends a part to a book.
func (m *Mutator) CreatePart(ctx context.Context, path Path, data PartData) (*model.Part, error) {
	if err := path.requireBook(); err != nil {
		return nil, err
	}
	if data.Title == "" {
		return nil, ErrEmptyTitle
	}

	last, err := m.store.MaxPartSortKey(ctx, path.BookID)
	if err != nil {
		return nil, err
	}

	part := &model.Part{
		ID:      uuid.New().String(),
		OwnerID: path.OwnerID,
		BookID:  path.BookID,
		Title:   data.Title,
		Summary: data.Summary,
		SortKey: NextSortKey(last),
	}

	if err := m.store.CreatePart(ctx, part); err != nil {
		return nil, err
	}

	m.emit(ctx, queue.EventCreated, "part", part.ID, part.BookID)
	return part, nil
}

// CreateChapter appends a chapter to a part.
func (m *Mutator) CreateChapter(ctx context.Context, path Path, data ChapterData) (*model.Chapter, error) {
	if err := path.requirePart(); err != nil {
		return nil, err
	}
	if data.Title == "" {
		return nil, ErrEmptyTitle
	}

	last, err := m.store.MaxChapterSortKey(ctx, path.PartID)
	if err != nil {
		return nil, err
	}

	chapter := &model.Chapter{
		ID:      uuid.New().String(),
		OwnerID: path.OwnerID,
		BookID:  path.BookID,
		PartID:  path.PartID,
		Title:   data.Title,
		Summary: data.Summary,
		Status:  model.ChapterStatusActive,
		SortKey: NextSortKey(last),
	}

	if err := m.store.CreateChapter(ctx, chapter); err != nil {
		return nil, err
	}

	m.emit(ctx, queue.EventCreated, "chapter", chapter.ID, chapter.BookID)
	return chapter, nil
}

// CreateSection appends a section to a chapter.
func (m *Mutator) CreateSection(ctx context.Context, path Path, data SectionData) (*model.Section, error) {
	if err := path.requireChapter(); err != nil {
		return nil, err
	}
	if data.Title == "" {
		return nil, ErrEmptyTitle
	}

	last, err := m.store.MaxSectionSortKey(ctx, path.ChapterID)
	if err != nil {
		return nil, err
	}

	section := &model.Section{
		ID:        uuid.New().String(),
		OwnerID:   path.OwnerID,
		BookID:    path.BookID,
		PartID:    path.PartID,
		ChapterID: path.ChapterID,
		Title:     data.Title,
		Summary:   data.Summary,
		Content:   data.Content,
		SortKey:   NextSortKey(last),
	}

	if err := m.store.CreateSection(ctx, section); err != nil {
		return nil, err
	}

	m.emit(ctx, queue.EventCreated, "section", section.ID, section.BookID)
	return section, nil
}

// CreateBlock appends a block to a section. Blocks carry text instead
// of a title, an empty text is still a valid block.
func (m *Mutator) CreateBlock(ctx context.Context, path Path, data BlockData) (*model.Block, error) {
	if err := path.requireSection(); err != nil {
		return nil, err
	}

	last, err := m.store.MaxBlockSortKey(ctx, path.SectionID)
	if err != nil {
		return nil, err
	}

	block := &model.Block{
		ID:        uuid.New().String(),
		OwnerID:   path.OwnerID,
		BookID:    path.BookID,
		PartID:    path.PartID,
		ChapterID: path.ChapterID,
		SectionID: path.SectionID,
		Text:      data.Text,
		Summary:   data.Summary,
		SortKey:   NextSortKey(last),
	}

	if err := m.store.CreateBlock(ctx, block); err != nil {
		return nil, err
	}

	m.emit(ctx, queue.EventCreated, "block", block.ID, block.BookID)
	return block, nil
}

// UpdateBook merges the patch into the book. Sort key and ancestry are
// never touched by updates.
func (m *Mutator) UpdateBook(ctx context.Context, path Path, patch BookPatch) (*model.Book, error) {
	if err := path.requireBook(); err != nil {
		return nil, err
	}

	book, err := m.store.GetBook(ctx, path.OwnerID, path.BookID)
	if err != nil {
		return nil, notFound(err)
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, ErrEmptyTitle
		}
		book.Title = *patch.Title
	}
	if patch.Summary != nil {
		book.Summary = *patch.Summary
	}
	if patch.Status != nil {
		book.Status = *patch.Status
	}

	if err := m.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}

	m.emit(ctx, queue.EventUpdated, "book", book.ID, book.ID)
	return book, nil
}

// UpdatePart merges the patch into the part.
func (m *Mutator) UpdatePart(ctx context.Context, path Path, patch PartPatch) (*model.Part, error) {
	if err := path.requirePart(); err != nil {
		return nil, err
	}

	part, err := m.store.GetPart(ctx, path.BookID, path.PartID)
	if err != nil {
		return nil, notFound(err)
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, ErrEmptyTitle
		}
		part.Title = *patch.Title
	}
	if patch.Summary != nil {
		part.Summary = *patch.Summary
	}

	if err := m.store.UpdatePart(ctx, part); err != nil {
		return nil, err
	}

	m.emit(ctx, queue.EventUpdated, "part", part.ID, part.BookID)
	return part, nil
}

// UpdateChapter merges the patch into the chapter.
func (m *Mutator) UpdateChapter(ctx context.Context, path Path, patch ChapterPatch) (*model.Chapter, error) {
	if err := path.requireChapter(); err != nil {
		return nil, err
	}

	chapter, err := m.store.GetChapter(ctx, path.PartID, path.ChapterID)
	if err != nil {
		return nil, notFound(err)
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, ErrEmptyTitle
		}
		chapter.Title = *patch.Title
	}
	if patch.Summary != nil {
		chapter.Summary = *patch.Summary
	}

	if err := m.store.UpdateChapter(ctx, chapter); err != nil {
		return nil, err
	}

	m.emit(ctx, queue.EventUpdated, "chapter", chapter.ID, chapter.BookID)
	return chapter, nil
}

// UpdateSection merges the patch into the section.
func (m *Mutator) UpdateSection(ctx context.Context, path Path, patch SectionPatch) (*model.Section, error) {
	if err := path.requireSection(); err != nil {
		return nil, err
	}

	section, err := m.store.GetSection(ctx, path.ChapterID, path.SectionID)
	if err != nil {
		return nil, notFound(err)
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, ErrEmptyTitle
		}
		section.Title = *patch.Title
	}
	if patch.Summary != nil {
		section.Summary = *patch.Summary
	}
	if patch.Content != nil {
		section.Content = *patch.Content
	}

	if err := m.store.UpdateSection(ctx, section); err != nil {
		return nil, err
	}

	m.emit(ctx, queue.EventUpdated, "section", section.ID, section.BookID)
	return section, nil
}

// UpdateBlock merges the patch into the block.
func (m *Mutator) UpdateBlock(ctx context.Context, path Path, blockID string, patch BlockPatch) (*model.Block, error) {
	if err := path.requireSection(); err != nil {
		return nil, err
	}

	block, err := m.store.GetBlock(ctx, path.SectionID, blockID)
	if err != nil {
		return nil, notFound(err)
	}

	if patch.Text != nil {
		block.Text = *patch.Text
	}
	if patch.Summary != nil {
		block.Summary = *patch.Summary
	}

	if err := m.store.UpdateBlock(ctx, block); err != nil {
		return nil, err
	}

	m.emit(ctx, queue.EventUpdated, "block", block.ID, block.BookID)
	return block, nil
}

// DeleteBook removes the book row only. Descendant rows stay behind
// until swept or removed with DeleteBookWithDescendants.
func (m *Mutator) DeleteBook(ctx context.Context, path Path) error {
	if err := path.requireBook(); err != nil {
		return err
	}

	if err := m.store.DeleteBook(ctx, path.OwnerID, path.BookID); err != nil {
		return notFound(err)
	}

	m.emit(ctx, queue.EventDeleted, "book", path.BookID, path.BookID)
	return nil
}

// DeleteBookWithDescendants removes the book and its whole subtree in
// one transaction.
func (m *Mutator) DeleteBookWithDescendants(ctx context.Context, path Path) error {
	if err := path.requireBook(); err != nil {
		return err
	}

	err := m.store.Transaction(ctx, func(tx store.Store) error {
		return tx.DeleteBookTree(ctx, path.OwnerID, path.BookID)
	})
	if err != nil {
		return notFound(err)
	}

	m.emit(ctx, queue.EventDeleted, "book", path.BookID, path.BookID)
	return nil
}

// DeletePart removes the part row only.
func (m *Mutator) DeletePart(ctx context.Context, path Path) error {
	if err := path.requirePart(); err != nil {
		return err
	}

	if err := m.store.DeletePart(ctx, path.BookID, path.PartID); err != nil {
		return notFound(err)
	}

	m.emit(ctx, queue.EventDeleted, "part", path.PartID, path.BookID)
	return nil
}

// DeletePartWithDescendants removes the part and its subtree in one
// transaction.
func (m *Mutator) DeletePartWithDescendants(ctx context.Context, path Path) error {
	if err := path.requirePart(); err != nil {
		return err
	}

	err := m.store.Transaction(ctx, func(tx store.Store) error {
		return tx.DeletePartTree(ctx, path.BookID, path.PartID)
	})
	if err != nil {
		return notFound(err)
	}

	m.emit(ctx, queue.EventDeleted, "part", path.PartID, path.BookID)
	return nil
}

// DeleteChapter removes the chapter row only.
func (m *Mutator) DeleteChapter(ctx context.Context, path Path) error {
	if err := path.requireChapter(); err != nil {
		return err
	}

	if err := m.store.DeleteChapter(ctx, path.PartID, path.ChapterID); err != nil {
		return notFound(err)
	}

	m.emit(ctx, queue.EventDeleted, "chapter", path.ChapterID, path.BookID)
	return nil
}

// DeleteChapterWithDescendants removes the chapter and its subtree in
// one transaction.
func (m *Mutator) DeleteChapterWithDescendants(ctx context.Context, path Path) error {
	if err := path.requireChapter(); err != nil {
		return err
	}

	err := m.store.Transaction(ctx, func(tx store.Store) error {
		return tx.DeleteChapterTree(ctx, path.PartID, path.ChapterID)
	})
	if err != nil {
		return notFound(err)
	}

	m.emit(ctx, queue.EventDeleted, "chapter", path.ChapterID, path.BookID)
	return nil
}

// DeleteSection removes the section row only.
func (m *Mutator) DeleteSection(ctx context.Context, path Path) error {
	if err := path.requireSection(); err != nil {
		return err
	}

	if err := m.store.DeleteSection(ctx, path.ChapterID, path.SectionID); err != nil {
		return notFound(err)
	}

	m.emit(ctx, queue.EventDeleted, "section", path.SectionID, path.BookID)
	return nil
}

// DeleteSectionWithDescendants removes the section and its blocks and
// notes in one transaction.
func (m *Mutator) DeleteSectionWithDescendants(ctx context.Context, path Path) error {
	if err := path.requireSection(); err != nil {
		return err
	}

	err := m.store.Transaction(ctx, func(tx store.Store) error {
		return tx.DeleteSectionTree(ctx, path.ChapterID, path.SectionID)
	})
	if err != nil {
		return notFound(err)
	}

	m.emit(ctx, queue.EventDeleted, "section", path.SectionID, path.BookID)
	return nil
}

// DeleteBlock removes a block.
func (m *Mutator) DeleteBlock(ctx context.Context, path Path, blockID string) error {
	if err := path.requireSection(); err != nil {
		return err
	}

	if err := m.store.DeleteBlock(ctx, path.SectionID, blockID); err != nil {
		return notFound(err)
	}

	m.emit(ctx, queue.EventDeleted, "block", blockID, path.BookID)
	return nil
}

// emit publishes a change event. Delivery failures are logged and
// dropped, structural operations never fail on the event stream.
func (m *Mutator) emit(ctx context.Context, kind, entity, id, bookID string) {
	err := m.events.Publish(ctx, &queue.Event{
		Kind:   kind,
		Entity: entity,
		ID:     id,
		BookID: bookID,
		At:     time.Now(),
	})
	if err != nil {
		logrus.Errorf("error publishing %s event for %s %s: %v", kind, entity, id, err)
	}
}
