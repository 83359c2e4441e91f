package service

import (
	"context"

	"github.com/emrgen/book/internal/model"
	"github.com/emrgen/book/internal/queue"
	"github.com/emrgen/book/internal/store"
	"github.com/google/uuid"
)

// MoveChapter relocates a chapter to the end of another part. The
// relocation runs in one transaction: a concurrent reader sees the
// chapter at exactly the source or the target, never both or neither.
// Moving a chapter onto its own part is a no-op.
func (m *Mutator) MoveChapter(ctx context.Context, chapterID string, from, to Path) (*model.Chapter, error) {
	if err := from.requirePart(); err != nil {
		return nil, err
	}
	if err := to.requirePart(); err != nil {
		return nil, err
	}

	if from == to {
		chapter, err := m.store.GetChapter(ctx, from.PartID, chapterID)
		if err != nil {
			return nil, notFound(err)
		}
		return chapter, nil
	}

	var moved *model.Chapter
	err := m.store.Transaction(ctx, func(tx store.Store) error {
		chapter, err := tx.GetChapter(ctx, from.PartID, chapterID)
		if err != nil {
			return notFound(err)
		}

		last, err := tx.MaxChapterSortKey(ctx, to.PartID)
		if err != nil {
			return err
		}

		chapter.BookID = to.BookID
		chapter.PartID = to.PartID
		chapter.SortKey = NextSortKey(last)

		if err := tx.UpdateChapter(ctx, chapter); err != nil {
			return err
		}

		moved = chapter
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.emit(ctx, queue.EventMoved, "chapter", chapterID, to.BookID)
	return moved, nil
}

// StageChapterMove copies a chapter to the end of another part and
// leaves the original behind as pending_deletion. The copy gets a new
// id; the original stays visible until its removal is confirmed with
// ConfirmChapterRemoval.
func (m *Mutator) StageChapterMove(ctx context.Context, chapterID string, from, to Path) (*model.Chapter, error) {
	if err := from.requirePart(); err != nil {
		return nil, err
	}
	if err := to.requirePart(); err != nil {
		return nil, err
	}
	if from == to {
		chapter, err := m.store.GetChapter(ctx, from.PartID, chapterID)
		if err != nil {
			return nil, notFound(err)
		}
		return chapter, nil
	}

	var copied *model.Chapter
	err := m.store.Transaction(ctx, func(tx store.Store) error {
		source, err := tx.GetChapter(ctx, from.PartID, chapterID)
		if err != nil {
			return notFound(err)
		}

		last, err := tx.MaxChapterSortKey(ctx, to.PartID)
		if err != nil {
			return err
		}

		copied = &model.Chapter{
			ID:      uuid.New().String(),
			OwnerID: source.OwnerID,
			BookID:  to.BookID,
			PartID:  to.PartID,
			Title:   source.Title,
			Summary: source.Summary,
			Status:  model.ChapterStatusActive,
			SortKey: NextSortKey(last),
		}

		if err := tx.CreateChapter(ctx, copied); err != nil {
			return err
		}

		source.Status = model.ChapterStatusPendingDeletion
		return tx.UpdateChapter(ctx, source)
	})
	if err != nil {
		return nil, err
	}

	m.emit(ctx, queue.EventMoved, "chapter", copied.ID, to.BookID)
	return copied, nil
}

// ConfirmChapterRemoval deletes a chapter previously staged for a move.
// Chapters still active are refused.
func (m *Mutator) ConfirmChapterRemoval(ctx context.Context, path Path) error {
	if err := path.requireChapter(); err != nil {
		return err
	}

	chapter, err := m.store.GetChapter(ctx, path.PartID, path.ChapterID)
	if err != nil {
		return notFound(err)
	}

	if chapter.Status != model.ChapterStatusPendingDeletion {
		return ErrNotPendingDeletion
	}

	if err := m.store.DeleteChapter(ctx, path.PartID, path.ChapterID); err != nil {
		return notFound(err)
	}

	m.emit(ctx, queue.EventDeleted, "chapter", path.ChapterID, path.BookID)
	return nil
}

// MoveSection relocates a section to the end of another chapter, in one
// transaction. Moving a section onto its own chapter is a no-op.
func (m *Mutator) MoveSection(ctx context.Context, sectionID string, from, to Path) (*model.Section, error) {
	if err := from.requireChapter(); err != nil {
		return nil, err
	}
	if err := to.requireChapter(); err != nil {
		return nil, err
	}

	if from == to {
		section, err := m.store.GetSection(ctx, from.ChapterID, sectionID)
		if err != nil {
			return nil, notFound(err)
		}
		return section, nil
	}

	var moved *model.Section
	err := m.store.Transaction(ctx, func(tx store.Store) error {
		section, err := tx.GetSection(ctx, from.ChapterID, sectionID)
		if err != nil {
			return notFound(err)
		}

		last, err := tx.MaxSectionSortKey(ctx, to.ChapterID)
		if err != nil {
			return err
		}

		section.BookID = to.BookID
		section.PartID = to.PartID
		section.ChapterID = to.ChapterID
		section.SortKey = NextSortKey(last)

		if err := tx.UpdateSection(ctx, section); err != nil {
			return err
		}

		moved = section
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.emit(ctx, queue.EventMoved, "section", sectionID, to.BookID)
	return moved, nil
}

// MoveBlock relocates a block to the end of another section, in one
// transaction. Moving a block onto its own section is a no-op.
func (m *Mutator) MoveBlock(ctx context.Context, blockID string, from, to Path) (*model.Block, error) {
	if err := from.requireSection(); err != nil {
		return nil, err
	}
	if err := to.requireSection(); err != nil {
		return nil, err
	}

	if from == to {
		block, err := m.store.GetBlock(ctx, from.SectionID, blockID)
		if err != nil {
			return nil, notFound(err)
		}
		return block, nil
	}

	var moved *model.Block
	err := m.store.Transaction(ctx, func(tx store.Store) error {
		block, err := tx.GetBlock(ctx, from.SectionID, blockID)
		if err != nil {
			return notFound(err)
		}

		last, err := tx.MaxBlockSortKey(ctx, to.SectionID)
		if err != nil {
			return err
		}

		block.BookID = to.BookID
		block.PartID = to.PartID
		block.ChapterID = to.ChapterID
		block.SectionID = to.SectionID
		block.SortKey = NextSortKey(last)

		if err := tx.UpdateBlock(ctx, block); err != nil {
			return err
		}

		moved = block
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.emit(ctx, queue.EventMoved, "block", blockID, to.BookID)
	return moved, nil
}
