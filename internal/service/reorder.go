package service

import (
	"context"

	"github.com/emrgen/book/internal/queue"
	"github.com/emrgen/book/internal/store"
)

// ReorderBooks rewrites the sort keys of the owner's books to match the
// given permutation. The reindex runs in one transaction: a reader sees
// the old order or the new order, never a partial rewrite.
func (m *Mutator) ReorderBooks(ctx context.Context, path Path, orderedIDs []string) error {
	if err := path.requireOwner(); err != nil {
		return err
	}

	err := m.store.Transaction(ctx, func(tx store.Store) error {
		books, err := tx.ListBooks(ctx, path.OwnerID)
		if err != nil {
			return err
		}

		current := make([]string, 0, len(books))
		for _, book := range books {
			current = append(current, book.ID)
		}
		if err := checkPermutation(orderedIDs, current); err != nil {
			return err
		}

		for i, id := range orderedIDs {
			if err := tx.SetBookSortKey(ctx, path.OwnerID, id, reorderSortKey(i)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.emit(ctx, queue.EventReordered, "book", path.OwnerID, "")
	return nil
}

// ReorderParts rewrites the sort keys of a book's parts to match the
// given permutation.
func (m *Mutator) ReorderParts(ctx context.Context, path Path, orderedIDs []string) error {
	if err := path.requireBook(); err != nil {
		return err
	}

	err := m.store.Transaction(ctx, func(tx store.Store) error {
		parts, err := tx.ListParts(ctx, path.BookID)
		if err != nil {
			return err
		}

		current := make([]string, 0, len(parts))
		for _, part := range parts {
			current = append(current, part.ID)
		}
		if err := checkPermutation(orderedIDs, current); err != nil {
			return err
		}

		for i, id := range orderedIDs {
			if err := tx.SetPartSortKey(ctx, path.BookID, id, reorderSortKey(i)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.emit(ctx, queue.EventReordered, "part", path.BookID, path.BookID)
	return nil
}

// ReorderChapters rewrites the sort keys of a part's chapters to match
// the given permutation.
func (m *Mutator) ReorderChapters(ctx context.Context, path Path, orderedIDs []string) error {
	if err := path.requirePart(); err != nil {
		return err
	}

	err := m.store.Transaction(ctx, func(tx store.Store) error {
		chapters, err := tx.ListChapters(ctx, path.PartID)
		if err != nil {
			return err
		}

		current := make([]string, 0, len(chapters))
		for _, chapter := range chapters {
			current = append(current, chapter.ID)
		}
		if err := checkPermutation(orderedIDs, current); err != nil {
			return err
		}

		for i, id := range orderedIDs {
			if err := tx.SetChapterSortKey(ctx, path.PartID, id, reorderSortKey(i)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.emit(ctx, queue.EventReordered, "chapter", path.PartID, path.BookID)
	return nil
}

// ReorderSections rewrites the sort keys of a chapter's sections to
// match the given permutation.
func (m *Mutator) ReorderSections(ctx context.Context, path Path, orderedIDs []string) error {
	if err := path.requireChapter(); err != nil {
		return err
	}

	err := m.store.Transaction(ctx, func(tx store.Store) error {
		sections, err := tx.ListSections(ctx, path.ChapterID)
		if err != nil {
			return err
		}

		current := make([]string, 0, len(sections))
		for _, section := range sections {
			current = append(current, section.ID)
		}
		if err := checkPermutation(orderedIDs, current); err != nil {
			return err
		}

		for i, id := range orderedIDs {
			if err := tx.SetSectionSortKey(ctx, path.ChapterID, id, reorderSortKey(i)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.emit(ctx, queue.EventReordered, "section", path.ChapterID, path.BookID)
	return nil
}

// ReorderBlocks rewrites the sort keys of a section's blocks to match
// the given permutation.
func (m *Mutator) ReorderBlocks(ctx context.Context, path Path, orderedIDs []string) error {
	if err := path.requireSection(); err != nil {
		return err
	}

	err := m.store.Transaction(ctx, func(tx store.Store) error {
		blocks, err := tx.ListBlocks(ctx, path.SectionID)
		if err != nil {
			return err
		}

		current := make([]string, 0, len(blocks))
		for _, block := range blocks {
			current = append(current, block.ID)
		}
		if err := checkPermutation(orderedIDs, current); err != nil {
			return err
		}

		for i, id := range orderedIDs {
			if err := tx.SetBlockSortKey(ctx, path.SectionID, id, reorderSortKey(i)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.emit(ctx, queue.EventReordered, "block", path.SectionID, path.BookID)
	return nil
}

// checkPermutation verifies that ordered names every current sibling
// exactly once.
func checkPermutation(ordered, current []string) error {
	if len(ordered) != len(current) {
		return ErrNotPermutation
	}

	seen := make(map[string]bool, len(current))
	for _, id := range current {
		seen[id] = true
	}
	for _, id := range ordered {
		if !seen[id] {
			return ErrNotPermutation
		}
		delete(seen, id)
	}
	return nil
}
