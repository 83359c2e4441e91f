package job

import (
	"context"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/book/internal/store"
	"github.com/sirupsen/logrus"
)

// OrphanSweeper periodically reports descendant rows whose parent was
// removed with a shallow delete. With purge enabled the orphans are
// removed, bottom up so a purged parent does not strand new orphans for
// the next run.
type OrphanSweeper struct {
	store store.Store
	purge bool
}

func NewOrphanSweeper(store store.Store, purge bool) *OrphanSweeper {
	return &OrphanSweeper{
		store: store,
		purge: purge,
	}
}

func (s *OrphanSweeper) Schedule() string {
	return "@every 10m"
}

func (s *OrphanSweeper) Run() {
	ctx := context.Background()

	blocks, err := s.store.ListOrphanBlocks(ctx)
	if err != nil {
		logrus.Errorf("error listing orphan blocks: %v", err)
		return
	}
	sections, err := s.store.ListOrphanSections(ctx)
	if err != nil {
		logrus.Errorf("error listing orphan sections: %v", err)
		return
	}
	chapters, err := s.store.ListOrphanChapters(ctx)
	if err != nil {
		logrus.Errorf("error listing orphan chapters: %v", err)
		return
	}
	parts, err := s.store.ListOrphanParts(ctx)
	if err != nil {
		logrus.Errorf("error listing orphan parts: %v", err)
		return
	}

	total := len(blocks) + len(sections) + len(chapters) + len(parts)
	if total == 0 {
		return
	}

	// books that lost structure to shallow deletes
	books := goset.NewSet[string]()
	for _, p := range parts {
		books.Add(p.BookID)
	}
	for _, c := range chapters {
		books.Add(c.BookID)
	}
	for _, sec := range sections {
		books.Add(sec.BookID)
	}
	for _, b := range blocks {
		books.Add(b.BookID)
	}

	logrus.Infof("orphan sweep: %d parts, %d chapters, %d sections, %d blocks across books %v",
		len(parts), len(chapters), len(sections), len(blocks), books.ToSlice())

	if !s.purge {
		return
	}

	err = s.store.Transaction(ctx, func(tx store.Store) error {
		for _, b := range blocks {
			if err := tx.DeleteBlock(ctx, b.SectionID, b.ID); err != nil {
				return err
			}
		}
		for _, sec := range sections {
			if err := tx.DeleteSectionTree(ctx, sec.ChapterID, sec.ID); err != nil {
				return err
			}
		}
		for _, c := range chapters {
			if err := tx.DeleteChapterTree(ctx, c.PartID, c.ID); err != nil {
				return err
			}
		}
		for _, p := range parts {
			if err := tx.DeletePartTree(ctx, p.BookID, p.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logrus.Errorf("error purging orphans: %v", err)
		return
	}

	logrus.Infof("orphan sweep purged %d rows", total)
}
