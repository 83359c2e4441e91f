package job

import (
	"context"
	"time"

	"github.com/emrgen/book/internal/store"
	"github.com/sirupsen/logrus"
)

// PendingChapterReaper reports chapters left in pending_deletion after a
// staged move was never confirmed. It only reports; confirming or
// reverting the move stays a user decision.
type PendingChapterReaper struct {
	store store.Store
	grace time.Duration
}

func NewPendingChapterReaper(store store.Store, grace time.Duration) *PendingChapterReaper {
	return &PendingChapterReaper{
		store: store,
		grace: grace,
	}
}

func (r *PendingChapterReaper) Schedule() string {
	return "@every 1h"
}

func (r *PendingChapterReaper) Run() {
	chapters, err := r.store.ListChaptersPendingDeletion(context.Background(), time.Now().Add(-r.grace))
	if err != nil {
		logrus.Errorf("error listing pending chapters: %v", err)
		return
	}

	for _, chapter := range chapters {
		logrus.Warnf("chapter %s (%q) pending deletion since %s, awaiting confirmation",
			chapter.ID, chapter.Title, chapter.UpdatedAt.Format(time.RFC3339))
	}
}
