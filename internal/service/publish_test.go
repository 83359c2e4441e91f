package service

import (
	"context"
	"testing"

	"github.com/emrgen/book/internal/model"
	"github.com/emrgen/book/internal/tester"
	"github.com/stretchr/testify/assert"
)

func newPublisher(t *testing.T, f *fixture) *Publisher {
	publisher, err := NewPublisher(f.store, tester.Memory(), "gzip")
	assert.NoError(t, err)
	return publisher
}

func TestPublisher_PublishBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()
	publisher := newPublisher(t, f)

	published, err := publisher.PublishBook(ctx, f.bookPath(), "")
	assert.NoError(t, err)
	assert.Equal(t, f.book.ID, published.ID)
	assert.Equal(t, "0.0.1", published.Version)

	// the book flips to published status
	book, err := f.store.GetBook(ctx, f.ownerID, f.book.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.BookStatusPublished, book.Status)

	// republishing without a version bumps the patch
	published, err = publisher.PublishBook(ctx, f.bookPath(), "")
	assert.NoError(t, err)
	assert.Equal(t, "0.0.2", published.Version)

	// an explicit version must be greater than the latest
	_, err = publisher.PublishBook(ctx, f.bookPath(), "0.0.2")
	assert.ErrorIs(t, err, ErrVersionNotGreater)

	published, err = publisher.PublishBook(ctx, f.bookPath(), "1.0.0")
	assert.NoError(t, err)
	assert.Equal(t, "1.0.0", published.Version)
}

func TestPublisher_GetPublishedBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()
	publisher := newPublisher(t, f)

	_, err := publisher.PublishBook(ctx, f.bookPath(), "")
	assert.NoError(t, err)

	// mutate after publishing, the snapshot must not change
	title := "Renamed After Publish"
	_, err = f.mut.UpdateBook(ctx, f.bookPath(), BookPatch{Title: &title})
	assert.NoError(t, err)

	view, err := publisher.GetPublishedBook(ctx, f.book.ID, "")
	assert.NoError(t, err)
	assert.Equal(t, "0.0.1", view.Version)
	assert.Equal(t, "The Go Workshop", view.View.Book.Title)
	assert.Len(t, view.View.Parts, 1)
	assert.Equal(t, f.part.ID, view.View.Parts[0].Part.ID)

	// a specific version resolves too
	view, err = publisher.GetPublishedBook(ctx, f.book.ID, "0.0.1")
	assert.NoError(t, err)
	assert.Equal(t, "0.0.1", view.Version)

	_, err = publisher.GetPublishedBook(ctx, f.book.ID, "9.9.9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublisher_LatestMetaReadsThroughCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()
	publisher := newPublisher(t, f)

	_, err := publisher.PublishBook(ctx, f.bookPath(), "")
	assert.NoError(t, err)

	meta, err := publisher.GetLatestPublishedMeta(ctx, f.book.ID)
	assert.NoError(t, err)
	assert.Equal(t, "0.0.1", meta.Version)
	assert.Equal(t, "The Go Workshop", meta.Title)
}

func TestPublisher_ListVersionsAndUnpublish(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()
	publisher := newPublisher(t, f)

	_, err := publisher.PublishBook(ctx, f.bookPath(), "")
	assert.NoError(t, err)
	_, err = publisher.PublishBook(ctx, f.bookPath(), "")
	assert.NoError(t, err)

	versions, err := publisher.ListPublishedVersions(ctx, f.book.ID)
	assert.NoError(t, err)
	assert.Len(t, versions, 2)

	err = publisher.UnpublishBook(ctx, f.bookPath())
	assert.NoError(t, err)

	versions, err = publisher.ListPublishedVersions(ctx, f.book.ID)
	assert.NoError(t, err)
	assert.Len(t, versions, 0)

	book, err := f.store.GetBook(ctx, f.ownerID, f.book.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.BookStatusDraft, book.Status)
}
