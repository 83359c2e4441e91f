package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Masterminds/semver"
	"github.com/emrgen/book/internal/cache"
	"github.com/emrgen/book/internal/compress"
	"github.com/emrgen/book/internal/model"
	"github.com/emrgen/book/internal/store"
	"github.com/sirupsen/logrus"
)

const initialPublishVersion = "0.0.1"

const latestPublishedTTL = time.Hour

// NewPublisher creates a new Publisher. Snapshots are stored compressed
// with the named codec.
func NewPublisher(store store.Store, kv cache.KV, codec string) (*Publisher, error) {
	compressor, err := compress.ForCodec(codec)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		store:      store,
		cache:      kv,
		codec:      codec,
		compressor: compressor,
	}, nil
}

// Publisher snapshots a book's composed view under a semver version.
// Republishing bumps the patch version unless a greater version is
// supplied explicitly.
type Publisher struct {
	store      store.Store
	cache      cache.KV
	codec      string
	compressor compress.Compress
}

// PublishedView is a decoded published snapshot.
type PublishedView struct {
	Version string    `json:"version"`
	View    *BookView `json:"view"`
}

// PublishedMeta is the cached latest-version record per book.
type PublishedMeta struct {
	Version string `json:"version"`
	Title   string `json:"title"`
}

func latestPublishedKey(id string) string {
	return "book:published:latest:" + id
}

// PublishBook snapshots the book's full structure and stores it as a new
// published version. The snapshot write, the version bump and the book
// status change commit as one transaction.
func (p *Publisher) PublishBook(ctx context.Context, path Path, requestedVersion string) (*model.PublishedBook, error) {
	if err := path.requireBook(); err != nil {
		return nil, err
	}

	var published *model.PublishedBook
	err := p.store.Transaction(ctx, func(tx store.Store) error {
		view, err := NewNavigator(tx).GetBookView(ctx, path)
		if err != nil {
			return err
		}

		latest, err := tx.GetLatestPublishedBook(ctx, path.BookID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}

		version, err := nextPublishVersion(latest, requestedVersion)
		if err != nil {
			return err
		}

		snapshot, err := json.Marshal(view)
		if err != nil {
			return err
		}
		encoded, err := p.compressor.Encode(snapshot)
		if err != nil {
			return err
		}

		published = &model.PublishedBook{
			ID:       view.Book.ID,
			Version:  version,
			OwnerID:  view.Book.OwnerID,
			Title:    view.Book.Title,
			Snapshot: encoded,
			Codec:    p.codec,
		}

		if err := tx.PublishBook(ctx, published); err != nil {
			return err
		}

		view.Book.Status = model.BookStatusPublished
		return tx.UpdateBook(ctx, view.Book)
	})
	if err != nil {
		return nil, err
	}

	meta := &PublishedMeta{Version: published.Version, Title: published.Title}
	if err := p.cache.Set(ctx, latestPublishedKey(published.ID), meta, latestPublishedTTL); err != nil {
		logrus.Errorf("error updating published cache for book %s: %v", published.ID, err)
	}

	return published, nil
}

// GetPublishedBook retrieves and decodes one published version. An
// empty version resolves to the latest.
func (p *Publisher) GetPublishedBook(ctx context.Context, bookID, version string) (*PublishedView, error) {
	var snapshot []byte
	var codec string

	if version == "" {
		latest, err := p.store.GetLatestPublishedBook(ctx, bookID)
		if err != nil {
			return nil, notFound(err)
		}
		snapshot, codec, version = latest.Snapshot, latest.Codec, latest.Version
	} else {
		row, err := p.store.GetPublishedBookByVersion(ctx, bookID, version)
		if err != nil {
			return nil, notFound(err)
		}
		snapshot, codec = row.Snapshot, row.Codec
	}

	compressor, err := compress.ForCodec(codec)
	if err != nil {
		return nil, err
	}
	data, err := compressor.Decode(snapshot)
	if err != nil {
		return nil, err
	}

	var view BookView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}

	return &PublishedView{Version: version, View: &view}, nil
}

// GetLatestPublishedMeta returns the latest published version and title,
// read through the cache.
func (p *Publisher) GetLatestPublishedMeta(ctx context.Context, bookID string) (*PublishedMeta, error) {
	data, err := p.cache.Get(ctx, latestPublishedKey(bookID))
	if err == nil {
		var meta PublishedMeta
		if err := json.Unmarshal(data, &meta); err == nil {
			return &meta, nil
		}
	}

	latest, err := p.store.GetLatestPublishedBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrLatestPublishedBookNotFound
		}
		return nil, err
	}

	meta := &PublishedMeta{Version: latest.Version, Title: latest.Title}
	if err := p.cache.Set(ctx, latestPublishedKey(bookID), meta, latestPublishedTTL); err != nil {
		logrus.Errorf("error updating published cache for book %s: %v", bookID, err)
	}

	return meta, nil
}

// ListPublishedVersions lists every published version of a book, newest
// first.
func (p *Publisher) ListPublishedVersions(ctx context.Context, bookID string) ([]*model.PublishedBook, error) {
	return p.store.ListPublishedVersions(ctx, bookID)
}

// UnpublishBook removes every published version and returns the book to
// draft status.
func (p *Publisher) UnpublishBook(ctx context.Context, path Path) error {
	if err := path.requireBook(); err != nil {
		return err
	}

	err := p.store.Transaction(ctx, func(tx store.Store) error {
		book, err := tx.GetBook(ctx, path.OwnerID, path.BookID)
		if err != nil {
			return notFound(err)
		}

		if err := tx.UnpublishBook(ctx, book.ID); err != nil {
			return err
		}

		book.Status = model.BookStatusDraft
		return tx.UpdateBook(ctx, book)
	})
	if err != nil {
		return err
	}

	if err := p.cache.Delete(ctx, latestPublishedKey(path.BookID)); err != nil {
		logrus.Errorf("error clearing published cache for book %s: %v", path.BookID, err)
	}

	return nil
}

func nextPublishVersion(latest *model.LatestPublishedBook, requested string) (string, error) {
	if latest == nil {
		version, err := semver.NewVersion(initialPublishVersion)
		if err != nil {
			return "", err
		}

		if requested != "" {
			version, err = semver.NewVersion(requested)
			if err != nil {
				return "", err
			}
		}
		return version.String(), nil
	}

	version, err := semver.NewVersion(latest.Version)
	if err != nil {
		return "", err
	}
	next := version.IncPatch()

	if requested != "" {
		requestedVersion, err := semver.NewVersion(requested)
		if err != nil {
			return "", err
		}
		if !requestedVersion.GreaterThan(version) {
			return "", ErrVersionNotGreater
		}
		return requestedVersion.String(), nil
	}

	return next.String(), nil
}
