package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/emrgen/book/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateBook(ctx context.Context, book *model.Book) error {
	return g.db.WithContext(ctx).Create(book).Error
}

func (g *GormStore) GetBook(ctx context.Context, ownerID, id string) (*model.Book, error) {
	var book model.Book
	err := g.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (g *GormStore) ListBooks(ctx context.Context, ownerID string) ([]*model.Book, error) {
	var books []*model.Book
	err := g.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("sort_key asc").Find(&books).Error
	return books, err
}

func (g *GormStore) UpdateBook(ctx context.Context, book *model.Book) error {
	return g.db.WithContext(ctx).Save(book).Error
}

func (g *GormStore) DeleteBook(ctx context.Context, ownerID, id string) error {
	res := g.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).Delete(&model.Book{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBookTree deletes the book and all descendant rows.
// NOTE: should run in a transaction
func (g *GormStore) DeleteBookTree(ctx context.Context, ownerID, id string) error {
	if err := g.DeleteBook(ctx, ownerID, id); err != nil {
		return err
	}

	db := g.db.WithContext(ctx)
	if err := db.Where("book_id = ?", id).Delete(&model.Part{}).Error; err != nil {
		return err
	}
	if err := db.Where("book_id = ?", id).Delete(&model.Chapter{}).Error; err != nil {
		return err
	}
	if err := db.Where("book_id = ?", id).Delete(&model.Section{}).Error; err != nil {
		return err
	}
	if err := db.Where("book_id = ?", id).Delete(&model.Block{}).Error; err != nil {
		return err
	}

	return db.Where("book_id = ?", id).Delete(&model.Note{}).Error
}

func (g *GormStore) MaxBookSortKey(ctx context.Context, ownerID string) (int64, error) {
	return g.maxSortKey(ctx, &model.Book{}, "owner_id = ?", ownerID)
}

func (g *GormStore) SetBookSortKey(ctx context.Context, ownerID, id string, key int64) error {
	return g.setSortKey(ctx, &model.Book{}, key, "owner_id = ? AND id = ?", ownerID, id)
}

func (g *GormStore) CreatePart(ctx context.Context, part *model.Part) error {
	return g.db.WithContext(ctx).Create(part).Error
}

func (g *GormStore) GetPart(ctx context.Context, bookID, id string) (*model.Part, error) {
	var part model.Part
	err := g.db.WithContext(ctx).Where("book_id = ? AND id = ?", bookID, id).First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (g *GormStore) ListParts(ctx context.Context, bookID string) ([]*model.Part, error) {
	var parts []*model.Part
	err := g.db.WithContext(ctx).Where("book_id = ?", bookID).Order("sort_key asc").Find(&parts).Error
	return parts, err
}

func (g *GormStore) UpdatePart(ctx context.Context, part *model.Part) error {
	return g.db.WithContext(ctx).Save(part).Error
}

func (g *GormStore) DeletePart(ctx context.Context, bookID, id string) error {
	res := g.db.WithContext(ctx).Where("book_id = ? AND id = ?", bookID, id).Delete(&model.Part{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePartTree deletes the part and all descendant rows.
// NOTE: should run in a transaction
func (g *GormStore) DeletePartTree(ctx context.Context, bookID, id string) error {
	if err := g.DeletePart(ctx, bookID, id); err != nil {
		return err
	}

	db := g.db.WithContext(ctx)
	if err := db.Where("part_id = ?", id).Delete(&model.Chapter{}).Error; err != nil {
		return err
	}
	if err := db.Where("part_id = ?", id).Delete(&model.Section{}).Error; err != nil {
		return err
	}
	if err := db.Where("part_id = ?", id).Delete(&model.Block{}).Error; err != nil {
		return err
	}

	return db.Where("part_id = ?", id).Delete(&model.Note{}).Error
}

func (g *GormStore) MaxPartSortKey(ctx context.Context, bookID string) (int64, error) {
	return g.maxSortKey(ctx, &model.Part{}, "book_id = ?", bookID)
}

func (g *GormStore) SetPartSortKey(ctx context.Context, bookID, id string, key int64) error {
	return g.setSortKey(ctx, &model.Part{}, key, "book_id = ? AND id = ?", bookID, id)
}

func (g *GormStore) CreateChapter(ctx context.Context, chapter *model.Chapter) error {
	return g.db.WithContext(ctx).Create(chapter).Error
}

func (g *GormStore) GetChapter(ctx context.Context, partID, id string) (*model.Chapter, error) {
	var chapter model.Chapter
	err := g.db.WithContext(ctx).Where("part_id = ? AND id = ?", partID, id).First(&chapter).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (g *GormStore) ListChapters(ctx context.Context, partID string) ([]*model.Chapter, error) {
	var chapters []*model.Chapter
	err := g.db.WithContext(ctx).Where("part_id = ?", partID).Order("sort_key asc").Find(&chapters).Error
	return chapters, err
}

func (g *GormStore) UpdateChapter(ctx context.Context, chapter *model.Chapter) error {
	return g.db.WithContext(ctx).Save(chapter).Error
}

func (g *GormStore) DeleteChapter(ctx context.Context, partID, id string) error {
	res := g.db.WithContext(ctx).Where("part_id = ? AND id = ?", partID, id).Delete(&model.Chapter{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteChapterTree deletes the chapter and all descendant rows.
// NOTE: should run in a transaction
func (g *GormStore) DeleteChapterTree(ctx context.Context, partID, id string) error {
	if err := g.DeleteChapter(ctx, partID, id); err != nil {
		return err
	}

	db := g.db.WithContext(ctx)
	if err := db.Where("chapter_id = ?", id).Delete(&model.Section{}).Error; err != nil {
		return err
	}
	if err := db.Where("chapter_id = ?", id).Delete(&model.Block{}).Error; err != nil {
		return err
	}

	return db.Where("chapter_id = ?", id).Delete(&model.Note{}).Error
}

func (g *GormStore) MaxChapterSortKey(ctx context.Context, partID string) (int64, error) {
	return g.maxSortKey(ctx, &model.Chapter{}, "part_id = ?", partID)
}

func (g *GormStore) SetChapterSortKey(ctx context.Context, partID, id string, key int64) error {
	return g.setSortKey(ctx, &model.Chapter{}, key, "part_id = ? AND id = ?", partID, id)
}

func (g *GormStore) CreateSection(ctx context.Context, section *model.Section) error {
	return g.db.WithContext(ctx).Create(section).Error
}

func (g *GormStore) GetSection(ctx context.Context, chapterID, id string) (*model.Section, error) {
	var section model.Section
	err := g.db.WithContext(ctx).Where("chapter_id = ? AND id = ?", chapterID, id).First(&section).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (g *GormStore) ListSections(ctx context.Context, chapterID string) ([]*model.Section, error) {
	var sections []*model.Section
	err := g.db.WithContext(ctx).Where("chapter_id = ?", chapterID).Order("sort_key asc").Find(&sections).Error
	return sections, err
}

func (g *GormStore) UpdateSection(ctx context.Context, section *model.Section) error {
	return g.db.WithContext(ctx).Save(section).Error
}

func (g *GormStore) DeleteSection(ctx context.Context, chapterID, id string) error {
	res := g.db.WithContext(ctx).Where("chapter_id = ? AND id = ?", chapterID, id).Delete(&model.Section{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSectionTree deletes the section and all descendant rows.
// NOTE: should run in a transaction
func (g *GormStore) DeleteSectionTree(ctx context.Context, chapterID, id string) error {
	if err := g.DeleteSection(ctx, chapterID, id); err != nil {
		return err
	}

	db := g.db.WithContext(ctx)
	if err := db.Where("section_id = ?", id).Delete(&model.Block{}).Error; err != nil {
		return err
	}

	return db.Where("section_id = ?", id).Delete(&model.Note{}).Error
}

func (g *GormStore) MaxSectionSortKey(ctx context.Context, chapterID string) (int64, error) {
	return g.maxSortKey(ctx, &model.Section{}, "chapter_id = ?", chapterID)
}

func (g *GormStore) SetSectionSortKey(ctx context.Context, chapterID, id string, key int64) error {
	return g.setSortKey(ctx, &model.Section{}, key, "chapter_id = ? AND id = ?", chapterID, id)
}

func (g *GormStore) CreateBlock(ctx context.Context, block *model.Block) error {
	return g.db.WithContext(ctx).Create(block).Error
}

func (g *GormStore) GetBlock(ctx context.Context, sectionID, id string) (*model.Block, error) {
	var block model.Block
	err := g.db.WithContext(ctx).Where("section_id = ? AND id = ?", sectionID, id).First(&block).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (g *GormStore) ListBlocks(ctx context.Context, sectionID string) ([]*model.Block, error) {
	var blocks []*model.Block
	err := g.db.WithContext(ctx).Where("section_id = ?", sectionID).Order("sort_key asc").Find(&blocks).Error
	return blocks, err
}

func (g *GormStore) UpdateBlock(ctx context.Context, block *model.Block) error {
	return g.db.WithContext(ctx).Save(block).Error
}

func (g *GormStore) DeleteBlock(ctx context.Context, sectionID, id string) error {
	res := g.db.WithContext(ctx).Where("section_id = ? AND id = ?", sectionID, id).Delete(&model.Block{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStore) MaxBlockSortKey(ctx context.Context, sectionID string) (int64, error) {
	return g.maxSortKey(ctx, &model.Block{}, "section_id = ?", sectionID)
}

func (g *GormStore) SetBlockSortKey(ctx context.Context, sectionID, id string, key int64) error {
	return g.setSortKey(ctx, &model.Block{}, key, "section_id = ? AND id = ?", sectionID, id)
}

func (g *GormStore) CreateNote(ctx context.Context, note *model.Note) error {
	return g.db.WithContext(ctx).Create(note).Error
}

func (g *GormStore) GetNote(ctx context.Context, id string) (*model.Note, error) {
	var note model.Note
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (g *GormStore) ListNotes(ctx context.Context, scope model.NoteScope, nodeID string) ([]*model.Note, error) {
	var notes []*model.Note
	err := g.db.WithContext(ctx).
		Where("scope = ?", scope).
		Where(scopeColumn(scope)+" = ?", nodeID).
		Order("sort_key asc").
		Find(&notes).Error
	return notes, err
}

func (g *GormStore) UpdateNote(ctx context.Context, note *model.Note) error {
	return g.db.WithContext(ctx).Save(note).Error
}

func (g *GormStore) DeleteNote(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStore) MaxNoteSortKey(ctx context.Context, scope model.NoteScope, nodeID string) (int64, error) {
	var key sql.NullInt64
	err := g.db.WithContext(ctx).Model(&model.Note{}).
		Where("scope = ?", scope).
		Where(scopeColumn(scope)+" = ?", nodeID).
		Select("max(sort_key)").
		Scan(&key).Error
	if err != nil {
		return 0, err
	}
	return key.Int64, nil
}

// PublishBook publishes a book snapshot, creating a new published version
// NOTE: should run in a transaction
func (g *GormStore) PublishBook(ctx context.Context, book *model.PublishedBook) error {
	latest := &model.LatestPublishedBook{
		ID:       book.ID,
		Version:  book.Version,
		OwnerID:  book.OwnerID,
		Title:    book.Title,
		Snapshot: book.Snapshot,
		Codec:    book.Codec,
	}

	logrus.Infof("publishing book %s version %s", book.ID, book.Version)

	if err := g.db.WithContext(ctx).Save(latest).Error; err != nil {
		return err
	}

	return g.db.WithContext(ctx).Create(book).Error
}

func (g *GormStore) GetPublishedBookByVersion(ctx context.Context, id, version string) (*model.PublishedBook, error) {
	var book model.PublishedBook
	err := g.db.WithContext(ctx).Where("id = ? AND version = ?", id, version).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (g *GormStore) GetLatestPublishedBook(ctx context.Context, id string) (*model.LatestPublishedBook, error) {
	var book model.LatestPublishedBook
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (g *GormStore) ListPublishedVersions(ctx context.Context, id string) ([]*model.PublishedBook, error) {
	var books []*model.PublishedBook
	err := g.db.WithContext(ctx).Where("id = ?", id).Order("created_at desc").Find(&books).Error
	return books, err
}

func (g *GormStore) UnpublishBook(ctx context.Context, id string) error {
	if err := g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PublishedBook{}).Error; err != nil {
		return err
	}

	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.LatestPublishedBook{}).Error
}

func (g *GormStore) ListOrphanParts(ctx context.Context) ([]*model.Part, error) {
	var parts []*model.Part
	err := g.db.WithContext(ctx).
		Where("book_id NOT IN (SELECT id FROM books)").
		Find(&parts).Error
	return parts, err
}

func (g *GormStore) ListOrphanChapters(ctx context.Context) ([]*model.Chapter, error) {
	var chapters []*model.Chapter
	err := g.db.WithContext(ctx).
		Where("part_id NOT IN (SELECT id FROM parts)").
		Find(&chapters).Error
	return chapters, err
}

func (g *GormStore) ListOrphanSections(ctx context.Context) ([]*model.Section, error) {
	var sections []*model.Section
	err := g.db.WithContext(ctx).
		Where("chapter_id NOT IN (SELECT id FROM chapters)").
		Find(&sections).Error
	return sections, err
}

func (g *GormStore) ListOrphanBlocks(ctx context.Context) ([]*model.Block, error) {
	var blocks []*model.Block
	err := g.db.WithContext(ctx).
		Where("section_id NOT IN (SELECT id FROM sections)").
		Find(&blocks).Error
	return blocks, err
}

func (g *GormStore) ListChaptersPendingDeletion(ctx context.Context, before time.Time) ([]*model.Chapter, error) {
	var chapters []*model.Chapter
	err := g.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", model.ChapterStatusPendingDeletion, before).
		Find(&chapters).Error
	return chapters, err
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}

func (g *GormStore) maxSortKey(ctx context.Context, m any, query string, args ...any) (int64, error) {
	var key sql.NullInt64
	err := g.db.WithContext(ctx).Model(m).Where(query, args...).Select("max(sort_key)").Scan(&key).Error
	if err != nil {
		return 0, err
	}
	return key.Int64, nil
}

func (g *GormStore) setSortKey(ctx context.Context, m any, key int64, query string, args ...any) error {
	res := g.db.WithContext(ctx).Model(m).Where(query, args...).Update("sort_key", key)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func scopeColumn(scope model.NoteScope) string {
	switch scope {
	case model.NoteScopeBook:
		return "book_id"
	case model.NoteScopePart:
		return "part_id"
	case model.NoteScopeChapter:
		return "chapter_id"
	default:
		return "section_id"
	}
}
