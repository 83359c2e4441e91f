package book

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/emrgen/book/internal/model"
	"github.com/emrgen/book/internal/service"
)

// Client talks to a running book server over its json api.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// APIError carries a non-2xx response back to the caller.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(res.Body)
		return &APIError{Status: res.StatusCode, Message: string(bytes.TrimSpace(msg))}
	}

	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}

	return nil
}

func (c *Client) booksPath(userID string) string {
	return fmt.Sprintf("/v1/users/%s/books", userID)
}

func (c *Client) bookPath(userID, bookID string) string {
	return c.booksPath(userID) + "/" + bookID
}

type CreateBookRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type CreateChildRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content,omitempty"`
}

type CreateBlockRequest struct {
	Text    string `json:"text"`
	Summary string `json:"summary"`
}

type ReorderRequest struct {
	IDs []string `json:"ids"`
}

type MoveRequest struct {
	BookID    string `json:"bookId,omitempty"`
	PartID    string `json:"partId,omitempty"`
	ChapterID string `json:"chapterId,omitempty"`
	SectionID string `json:"sectionId,omitempty"`
}

type PublishRequest struct {
	Version string `json:"version,omitempty"`
}

type PublishedVersion struct {
	Version   string `json:"version"`
	CreatedAt string `json:"createdAt"`
}

func (c *Client) ListBooks(ctx context.Context, userID string) ([]*model.Book, error) {
	var books []*model.Book
	err := c.do(ctx, http.MethodGet, c.booksPath(userID), nil, &books)
	return books, err
}

func (c *Client) CreateBook(ctx context.Context, userID string, req CreateBookRequest) (*model.Book, error) {
	var book model.Book
	err := c.do(ctx, http.MethodPost, c.booksPath(userID), req, &book)
	return &book, err
}

func (c *Client) GetBookView(ctx context.Context, userID, bookID string) (*service.BookView, error) {
	var view service.BookView
	err := c.do(ctx, http.MethodGet, c.bookPath(userID, bookID), nil, &view)
	return &view, err
}

type UpdateBookRequest struct {
	Title   *string `json:"title,omitempty"`
	Summary *string `json:"summary,omitempty"`
}

func (c *Client) UpdateBook(ctx context.Context, userID, bookID string, req UpdateBookRequest) (*model.Book, error) {
	var book model.Book
	err := c.do(ctx, http.MethodPatch, c.bookPath(userID, bookID), req, &book)
	return &book, err
}

func (c *Client) DeleteBook(ctx context.Context, userID, bookID string, cascade bool) error {
	path := c.bookPath(userID, bookID)
	if cascade {
		path += "?cascade=true"
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) ReorderBooks(ctx context.Context, userID string, ids []string) error {
	return c.do(ctx, http.MethodPost, c.booksPath(userID)+"/reorder", ReorderRequest{IDs: ids}, nil)
}

func (c *Client) PublishBook(ctx context.Context, userID, bookID, version string) (map[string]string, error) {
	var out map[string]string
	err := c.do(ctx, http.MethodPost, c.bookPath(userID, bookID)+"/publish", PublishRequest{Version: version}, &out)
	return out, err
}

func (c *Client) UnpublishBook(ctx context.Context, userID, bookID string) error {
	return c.do(ctx, http.MethodDelete, c.bookPath(userID, bookID)+"/publish", nil, nil)
}

func (c *Client) GetPublishedBook(ctx context.Context, userID, bookID, version string) (*service.PublishedView, error) {
	path := c.bookPath(userID, bookID) + "/published"
	if version != "" {
		path += "?version=" + version
	}
	var view service.PublishedView
	err := c.do(ctx, http.MethodGet, path, nil, &view)
	return &view, err
}

func (c *Client) ListPublishedVersions(ctx context.Context, userID, bookID string) ([]PublishedVersion, error) {
	var versions []PublishedVersion
	err := c.do(ctx, http.MethodGet, c.bookPath(userID, bookID)+"/versions", nil, &versions)
	return versions, err
}

func (c *Client) ListParts(ctx context.Context, userID, bookID string) ([]*model.Part, error) {
	var parts []*model.Part
	err := c.do(ctx, http.MethodGet, c.bookPath(userID, bookID)+"/parts", nil, &parts)
	return parts, err
}

func (c *Client) CreatePart(ctx context.Context, userID, bookID string, req CreateChildRequest) (*model.Part, error) {
	var part model.Part
	err := c.do(ctx, http.MethodPost, c.bookPath(userID, bookID)+"/parts", req, &part)
	return &part, err
}

func (c *Client) GetPartView(ctx context.Context, userID, bookID, partID string) (*service.PartView, error) {
	var view service.PartView
	err := c.do(ctx, http.MethodGet, c.bookPath(userID, bookID)+"/parts/"+partID, nil, &view)
	return &view, err
}

func (c *Client) ListChapters(ctx context.Context, userID, bookID, partID string) ([]*model.Chapter, error) {
	var chapters []*model.Chapter
	err := c.do(ctx, http.MethodGet, c.bookPath(userID, bookID)+"/parts/"+partID+"/chapters", nil, &chapters)
	return chapters, err
}

func (c *Client) CreateChapter(ctx context.Context, userID, bookID, partID string, req CreateChildRequest) (*model.Chapter, error) {
	var chapter model.Chapter
	err := c.do(ctx, http.MethodPost, c.bookPath(userID, bookID)+"/parts/"+partID+"/chapters", req, &chapter)
	return &chapter, err
}

func (c *Client) MoveChapter(ctx context.Context, userID, bookID, partID, chapterID string, to MoveRequest) (*model.Chapter, error) {
	var chapter model.Chapter
	path := c.bookPath(userID, bookID) + "/parts/" + partID + "/chapters/" + chapterID + "/move"
	err := c.do(ctx, http.MethodPost, path, to, &chapter)
	return &chapter, err
}

func (c *Client) ReorderChapters(ctx context.Context, userID, bookID, partID string, ids []string) error {
	path := c.bookPath(userID, bookID) + "/parts/" + partID + "/chapters/reorder"
	return c.do(ctx, http.MethodPost, path, ReorderRequest{IDs: ids}, nil)
}
