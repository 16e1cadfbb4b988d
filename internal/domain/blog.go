package domain

import (
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyBlogID       = errors.New("blog ID cannot be empty")
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrEmptyContent      = errors.New("content cannot be empty")
	ErrEmptyAuthorID     = errors.New("author ID cannot be empty")
	ErrInvalidThumbnail  = errors.New("invalid thumbnail URL")
	ErrNegativeViewCount = errors.New("view count cannot be negative")
)

// Blog represents a published content record owned by a single author.
// Views is monotonic; it is only ever incremented by the store's atomic
// increment operation.
type Blog struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Excerpt      string    `json:"excerpt,omitempty"`
	Tags         []string  `json:"tags"`
	Categories   []string  `json:"categories"`
	IsFeatured   bool      `json:"is_featured"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Views        int64     `json:"views"`
	AuthorID     uuid.UUID `json:"author_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewBlog creates a new Blog with a generated ID and UTC timestamps.
// Nil tag/category slices are normalized to empty slices so the stored
// and serialized shapes are always arrays. Returns an error if
// validation fails.
func NewBlog(title, content, excerpt string, tags, categories []string,
	isFeatured bool, thumbnailURL string, authorID uuid.UUID) (*Blog, error) {
	if tags == nil {
		tags = []string{}
	}
	if categories == nil {
		categories = []string{}
	}

	now := time.Now().UTC()
	blog := &Blog{
		ID:           uuid.New(),
		Title:        title,
		Content:      content,
		Excerpt:      excerpt,
		Tags:         tags,
		Categories:   categories,
		IsFeatured:   isFeatured,
		ThumbnailURL: thumbnailURL,
		AuthorID:     authorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := blog.Validate(); err != nil {
		return nil, err
	}

	return blog, nil
}

// Validate checks if the Blog has valid data.
// Returns an error if any field fails validation.
func (b *Blog) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBlogID
	}

	if b.Title == "" {
		return ErrEmptyTitle
	}

	if b.Content == "" {
		return ErrEmptyContent
	}

	if b.AuthorID == uuid.Nil {
		return ErrEmptyAuthorID
	}

	if b.Views < 0 {
		return ErrNegativeViewCount
	}

	if b.ThumbnailURL != "" && !validateURLFormat(b.ThumbnailURL) {
		return ErrInvalidThumbnail
	}

	return nil
}

// HasTag reports whether the blog's tag set contains the given tag.
func (b *Blog) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// validateURLFormat reports whether s is an absolute URL.
func validateURLFormat(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
