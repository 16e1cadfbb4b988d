package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/nhassan/blog-api/internal/domain"
)

// DefaultPageSize is the page size used when a list request does not
// specify a limit.
const DefaultPageSize = 10

// BlogFilter describes the optional filters and pagination for listing blogs.
// Zero values mean "not filtered"; IsFeatured uses a pointer so false is
// still a meaningful filter.
type BlogFilter struct {
	TitleQuery string // case-insensitive substring match on title
	Tag        string // exact membership in the tag set
	Category   string // exact membership in the category set
	IsFeatured *bool
	Page       int // 1-based; values < 1 are normalized to 1
	Limit      int // values < 1 fall back to DefaultPageSize
}

// Normalize clamps pagination values to usable defaults.
func (f *BlogFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
}

// PageMeta describes the pagination metadata returned alongside a page
// of results. Pages is the ceiling of Total/Limit.
type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// BlogWithAuthor pairs a blog with its owning author record.
type BlogWithAuthor struct {
	Blog   *domain.Blog
	Author *domain.User
}

// BlogPage is one page of blog records plus pagination metadata.
type BlogPage struct {
	Items []*BlogWithAuthor
	Meta  PageMeta
}

// BlogUpdate carries a partial update. Nil fields are left unchanged.
type BlogUpdate struct {
	Title        *string
	Content      *string
	Excerpt      *string
	Tags         []string
	Categories   []string
	IsFeatured   *bool
	ThumbnailURL *string
}

// IsEmpty reports whether the update contains no changes.
func (u *BlogUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil && u.Excerpt == nil &&
		u.Tags == nil && u.Categories == nil && u.IsFeatured == nil &&
		u.ThumbnailURL == nil
}

// BlogStore defines the interface for blog data persistence.
type BlogStore interface {
	// Create saves a new blog to the store.
	// Returns ErrInvalidEntity if the author does not exist (foreign key
	// violation). Returns validation errors from the domain Blog if data
	// is invalid.
	Create(ctx context.Context, blog *domain.Blog) error

	// GetByID retrieves a blog together with its author.
	// Returns ErrBlogNotFound if the blog does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*BlogWithAuthor, error)

	// List returns one page of blogs matching the filter, sorted
	// newest-first by creation time, with pagination metadata.
	List(ctx context.Context, filter BlogFilter) (*BlogPage, error)

	// Update applies a partial update to an existing blog. Only the
	// non-nil fields of update are changed.
	// Returns ErrBlogNotFound if the blog does not exist.
	Update(ctx context.Context, id uuid.UUID, update BlogUpdate) (*BlogWithAuthor, error)

	// Delete removes a blog from the store by its ID.
	// Returns ErrBlogNotFound if the blog does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementViews atomically increments the blog's view counter and
	// returns the updated record with its author. The increment relies
	// on the database's native "views = views + 1", never read-then-write.
	// Returns ErrBlogNotFound if the blog does not exist, letting the
	// caller decide whether to fall back to a plain fetch.
	IncrementViews(ctx context.Context, id uuid.UUID) (*BlogWithAuthor, error)
}
