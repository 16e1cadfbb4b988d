package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/nhassan/blog-api/internal/domain"
	"github.com/nhassan/blog-api/internal/store"
)

// MockBlogStore implements store.BlogStore for testing
type MockBlogStore struct {
	// Function fields for customizable behavior
	CreateFn         func(ctx context.Context, blog *domain.Blog) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*store.BlogWithAuthor, error)
	ListFn           func(ctx context.Context, filter store.BlogFilter) (*store.BlogPage, error)
	UpdateFn         func(ctx context.Context, id uuid.UUID, update store.BlogUpdate) (*store.BlogWithAuthor, error)
	DeleteFn         func(ctx context.Context, id uuid.UUID) error
	IncrementViewsFn func(ctx context.Context, id uuid.UUID) (*store.BlogWithAuthor, error)

	// Data for default implementation
	Blogs map[uuid.UUID]*store.BlogWithAuthor
	Err   error
}

var _ store.BlogStore = (*MockBlogStore)(nil)

// NewMockBlogStore creates a new mock store with initialized defaults
func NewMockBlogStore() *MockBlogStore {
	return &MockBlogStore{
		Blogs: make(map[uuid.UUID]*store.BlogWithAuthor),
	}
}

// Create implements the BlogStore interface
func (m *MockBlogStore) Create(ctx context.Context, blog *domain.Blog) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, blog)
	}

	if m.Err != nil {
		return m.Err
	}

	m.Blogs[blog.ID] = &store.BlogWithAuthor{Blog: blog}
	return nil
}

// GetByID implements the BlogStore interface
func (m *MockBlogStore) GetByID(ctx context.Context, id uuid.UUID) (*store.BlogWithAuthor, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	if m.Err != nil {
		return nil, m.Err
	}

	record, exists := m.Blogs[id]
	if !exists {
		return nil, store.ErrBlogNotFound
	}
	return record, nil
}

// List implements the BlogStore interface
func (m *MockBlogStore) List(ctx context.Context, filter store.BlogFilter) (*store.BlogPage, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}

	if m.Err != nil {
		return nil, m.Err
	}

	filter.Normalize()
	items := make([]*store.BlogWithAuthor, 0, len(m.Blogs))
	for _, record := range m.Blogs {
		items = append(items, record)
	}
	total := int64(len(items))
	pages := (total + int64(filter.Limit) - 1) / int64(filter.Limit)
	return &store.BlogPage{
		Items: items,
		Meta: store.PageMeta{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// Update implements the BlogStore interface
func (m *MockBlogStore) Update(ctx context.Context, id uuid.UUID, update store.BlogUpdate) (*store.BlogWithAuthor, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, update)
	}

	if m.Err != nil {
		return nil, m.Err
	}

	record, exists := m.Blogs[id]
	if !exists {
		return nil, store.ErrBlogNotFound
	}
	if update.Title != nil {
		record.Blog.Title = *update.Title
	}
	if update.Content != nil {
		record.Blog.Content = *update.Content
	}
	if update.Excerpt != nil {
		record.Blog.Excerpt = *update.Excerpt
	}
	if update.Tags != nil {
		record.Blog.Tags = update.Tags
	}
	if update.Categories != nil {
		record.Blog.Categories = update.Categories
	}
	if update.IsFeatured != nil {
		record.Blog.IsFeatured = *update.IsFeatured
	}
	if update.ThumbnailURL != nil {
		record.Blog.ThumbnailURL = *update.ThumbnailURL
	}
	return record, nil
}

// Delete implements the BlogStore interface
func (m *MockBlogStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if m.Err != nil {
		return m.Err
	}

	if _, exists := m.Blogs[id]; !exists {
		return store.ErrBlogNotFound
	}
	delete(m.Blogs, id)
	return nil
}

// IncrementViews implements the BlogStore interface
func (m *MockBlogStore) IncrementViews(ctx context.Context, id uuid.UUID) (*store.BlogWithAuthor, error) {
	if m.IncrementViewsFn != nil {
		return m.IncrementViewsFn(ctx, id)
	}

	if m.Err != nil {
		return nil, m.Err
	}

	record, exists := m.Blogs[id]
	if !exists {
		return nil, store.ErrBlogNotFound
	}
	record.Blog.Views++
	return record, nil
}
