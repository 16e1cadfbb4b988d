package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nhassan/blog-api/internal/api"
	"github.com/nhassan/blog-api/internal/api/shared"
	"github.com/nhassan/blog-api/internal/domain"
	"github.com/nhassan/blog-api/internal/mocks"
	"github.com/nhassan/blog-api/internal/service/auth"
	"github.com/nhassan/blog-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withClaims(r *http.Request, claims *auth.Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), shared.AuthClaimsContextKey, claims))
}

func newBlogFixture(t *testing.T) (*mocks.MockBlogStore, *store.BlogWithAuthor) {
	t.Helper()
	author, err := domain.NewUser("Nur Hassan", "nur@example.com", "01712345678", domain.RoleAdmin)
	require.NoError(t, err)

	blog, err := domain.NewBlog("First Post", "Hello world.", "An excerpt",
		[]string{"go"}, []string{"programming"}, true,
		"https://example.com/thumb.png", author.ID)
	require.NoError(t, err)

	blogStore := mocks.NewMockBlogStore()
	record := &store.BlogWithAuthor{Blog: blog, Author: author}
	blogStore.Blogs[blog.ID] = record
	return blogStore, record
}

func TestBlogHandlerList(t *testing.T) {
	t.Parallel()

	t.Run("returns page with meta", func(t *testing.T) {
		t.Parallel()
		blogStore, record := newBlogFixture(t)
		handler := api.NewBlogHandler(blogStore, nil)

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/api/blogs", nil))

		require.Equal(t, http.StatusOK, w.Code)
		envelope := decodeEnvelope(t, w)
		assert.True(t, envelope.Success)
		assert.Equal(t, "Blogs fetched successfully!", envelope.Message)

		items, ok := envelope.Data.([]interface{})
		require.True(t, ok)
		require.Len(t, items, 1)

		first, ok := items[0].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, record.Blog.ID.String(), first["_id"])
		assert.Equal(t, "First Post", first["title"])

		meta, ok := envelope.Meta.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(1), meta["page"])
		assert.Equal(t, float64(10), meta["limit"])
		assert.Equal(t, float64(1), meta["total"])
		assert.Equal(t, float64(1), meta["pages"])
	})

	t.Run("query parameters reach the filter", func(t *testing.T) {
		t.Parallel()
		blogStore := mocks.NewMockBlogStore()
		var captured store.BlogFilter
		blogStore.ListFn = func(ctx context.Context, filter store.BlogFilter) (*store.BlogPage, error) {
			captured = filter
			filter.Normalize()
			return &store.BlogPage{
				Items: []*store.BlogWithAuthor{},
				Meta:  store.PageMeta{Page: filter.Page, Limit: filter.Limit},
			}, nil
		}
		handler := api.NewBlogHandler(blogStore, nil)

		target := "/api/blogs?q=golang&tag=go&category=programming&isFeatured=true&page=3&limit=5"
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "golang", captured.TitleQuery)
		assert.Equal(t, "go", captured.Tag)
		assert.Equal(t, "programming", captured.Category)
		require.NotNil(t, captured.IsFeatured)
		assert.True(t, *captured.IsFeatured)
		assert.Equal(t, 3, captured.Page)
		assert.Equal(t, 5, captured.Limit)
	})

	t.Run("unparseable filter values are ignored", func(t *testing.T) {
		t.Parallel()
		blogStore := mocks.NewMockBlogStore()
		var captured store.BlogFilter
		blogStore.ListFn = func(ctx context.Context, filter store.BlogFilter) (*store.BlogPage, error) {
			captured = filter
			return &store.BlogPage{Items: []*store.BlogWithAuthor{}}, nil
		}
		handler := api.NewBlogHandler(blogStore, nil)

		target := "/api/blogs?isFeatured=maybe&page=abc&limit=-"
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, captured.IsFeatured)
		assert.Zero(t, captured.Page)
		assert.Zero(t, captured.Limit)
	})

	t.Run("empty page serializes as array", func(t *testing.T) {
		t.Parallel()
		handler := api.NewBlogHandler(mocks.NewMockBlogStore(), nil)

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/api/blogs", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var raw struct {
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.Equal(t, "[]", string(raw.Data), "empty list must be [], not null")
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		t.Parallel()
		blogStore := mocks.NewMockBlogStore()
		blogStore.Err = errors.New("db down")
		handler := api.NewBlogHandler(blogStore, nil)

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/api/blogs", nil))

		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestBlogHandlerGet(t *testing.T) {
	t.Parallel()

	t.Run("fetch increments views", func(t *testing.T) {
		t.Parallel()
		blogStore, record := newBlogFixture(t)
		handler := api.NewBlogHandler(blogStore, nil)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/blogs/x", nil),
			"id", record.Blog.ID.String())
		w := httptest.NewRecorder()
		handler.Get(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		envelope := decodeEnvelope(t, w)
		assert.Equal(t, "Blog fetched successfully!", envelope.Message)

		data, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(1), data["views"])
		author, ok := data["author"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Nur Hassan", author["name"])
	})

	t.Run("falls back to plain fetch when increment misses", func(t *testing.T) {
		t.Parallel()
		blogStore, record := newBlogFixture(t)
		blogStore.IncrementViewsFn = func(ctx context.Context, id uuid.UUID) (*store.BlogWithAuthor, error) {
			return nil, store.ErrBlogNotFound
		}
		handler := api.NewBlogHandler(blogStore, nil)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/blogs/x", nil),
			"id", record.Blog.ID.String())
		w := httptest.NewRecorder()
		handler.Get(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		data, ok := decodeEnvelope(t, w).Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(0), data["views"], "fallback fetch does not increment")
	})

	t.Run("missing blog returns 404", func(t *testing.T) {
		t.Parallel()
		handler := api.NewBlogHandler(mocks.NewMockBlogStore(), nil)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/blogs/x", nil),
			"id", uuid.New().String())
		w := httptest.NewRecorder()
		handler.Get(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Blog not found", decodeEnvelope(t, w).Message)
	})

	t.Run("non-not-found increment error propagates without fallback", func(t *testing.T) {
		t.Parallel()
		blogStore, record := newBlogFixture(t)
		getCalled := false
		blogStore.IncrementViewsFn = func(ctx context.Context, id uuid.UUID) (*store.BlogWithAuthor, error) {
			return nil, errors.New("deadlock detected")
		}
		blogStore.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*store.BlogWithAuthor, error) {
			getCalled = true
			return nil, store.ErrBlogNotFound
		}
		handler := api.NewBlogHandler(blogStore, nil)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/blogs/x", nil),
			"id", record.Blog.ID.String())
		w := httptest.NewRecorder()
		handler.Get(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.False(t, getCalled, "only a not-found increment triggers the fallback")
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		t.Parallel()
		handler := api.NewBlogHandler(mocks.NewMockBlogStore(), nil)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/blogs/x", nil),
			"id", "not-a-uuid")
		w := httptest.NewRecorder()
		handler.Get(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid id", decodeEnvelope(t, w).Message)
	})
}

func TestBlogHandlerCreate(t *testing.T) {
	t.Parallel()

	adminClaims := &auth.Claims{UserID: uuid.New(), Role: domain.RoleAdmin}

	validPayload := func() map[string]interface{} {
		return map[string]interface{}{
			"title":   "New Post",
			"content": "Fresh content.",
			"tags":    []string{"go"},
		}
	}

	t.Run("creates blog with caller as author", func(t *testing.T) {
		t.Parallel()
		author, err := domain.NewUser("Admin", "admin@example.com", "01712345678", domain.RoleAdmin)
		require.NoError(t, err)
		claims := &auth.Claims{UserID: author.ID, Role: domain.RoleAdmin}

		blogStore := mocks.NewMockBlogStore()
		blogStore.CreateFn = func(ctx context.Context, blog *domain.Blog) error {
			blogStore.Blogs[blog.ID] = &store.BlogWithAuthor{Blog: blog, Author: author}
			return nil
		}
		handler := api.NewBlogHandler(blogStore, nil)

		req := withClaims(postJSON(t, "/api/blogs", validPayload()), claims)
		w := httptest.NewRecorder()
		handler.Create(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		envelope := decodeEnvelope(t, w)
		assert.Equal(t, "Blog created successfully!", envelope.Message)

		data, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, author.ID.String(), data["authorId"])
		embeddedAuthor, ok := data["author"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "admin@example.com", embeddedAuthor["email"])
	})

	t.Run("missing claims returns 401", func(t *testing.T) {
		t.Parallel()
		handler := api.NewBlogHandler(mocks.NewMockBlogStore(), nil)

		w := httptest.NewRecorder()
		handler.Create(w, postJSON(t, "/api/blogs", validPayload()))

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthorized", decodeEnvelope(t, w).Message)
	})

	t.Run("missing title returns validation message", func(t *testing.T) {
		t.Parallel()
		handler := api.NewBlogHandler(mocks.NewMockBlogStore(), nil)

		payload := validPayload()
		delete(payload, "title")

		req := withClaims(postJSON(t, "/api/blogs", payload), adminClaims)
		w := httptest.NewRecorder()
		handler.Create(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Title is required", decodeEnvelope(t, w).Message)
	})

	t.Run("opaque thumbnail URL returns 400", func(t *testing.T) {
		t.Parallel()
		handler := api.NewBlogHandler(mocks.NewMockBlogStore(), nil)

		// mailto: passes the request validator's url rule but has no
		// host, so the entity constructor rejects it. That must surface
		// as a validation failure, not a 500.
		payload := validPayload()
		payload["thumbnailUrl"] = "mailto:someone@example.com"

		req := withClaims(postJSON(t, "/api/blogs", payload), adminClaims)
		w := httptest.NewRecorder()
		handler.Create(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		envelope := decodeEnvelope(t, w)
		assert.False(t, envelope.Success)
		assert.Equal(t, "invalid thumbnail URL", envelope.Message)
	})

	t.Run("unknown author returns 400", func(t *testing.T) {
		t.Parallel()
		blogStore := mocks.NewMockBlogStore()
		blogStore.CreateFn = func(ctx context.Context, blog *domain.Blog) error {
			return store.ErrInvalidEntity
		}
		handler := api.NewBlogHandler(blogStore, nil)

		req := withClaims(postJSON(t, "/api/blogs", validPayload()), adminClaims)
		w := httptest.NewRecorder()
		handler.Create(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBlogHandlerUpdate(t *testing.T) {
	t.Parallel()

	t.Run("partial update changes only supplied fields", func(t *testing.T) {
		t.Parallel()
		blogStore, record := newBlogFixture(t)
		handler := api.NewBlogHandler(blogStore, nil)

		req := withURLParam(postJSON(t, "/api/blogs/x", map[string]interface{}{
			"title": "Renamed Post",
		}), "id", record.Blog.ID.String())
		w := httptest.NewRecorder()
		handler.Update(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		envelope := decodeEnvelope(t, w)
		assert.Equal(t, "Blog updated successfully!", envelope.Message)

		data, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Renamed Post", data["title"])
		assert.Equal(t, "Hello world.", data["content"], "unsupplied fields keep their values")
		assert.Equal(t, true, data["isFeatured"])
	})

	t.Run("update of missing blog returns 404", func(t *testing.T) {
		t.Parallel()
		handler := api.NewBlogHandler(mocks.NewMockBlogStore(), nil)

		req := withURLParam(postJSON(t, "/api/blogs/x", map[string]interface{}{
			"title": "Renamed",
		}), "id", uuid.New().String())
		w := httptest.NewRecorder()
		handler.Update(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Blog not found", decodeEnvelope(t, w).Message)
	})

	t.Run("empty title in patch returns validation message", func(t *testing.T) {
		t.Parallel()
		blogStore, record := newBlogFixture(t)
		handler := api.NewBlogHandler(blogStore, nil)

		req := withURLParam(postJSON(t, "/api/blogs/x", map[string]interface{}{
			"title": "",
		}), "id", record.Blog.ID.String())
		w := httptest.NewRecorder()
		handler.Update(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Title is required", decodeEnvelope(t, w).Message)
	})
}

func TestBlogHandlerDelete(t *testing.T) {
	t.Parallel()

	t.Run("deletes existing blog", func(t *testing.T) {
		t.Parallel()
		blogStore, record := newBlogFixture(t)
		handler := api.NewBlogHandler(blogStore, nil)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/blogs/x", nil),
			"id", record.Blog.ID.String())
		w := httptest.NewRecorder()
		handler.Delete(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		envelope := decodeEnvelope(t, w)
		assert.True(t, envelope.Success)
		assert.Equal(t, "Blog deleted successfully!", envelope.Message)
		assert.Nil(t, envelope.Data)
		assert.Empty(t, blogStore.Blogs)
	})

	t.Run("delete of missing blog returns 404", func(t *testing.T) {
		t.Parallel()
		handler := api.NewBlogHandler(mocks.NewMockBlogStore(), nil)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/blogs/x", nil),
			"id", uuid.New().String())
		w := httptest.NewRecorder()
		handler.Delete(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
