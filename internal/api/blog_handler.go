package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/nhassan/blog-api/internal/api/middleware"
	"github.com/nhassan/blog-api/internal/api/shared"
	"github.com/nhassan/blog-api/internal/domain"
	"github.com/nhassan/blog-api/internal/platform/logger"
	"github.com/nhassan/blog-api/internal/store"
)

// BlogHandler handles blog CRUD API requests.
type BlogHandler struct {
	blogStore store.BlogStore
	validator *validator.Validate
	logger    *slog.Logger
}

// NewBlogHandler creates a new BlogHandler with the given dependencies.
func NewBlogHandler(blogStore store.BlogStore, log *slog.Logger) *BlogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &BlogHandler{
		blogStore: blogStore,
		validator: NewValidator(),
		logger:    log.With(slog.String("component", "blog_handler")),
	}
}

// List handles GET {prefix}/blogs.
// Supported query parameters: q (title substring), tag, category,
// isFeatured, page, limit.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := store.BlogFilter{
		TitleQuery: query.Get("q"),
		Tag:        query.Get("tag"),
		Category:   query.Get("category"),
	}

	if raw := query.Get("isFeatured"); raw != "" {
		if featured, err := strconv.ParseBool(raw); err == nil {
			filter.IsFeatured = &featured
		}
	}
	if raw := query.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			filter.Page = page
		}
	}
	if raw := query.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}

	page, err := h.blogStore.List(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithPage(w, r, "Blogs fetched successfully!",
		NewBlogResponses(page.Items), page.Meta)
}

// Get handles GET {prefix}/blogs/{id}.
// The view counter is incremented as part of the fetch. When the
// increment reports the blog missing, a plain fetch is attempted before
// concluding 404; any other datastore failure propagates unchanged.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	record, err := h.blogStore.IncrementViews(r.Context(), id)
	if errors.Is(err, store.ErrBlogNotFound) {
		record, err = h.blogStore.GetByID(r.Context(), id)
	}
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Blog fetched successfully!",
		NewBlogResponse(record.Blog, record.Author))
}

// Create handles POST {prefix}/blogs (admin-only).
// The authenticated caller becomes the blog's author.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, ok := middleware.GetClaims(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized)
		return
	}

	var req CreateBlogRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		HandleAPIError(w, r, mapValidationError(err))
		return
	}

	blog, err := domain.NewBlog(req.Title, req.Content, req.Excerpt,
		req.Tags, req.Categories, req.IsFeatured, req.ThumbnailURL, claims.UserID)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("blog", err.Error(), err))
		return
	}

	if err := h.blogStore.Create(r.Context(), blog); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	// Re-read for the joined author record.
	record, err := h.blogStore.GetByID(r.Context(), blog.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("blog created", "blog_id", blog.ID, "author_id", claims.UserID)
	shared.RespondWithData(w, r, http.StatusCreated, "Blog created successfully!",
		NewBlogResponse(record.Blog, record.Author))
}

// Update handles PATCH {prefix}/blogs/{id} (admin-only).
// Only the fields present in the request body are changed.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req UpdateBlogRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		HandleAPIError(w, r, mapValidationError(err))
		return
	}

	update := store.BlogUpdate{
		Title:        req.Title,
		Content:      req.Content,
		Excerpt:      req.Excerpt,
		Tags:         req.Tags,
		Categories:   req.Categories,
		IsFeatured:   req.IsFeatured,
		ThumbnailURL: req.ThumbnailURL,
	}

	record, err := h.blogStore.Update(r.Context(), id, update)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("blog updated", "blog_id", id)
	shared.RespondWithData(w, r, http.StatusOK, "Blog updated successfully!",
		NewBlogResponse(record.Blog, record.Author))
}

// Delete handles DELETE {prefix}/blogs/{id} (admin-only).
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.blogStore.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("blog deleted", "blog_id", id)
	shared.RespondWithData(w, r, http.StatusOK, "Blog deleted successfully!", nil)
}
