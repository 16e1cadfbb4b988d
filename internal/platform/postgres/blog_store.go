package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nhassan/blog-api/internal/domain"
	"github.com/nhassan/blog-api/internal/platform/logger"
	"github.com/nhassan/blog-api/internal/store"
)

// blogColumns is the canonical select list for a blog joined with its author.
const blogColumns = `
	b.id, b.title, b.content, b.excerpt, b.tags, b.categories,
	b.is_featured, b.thumbnail_url, b.views, b.author_id, b.created_at, b.updated_at,
	u.id, u.name, u.email, u.hashed_password, u.role, u.phone, u.created_at, u.updated_at
`

// PostgresBlogStore implements the store.BlogStore interface
// using a PostgreSQL database as the storage backend.
// Tags and categories are stored as jsonb string arrays; membership
// filters use the jsonb ? operator.
type PostgresBlogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBlogStore creates a new PostgreSQL implementation of the
// BlogStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBlogStore(db store.DBTX, logger *slog.Logger) *PostgresBlogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBlogStore{
		db:     db,
		logger: logger.With(slog.String("component", "blog_store")),
	}
}

// Ensure PostgresBlogStore implements store.BlogStore interface
var _ store.BlogStore = (*PostgresBlogStore)(nil)

// Create implements store.BlogStore.Create
// It saves a new blog to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the author ID doesn't exist
// (foreign key violation).
func (s *PostgresBlogStore) Create(ctx context.Context, blog *domain.Blog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := blog.Validate(); err != nil {
		log.Warn("blog validation failed during create",
			slog.String("error", err.Error()),
			slog.String("blog_id", blog.ID.String()))
		return err
	}

	tags, err := marshalStrings(blog.Tags)
	if err != nil {
		return err
	}
	categories, err := marshalStrings(blog.Categories)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO blogs (id, title, content, excerpt, tags, categories,
			is_featured, thumbnail_url, views, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		blog.ID,
		blog.Title,
		blog.Content,
		nullableString(blog.Excerpt),
		tags,
		categories,
		blog.IsFeatured,
		nullableString(blog.ThumbnailURL),
		blog.Views,
		blog.AuthorID,
		blog.CreatedAt,
		blog.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during blog creation",
				slog.String("blog_id", blog.ID.String()),
				slog.String("author_id", blog.AuthorID.String()))
			return fmt.Errorf("%w: author with ID %s not found",
				store.ErrInvalidEntity, blog.AuthorID)
		}

		log.Error("failed to create blog",
			slog.String("error", err.Error()),
			slog.String("blog_id", blog.ID.String()))
		return MapError(err)
	}

	log.Info("blog created successfully",
		slog.String("blog_id", blog.ID.String()),
		slog.String("author_id", blog.AuthorID.String()))
	return nil
}

// GetByID implements store.BlogStore.GetByID
// It retrieves a blog together with its author.
// Returns store.ErrBlogNotFound if the blog does not exist.
func (s *PostgresBlogStore) GetByID(ctx context.Context, id uuid.UUID) (*store.BlogWithAuthor, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + blogColumns + `
		FROM blogs b
		JOIN users u ON u.id = b.author_id
		WHERE b.id = $1
	`

	record, err := scanBlogWithAuthor(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("blog not found", slog.String("blog_id", id.String()))
			return nil, store.ErrBlogNotFound
		}
		log.Error("failed to get blog by ID",
			slog.String("error", err.Error()),
			slog.String("blog_id", id.String()))
		return nil, err
	}

	return record, nil
}

// List implements store.BlogStore.List
// It returns one page of blogs matching the filter, newest-first,
// together with pagination metadata.
func (s *PostgresBlogStore) List(ctx context.Context, filter store.BlogFilter) (*store.BlogPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	filter.Normalize()

	where, args := buildBlogFilter(filter)

	countQuery := `SELECT COUNT(*) FROM blogs b` + where
	var total int64
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count blogs", slog.String("error", err.Error()))
		return nil, err
	}

	listQuery := `SELECT ` + blogColumns + `
		FROM blogs b
		JOIN users u ON u.id = b.author_id` + where +
		fmt.Sprintf(`
		ORDER BY b.created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	listArgs := append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := s.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		log.Error("failed to query blogs", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	items := []*store.BlogWithAuthor{}
	for rows.Next() {
		record, err := scanBlogWithAuthor(rows)
		if err != nil {
			log.Error("failed to scan blog row", slog.String("error", err.Error()))
			return nil, err
		}
		items = append(items, record)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed blogs",
		slog.Int("count", len(items)),
		slog.Int64("total", total),
		slog.Int("page", filter.Page))

	return &store.BlogPage{
		Items: items,
		Meta: store.PageMeta{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
			Pages: ceilDiv(total, int64(filter.Limit)),
		},
	}, nil
}

// Update implements store.BlogStore.Update
// It applies a partial update, changing only the non-nil fields, and
// returns the updated blog with its author.
// Returns store.ErrBlogNotFound if the blog does not exist.
func (s *PostgresBlogStore) Update(ctx context.Context, id uuid.UUID, update store.BlogUpdate) (*store.BlogWithAuthor, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if update.IsEmpty() {
		// Nothing to change; treat as a read so the handler still gets
		// the current record back.
		return s.GetByID(ctx, id)
	}

	set := []string{}
	args := []any{}

	appendSet := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		appendSet("title", *update.Title)
	}
	if update.Content != nil {
		appendSet("content", *update.Content)
	}
	if update.Excerpt != nil {
		appendSet("excerpt", nullableString(*update.Excerpt))
	}
	if update.Tags != nil {
		tags, err := marshalStrings(update.Tags)
		if err != nil {
			return nil, err
		}
		appendSet("tags", tags)
	}
	if update.Categories != nil {
		categories, err := marshalStrings(update.Categories)
		if err != nil {
			return nil, err
		}
		appendSet("categories", categories)
	}
	if update.IsFeatured != nil {
		appendSet("is_featured", *update.IsFeatured)
	}
	if update.ThumbnailURL != nil {
		appendSet("thumbnail_url", nullableString(*update.ThumbnailURL))
	}

	appendSet("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE blogs SET %s WHERE id = $%d`,
		strings.Join(set, ", "), len(args))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update blog",
			slog.String("error", err.Error()),
			slog.String("blog_id", id.String()))
		return nil, MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrBlogNotFound); err != nil {
		log.Debug("blog not found for update", slog.String("blog_id", id.String()))
		return nil, err
	}

	log.Info("blog updated successfully", slog.String("blog_id", id.String()))
	return s.GetByID(ctx, id)
}

// Delete implements store.BlogStore.Delete
// Returns store.ErrBlogNotFound if the blog does not exist.
func (s *PostgresBlogStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete blog",
			slog.String("error", err.Error()),
			slog.String("blog_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrBlogNotFound); err != nil {
		log.Debug("blog not found for delete", slog.String("blog_id", id.String()))
		return err
	}

	log.Info("blog deleted successfully", slog.String("blog_id", id.String()))
	return nil
}

// IncrementViews implements store.BlogStore.IncrementViews
// The counter bump happens in a single UPDATE so two concurrent fetches
// never observe the same value twice.
// Returns store.ErrBlogNotFound if the blog does not exist.
func (s *PostgresBlogStore) IncrementViews(ctx context.Context, id uuid.UUID) (*store.BlogWithAuthor, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE blogs SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to increment blog views",
			slog.String("error", err.Error()),
			slog.String("blog_id", id.String()))
		return nil, MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrBlogNotFound); err != nil {
		log.Debug("blog not found for view increment",
			slog.String("blog_id", id.String()))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// buildBlogFilter composes the WHERE clause and argument list for a
// blog filter. Returns an empty string when no filters apply.
func buildBlogFilter(filter store.BlogFilter) (string, []any) {
	conds := []string{}
	args := []any{}

	if filter.TitleQuery != "" {
		args = append(args, "%"+filter.TitleQuery+"%")
		conds = append(conds, fmt.Sprintf("b.title ILIKE $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conds = append(conds, fmt.Sprintf("b.tags ? $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("b.categories ? $%d", len(args)))
	}
	if filter.IsFeatured != nil {
		args = append(args, *filter.IsFeatured)
		conds = append(conds, fmt.Sprintf("b.is_featured = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "\n\t\tWHERE " + strings.Join(conds, " AND "), args
}

// scanBlogWithAuthor reads one joined blog+author row in the canonical
// column order of blogColumns.
func scanBlogWithAuthor(row rowScanner) (*store.BlogWithAuthor, error) {
	var blog domain.Blog
	var author domain.User
	var excerpt, thumbnail sql.NullString
	var tags, categories []byte
	var role string

	err := row.Scan(
		&blog.ID,
		&blog.Title,
		&blog.Content,
		&excerpt,
		&tags,
		&categories,
		&blog.IsFeatured,
		&thumbnail,
		&blog.Views,
		&blog.AuthorID,
		&blog.CreatedAt,
		&blog.UpdatedAt,
		&author.ID,
		&author.Name,
		&author.Email,
		&author.HashedPassword,
		&role,
		&author.Phone,
		&author.CreatedAt,
		&author.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	blog.Excerpt = excerpt.String
	blog.ThumbnailURL = thumbnail.String
	author.Role = domain.Role(role)

	if blog.Tags, err = unmarshalStrings(tags); err != nil {
		return nil, err
	}
	if blog.Categories, err = unmarshalStrings(categories); err != nil {
		return nil, err
	}

	return &store.BlogWithAuthor{Blog: &blog, Author: &author}, nil
}

// marshalStrings encodes a string slice for a jsonb column.
// Nil slices are stored as empty arrays.
func marshalStrings(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode string array: %w", err)
	}
	return encoded, nil
}

// unmarshalStrings decodes a jsonb string array column.
func unmarshalStrings(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("failed to decode string array: %w", err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// nullableString maps an empty string to SQL NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ceilDiv returns the ceiling of a/b for positive b.
func ceilDiv(a, b int64) int64 {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
