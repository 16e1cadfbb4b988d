package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/nhassan/blog-api/internal/domain"
	"github.com/nhassan/blog-api/internal/store"
)

// Request payloads

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
	Phone    string `json:"phone"    validate:"required,bd_phone"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateBlogRequest defines the payload for the blog creation endpoint.
type CreateBlogRequest struct {
	Title        string   `json:"title"        validate:"required"`
	Content      string   `json:"content"      validate:"required"`
	Excerpt      string   `json:"excerpt"`
	Tags         []string `json:"tags"`
	Categories   []string `json:"categories"`
	IsFeatured   bool     `json:"isFeatured"`
	ThumbnailURL string   `json:"thumbnailUrl" validate:"omitempty,url"`
}

// UpdateBlogRequest defines the payload for partial blog updates.
// Every field is optional; only supplied fields are changed.
type UpdateBlogRequest struct {
	Title        *string  `json:"title"        validate:"omitempty,min=1"`
	Content      *string  `json:"content"      validate:"omitempty,min=1"`
	Excerpt      *string  `json:"excerpt"`
	Tags         []string `json:"tags"`
	Categories   []string `json:"categories"`
	IsFeatured   *bool    `json:"isFeatured"`
	ThumbnailURL *string  `json:"thumbnailUrl" validate:"omitempty,url"`
}

// Response DTOs. Constructed explicitly per entity so the serialized
// shape is declared in one place: the internal id is exposed as _id,
// a __v marker is added for compatibility with the legacy document
// store clients, and the password hash has no field at all.

// UserResponse is the client-facing shape of a user record.
type UserResponse struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	V         int       `json:"__v"`
}

// NewUserResponse maps a domain User to its client-facing shape.
func NewUserResponse(user *domain.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// BlogResponse is the client-facing shape of a blog record, optionally
// embedding its author.
type BlogResponse struct {
	ID           uuid.UUID     `json:"_id"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	Excerpt      string        `json:"excerpt,omitempty"`
	Tags         []string      `json:"tags"`
	Categories   []string      `json:"categories"`
	IsFeatured   bool          `json:"isFeatured"`
	ThumbnailURL string        `json:"thumbnailUrl,omitempty"`
	Views        int64         `json:"views"`
	AuthorID     uuid.UUID     `json:"authorId"`
	Author       *UserResponse `json:"author,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	V            int           `json:"__v"`
}

// NewBlogResponse maps a blog and its author to the client-facing shape.
func NewBlogResponse(blog *domain.Blog, author *domain.User) *BlogResponse {
	if blog == nil {
		return nil
	}

	tags := blog.Tags
	if tags == nil {
		tags = []string{}
	}
	categories := blog.Categories
	if categories == nil {
		categories = []string{}
	}

	return &BlogResponse{
		ID:           blog.ID,
		Title:        blog.Title,
		Content:      blog.Content,
		Excerpt:      blog.Excerpt,
		Tags:         tags,
		Categories:   categories,
		IsFeatured:   blog.IsFeatured,
		ThumbnailURL: blog.ThumbnailURL,
		Views:        blog.Views,
		AuthorID:     blog.AuthorID,
		Author:       NewUserResponse(author),
		CreatedAt:    blog.CreatedAt,
		UpdatedAt:    blog.UpdatedAt,
	}
}

// NewBlogResponses maps a page of joined blog records.
func NewBlogResponses(items []*store.BlogWithAuthor) []*BlogResponse {
	responses := make([]*BlogResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewBlogResponse(item.Blog, item.Author))
	}
	return responses
}

// LoginData is the data payload of a successful login response.
type LoginData struct {
	User *UserResponse `json:"user"`
}
