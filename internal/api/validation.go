package api

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/nhassan/blog-api/internal/domain"
)

// bdPhonePattern matches Bangladeshi mobile numbers: 01 + 9 digits.
var bdPhonePattern = regexp.MustCompile(`^01[0-9]{9}$`)

// NewValidator builds the request validator with the custom rules the
// API's payloads use.
func NewValidator() *validator.Validate {
	v := validator.New()

	// Registering a validation func under a fixed, non-empty tag name
	// cannot fail, so the returned error is discarded.
	_ = v.RegisterValidation("bd_phone", func(fl validator.FieldLevel) bool {
		return bdPhonePattern.MatchString(fl.Field().String())
	})

	return v
}

// validationMessages maps "Struct.Field.tag" to the human-readable
// message the API has always reported for that failure.
var validationMessages = map[string]string{
	"RegisterRequest.Name.required":     "Name is required",
	"RegisterRequest.Email.required":    "Invalid email address",
	"RegisterRequest.Email.email":       "Invalid email address",
	"RegisterRequest.Password.required": "Password must be at least 6 characters",
	"RegisterRequest.Password.min":      "Password must be at least 6 characters",
	"RegisterRequest.Role.oneof":        "Invalid role",
	"RegisterRequest.Phone.required":    "Invalid phone number",
	"RegisterRequest.Phone.bd_phone":    "Invalid phone number",

	"LoginRequest.Email.required":    "Invalid email",
	"LoginRequest.Email.email":       "Invalid email",
	"LoginRequest.Password.required": "Password is required",

	"CreateBlogRequest.Title.required":   "Title is required",
	"CreateBlogRequest.Content.required": "Content is required",
	"CreateBlogRequest.ThumbnailURL.url": "Invalid thumbnail URL",

	"UpdateBlogRequest.Title.min":        "Title is required",
	"UpdateBlogRequest.Content.min":      "Content is required",
	"UpdateBlogRequest.ThumbnailURL.url": "Invalid thumbnail URL",
}

// mapValidationError converts a validator error into a domain
// ValidationError carrying the message for the first failing field.
// Non-validator errors are passed through unchanged.
func mapValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}

	first := fieldErrors[0]
	message, ok := validationMessages[first.StructNamespace()+"."+first.Tag()]
	if !ok {
		message = "Invalid " + first.Field()
	}

	return domain.NewValidationError(first.Field(), message, domain.ErrValidation)
}
