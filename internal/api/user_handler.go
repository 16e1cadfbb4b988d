package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/nhassan/blog-api/internal/api/shared"
	"github.com/nhassan/blog-api/internal/domain"
	"github.com/nhassan/blog-api/internal/platform/logger"
	"github.com/nhassan/blog-api/internal/service/auth"
	"github.com/nhassan/blog-api/internal/store"
)

// UserHandler handles user registration.
type UserHandler struct {
	userStore      store.UserStore
	passwordHasher auth.PasswordHasher
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(
	userStore store.UserStore,
	passwordHasher auth.PasswordHasher,
	log *slog.Logger,
) *UserHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{
		userStore:      userStore,
		passwordHasher: passwordHasher,
		validator:      NewValidator(),
		logger:         log.With(slog.String("component", "user_handler")),
	}
}

// Register handles POST {prefix}/users.
// The created user's response never contains a password field.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		HandleAPIError(w, r, mapValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Name, req.Email, req.Phone, domain.Role(req.Role))
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("user", err.Error(), err))
		return
	}

	user.HashedPassword, err = h.passwordHasher.Hash(req.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err, "user_id", user.ID)
		HandleAPIError(w, r, err)
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("user registered", "user_id", user.ID, "role", user.Role)
	shared.RespondWithData(w, r, http.StatusCreated, "User registered successfully!",
		NewUserResponse(user))
}
