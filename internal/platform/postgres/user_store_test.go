package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nhassan/blog-api/internal/domain"
	"github.com/nhassan/blog-api/internal/platform/postgres"
	"github.com/nhassan/blog-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func newStoredUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Nur Hassan", "nur@example.com", "01712345678", domain.RoleUser)
	require.NoError(t, err)
	user.HashedPassword = "$2a$10$digest"
	return user
}

var userColumns = []string{
	"id", "name", "email", "hashed_password", "role", "phone", "created_at", "updated_at",
}

func userRow(user *domain.User) *sqlmock.Rows {
	return sqlmock.NewRows(userColumns).AddRow(
		user.ID.String(), user.Name, user.Email, user.HashedPassword,
		string(user.Role), user.Phone, user.CreatedAt, user.UpdatedAt,
	)
}

func TestPostgresUserStoreCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("inserts valid user", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		user := newStoredUser(t)

		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Name, user.Email, user.HashedPassword,
				string(user.Role), user.Phone, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		userStore := postgres.NewPostgresUserStore(db, nil)
		assert.NoError(t, userStore.Create(ctx, user))
	})

	t.Run("maps unique violation to ErrEmailExists", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		user := newStoredUser(t)

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pgconn.PgError{
				Code:           "23505",
				ConstraintName: "users_email_key",
			})

		userStore := postgres.NewPostgresUserStore(db, nil)
		err := userStore.Create(ctx, user)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("rejects invalid user before touching the database", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)
		user := newStoredUser(t)
		user.Email = ""

		userStore := postgres.NewPostgresUserStore(db, nil)
		assert.ErrorIs(t, userStore.Create(ctx, user), domain.ErrEmptyEmail)
	})

	t.Run("rejects user without password hash", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)
		user := newStoredUser(t)
		user.HashedPassword = ""

		userStore := postgres.NewPostgresUserStore(db, nil)
		assert.ErrorIs(t, userStore.Create(ctx, user), domain.ErrEmptyHashedPassword)
	})
}

func TestPostgresUserStoreGetByEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns user with password hash", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		user := newStoredUser(t)

		mock.ExpectQuery("SELECT id, name, email, hashed_password, role, phone, created_at, updated_at").
			WithArgs(user.Email).
			WillReturnRows(userRow(user))

		userStore := postgres.NewPostgresUserStore(db, nil)
		found, err := userStore.GetByEmail(ctx, user.Email)
		require.NoError(t, err)

		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, user.Email, found.Email)
		assert.Equal(t, user.HashedPassword, found.HashedPassword,
			"login needs the hash for credential comparison")
		assert.Equal(t, domain.RoleUser, found.Role)
	})

	t.Run("maps no rows to ErrUserNotFound", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)

		mock.ExpectQuery("SELECT id, name, email").
			WithArgs("missing@example.com").
			WillReturnError(sql.ErrNoRows)

		userStore := postgres.NewPostgresUserStore(db, nil)
		found, err := userStore.GetByEmail(ctx, "missing@example.com")
		assert.Nil(t, found)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("propagates other errors", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)

		queryErr := errors.New("connection reset")
		mock.ExpectQuery("SELECT id, name, email").
			WillReturnError(queryErr)

		userStore := postgres.NewPostgresUserStore(db, nil)
		_, err := userStore.GetByEmail(ctx, "nur@example.com")
		assert.ErrorIs(t, err, queryErr)
	})
}

func TestPostgresUserStoreGetByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns user", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		user := newStoredUser(t)

		mock.ExpectQuery("SELECT id, name, email").
			WithArgs(user.ID).
			WillReturnRows(userRow(user))

		userStore := postgres.NewPostgresUserStore(db, nil)
		found, err := userStore.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Name, found.Name)
	})

	t.Run("maps no rows to ErrUserNotFound", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)

		mock.ExpectQuery("SELECT id, name, email").
			WillReturnError(sql.ErrNoRows)

		userStore := postgres.NewPostgresUserStore(db, nil)
		_, err := userStore.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
