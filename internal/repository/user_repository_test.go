package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/taskflowhq/taskflow-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewUserRepository(db), mock
}

func userRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "first_name", "last_name", "is_active", "created_at", "updated_at",
	}).AddRow(1, "ada", "ada@example.com", "hashed", "Ada", "Lovelace", true, now, now)
}

func TestGormUserRepository_FindByEmail_CaseInsensitive(t *testing.T) {
	repo, mock := setupMockRepo(t)

	// The lookup lower-cases both sides of the comparison.
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WillReturnRows(userRows())

	user, err := repo.FindByEmail("ADA@Example.com")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, uint64(1), user.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_FindByEmail_NotFound(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByEmail("nobody@example.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_FindByUsername(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WillReturnRows(userRows())

	user, err := repo.FindByUsername("ada")
	require.NoError(t, err)
	require.Equal(t, "ada", user.Username)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_Create_Duplicate(t *testing.T) {
	_, db := setupTaskRepo(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(&models.User{
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: "hashed",
		IsActive:     true,
	}))

	err := repo.Create(&models.User{
		Username:     "ada2",
		Email:        "ada@example.com",
		PasswordHash: "hashed",
		IsActive:     true,
	})
	require.ErrorIs(t, err, ErrDuplicateUser)

	err = repo.Create(&models.User{
		Username:     "ada",
		Email:        "other@example.com",
		PasswordHash: "hashed",
		IsActive:     true,
	})
	require.ErrorIs(t, err, ErrDuplicateUser)
}
