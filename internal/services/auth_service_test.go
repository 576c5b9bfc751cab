package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskflowhq/taskflow-api/internal/models"
	"github.com/taskflowhq/taskflow-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Task{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewAuthService(repository.NewUserRepository(db)), db
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Username:        "ada",
		Password:        "supersecret",
		PasswordConfirm: "supersecret",
		AgreeToTerms:    true,
	}
}

func TestAuthService_Register(t *testing.T) {
	svc, db := setupAuthService(t)

	user, err := svc.Register(validRegisterInput())
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.True(t, user.IsActive)

	// The raw password is never persisted.
	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.NotEqual(t, "supersecret", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("supersecret")))
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	svc, db := setupAuthService(t)

	input := validRegisterInput()
	input.PasswordConfirm = "different"

	_, err := svc.Register(input)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Contains(t, validation.Fields, "password_confirm")

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAuthService_Register_TermsNotAccepted(t *testing.T) {
	svc, db := setupAuthService(t)

	input := validRegisterInput()
	input.AgreeToTerms = false

	_, err := svc.Register(input)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Contains(t, validation.Fields, "agree_to_terms")

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Register(validRegisterInput())
	require.NoError(t, err)

	dupUsername := validRegisterInput()
	dupUsername.Email = "other@example.com"
	_, err = svc.Register(dupUsername)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Contains(t, validation.Fields, "username")

	dupEmail := validRegisterInput()
	dupEmail.Username = "other"
	_, err = svc.Register(dupEmail)

	require.ErrorAs(t, err, &validation)
	require.Contains(t, validation.Fields, "email")
}

// racingUserRepo simulates a concurrent registration: the pre-checks
// see no existing user, but the insert hits a unique index.
type racingUserRepo struct {
	// usernameTakenAfter makes FindByUsername succeed once the insert
	// has failed, so the duplicate is attributed to the username.
	usernameTakenAfter bool
	createCalled       bool
}

func (r *racingUserRepo) Create(user *models.User) error {
	r.createCalled = true
	return repository.ErrDuplicateUser
}

func (r *racingUserRepo) FindByID(id uint64) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *racingUserRepo) FindByEmail(email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *racingUserRepo) FindByUsername(username string) (*models.User, error) {
	if r.usernameTakenAfter && r.createCalled {
		return &models.User{Username: username}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestAuthService_Register_ConcurrentDuplicate(t *testing.T) {
	repo := &racingUserRepo{}
	svc := NewAuthService(repo)

	_, err := svc.Register(validRegisterInput())

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Contains(t, validation.Fields, "email")

	repo = &racingUserRepo{usernameTakenAfter: true}
	svc = NewAuthService(repo)

	_, err = svc.Register(validRegisterInput())

	require.ErrorAs(t, err, &validation)
	require.Contains(t, validation.Fields, "username")
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := setupAuthService(t)

	registered, err := svc.Register(validRegisterInput())
	require.NoError(t, err)

	user, err := svc.Login(LoginInput{Email: "ada@example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
}

func TestAuthService_Login_CaseInsensitiveEmail(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Register(validRegisterInput())
	require.NoError(t, err)

	user, err := svc.Login(LoginInput{Email: "ADA@Example.COM", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, "ada", user.Username)
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, db := setupAuthService(t)

	_, err := svc.Register(validRegisterInput())
	require.NoError(t, err)

	_, err = svc.Login(LoginInput{Email: "nobody@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(LoginInput{Email: "ada@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "ada@example.com").Update("is_active", false).Error)

	_, err = svc.Login(LoginInput{Email: "ada@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrUserInactive)
}
