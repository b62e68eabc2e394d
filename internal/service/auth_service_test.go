package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/file-vault-service/internal/auth"
	"github.com/spec-kit/file-vault-service/internal/config"
	"github.com/spec-kit/file-vault-service/internal/domain"
	"github.com/spec-kit/file-vault-service/internal/repository"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

type mockResetRepo struct{ mock.Mock }

func (m *mockResetRepo) Create(ctx context.Context, token *repository.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockResetRepo) GetByToken(ctx context.Context, token string) (*repository.PasswordResetToken, error) {
	args := m.Called(ctx, token)
	if t, ok := args.Get(0).(*repository.PasswordResetToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResetRepo) MarkUsed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ repository.PasswordResetRepository = (*mockResetRepo)(nil)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:               "test-secret",
		TokenTTLHours:           1,
		PasswordResetTTLMinutes: 30,
		BcryptCost:              bcrypt.MinCost,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("ok when email free", func(t *testing.T) {
		users := new(mockUserRepo)
		svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: users})

		users.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, pgx.ErrNoRows).Once()
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "a@x.com" && u.PasswordHash != "" && u.PasswordHash != "p1"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = "u1"
		}).Return(nil).Once()

		user, token, exp, err := svc.Register(ctx, "Alice", "A@X.com", "p1")
		assert.NoError(t, err)
		assert.Equal(t, domain.UserID("u1"), user.ID)
		assert.NotEmpty(t, token)
		assert.True(t, exp.After(time.Now()))

		// The issued token verifies back to the new user.
		userID, err := svc.TokenManager().Verify(token)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, userID)
		users.AssertExpectations(t)
	})

	t.Run("conflict when email taken", func(t *testing.T) {
		users := new(mockUserRepo)
		svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: users})

		users.On("GetByEmail", mock.Anything, "a@x.com").
			Return(&domain.User{ID: "u1", Email: "a@x.com"}, nil).Once()

		user, _, _, err := svc.Register(ctx, "Alice", "a@x.com", "p1")
		assert.Nil(t, user)
		assert.EqualError(t, err, "email already registered")
		users.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := auth.HashPassword("secret", bcrypt.MinCost)

	t.Run("ok with valid credentials", func(t *testing.T) {
		users := new(mockUserRepo)
		svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: users})

		users.On("GetByEmail", mock.Anything, "a@x.com").
			Return(&domain.User{ID: "u1", Email: "a@x.com", PasswordHash: hash}, nil).Once()

		user, token, _, err := svc.Login(ctx, "a@x.com", "secret")
		assert.NoError(t, err)
		assert.Equal(t, domain.UserID("u1"), user.ID)
		assert.NotEmpty(t, token)
		users.AssertExpectations(t)
	})

	t.Run("wrong password and unknown email fail alike", func(t *testing.T) {
		users := new(mockUserRepo)
		svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: users})

		users.On("GetByEmail", mock.Anything, "a@x.com").
			Return(&domain.User{ID: "u1", Email: "a@x.com", PasswordHash: hash}, nil).Once()
		users.On("GetByEmail", mock.Anything, "ghost@x.com").
			Return(nil, pgx.ErrNoRows).Once()

		_, _, _, badPass := svc.Login(ctx, "a@x.com", "wrong")
		_, _, _, noUser := svc.Login(ctx, "ghost@x.com", "whatever")

		assert.ErrorIs(t, badPass, ErrInvalidCredentials)
		assert.ErrorIs(t, noUser, ErrInvalidCredentials)
		assert.Equal(t, badPass.Error(), noUser.Error())
		users.AssertExpectations(t)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	hash, _ := auth.HashPassword("old-pass", bcrypt.MinCost)

	users := new(mockUserRepo)
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: users})

	users.On("GetByID", mock.Anything, domain.UserID("u1")).
		Return(&domain.User{ID: "u1", PasswordHash: hash}, nil).Twice()
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return auth.ComparePassword(u.PasswordHash, "new-pass") == nil
	})).Return(nil).Once()

	assert.NoError(t, svc.ChangePassword(ctx, "u1", "old-pass", "new-pass"))
	assert.ErrorIs(t, svc.ChangePassword(ctx, "u1", "wrong", "new-pass"), ErrInvalidCredentials)
	users.AssertExpectations(t)
}

func TestAuthService_ConfirmPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("expired token rejected", func(t *testing.T) {
		users := new(mockUserRepo)
		resets := new(mockResetRepo)
		svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: users, PasswordResetRepo: resets})

		resets.On("GetByToken", mock.Anything, "tok").Return(&repository.PasswordResetToken{
			ID:        "r1",
			UserID:    "u1",
			Token:     "tok",
			ExpiresAt: time.Now().Add(-time.Minute),
		}, nil).Once()

		err := svc.ConfirmPasswordReset(ctx, "tok", "new-pass")
		assert.EqualError(t, err, "token expired or used")
		resets.AssertExpectations(t)
	})

	t.Run("valid token updates password once", func(t *testing.T) {
		users := new(mockUserRepo)
		resets := new(mockResetRepo)
		svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: users, PasswordResetRepo: resets})

		resets.On("GetByToken", mock.Anything, "tok").Return(&repository.PasswordResetToken{
			ID:        "r1",
			UserID:    "u1",
			Token:     "tok",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil).Once()
		users.On("GetByID", mock.Anything, domain.UserID("u1")).
			Return(&domain.User{ID: "u1"}, nil).Once()
		users.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
		resets.On("MarkUsed", mock.Anything, "r1").Return(nil).Once()

		assert.NoError(t, svc.ConfirmPasswordReset(ctx, "tok", "new-pass"))
		users.AssertExpectations(t)
		resets.AssertExpectations(t)
	})
}
