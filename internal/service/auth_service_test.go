package service

import (
	"context"
	"testing"
	"time"

	"github.com/knakam/dance-analyzer/internal/auth"
	"github.com/knakam/dance-analyzer/internal/repository"
	"github.com/knakam/dance-analyzer/internal/repository/models"
	"github.com/knakam/dance-analyzer/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegister(t *testing.T) {
	logger := zap.NewNop()
	tokens := auth.NewService("test-secret", time.Minute)
	ctx := context.Background()
	input := RegisterInput{Email: "mika@example.com", Username: "mika", Password: "s3cret-steps"}

	t.Run("creates user and sends welcome email", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetUserByEmailFunc: func(ctx context.Context, email string) (models.User, error) {
				return models.User{}, repository.ErrNotFound
			},
			CreateUserFunc: func(ctx context.Context, u models.User) (int64, error) {
				assert.Equal(t, "mika@example.com", u.Email)
				assert.NotEqual(t, "s3cret-steps", u.HashedPassword)
				assert.Equal(t, "beginner", u.DanceLevel)
				return 11, nil
			},
		}
		var welcomed string
		notifier := &mocks.MockNotifier{
			WelcomeEmailFunc: func(ctx context.Context, email, username string) { welcomed = email },
		}

		svc := NewAuthService(users, tokens, notifier, logger)
		result, err := svc.Register(ctx, input)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, int64(11), result.User.ID)
		assert.True(t, result.User.IsActive)
		assert.Equal(t, "mika@example.com", welcomed)

		claims, err := tokens.ValidateToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(11), claims.UserID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetUserByEmailFunc: func(ctx context.Context, email string) (models.User, error) {
				return models.User{ID: 1, Email: email}, nil
			},
		}

		svc := NewAuthService(users, tokens, nil, logger)
		_, err := svc.Register(ctx, input)

		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestLogin(t *testing.T) {
	logger := zap.NewNop()
	tokens := auth.NewService("test-secret", time.Minute)
	ctx := context.Background()

	hashed, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	stored := models.User{ID: 5, Email: "rin@example.com", HashedPassword: hashed, IsActive: true}

	t.Run("valid credentials", func(t *testing.T) {
		touched := false
		users := &mocks.MockUserRepository{
			GetUserByEmailFunc: func(ctx context.Context, email string) (models.User, error) {
				return stored, nil
			},
			TouchLastLoginFunc: func(ctx context.Context, id int64) error {
				touched = true
				return nil
			},
		}

		svc := NewAuthService(users, tokens, nil, logger)
		result, err := svc.Login(ctx, "rin@example.com", "correct-horse")

		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.True(t, touched)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetUserByEmailFunc: func(ctx context.Context, email string) (models.User, error) {
				return stored, nil
			},
		}

		svc := NewAuthService(users, tokens, nil, logger)
		_, err := svc.Login(ctx, "rin@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetUserByEmailFunc: func(ctx context.Context, email string) (models.User, error) {
				return models.User{}, repository.ErrNotFound
			},
		}

		svc := NewAuthService(users, tokens, nil, logger)
		_, err := svc.Login(ctx, "nobody@example.com", "whatever")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		inactive := stored
		inactive.IsActive = false
		users := &mocks.MockUserRepository{
			GetUserByEmailFunc: func(ctx context.Context, email string) (models.User, error) {
				return inactive, nil
			},
		}

		svc := NewAuthService(users, tokens, nil, logger)
		_, err := svc.Login(ctx, "rin@example.com", "correct-horse")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestChangePassword(t *testing.T) {
	logger := zap.NewNop()
	tokens := auth.NewService("test-secret", time.Minute)
	ctx := context.Background()

	hashed, err := auth.HashPassword("old-pass")
	require.NoError(t, err)

	t.Run("valid change", func(t *testing.T) {
		var newHash string
		users := &mocks.MockUserRepository{
			GetUserByIDFunc: func(ctx context.Context, id int64) (models.User, error) {
				return models.User{ID: id, HashedPassword: hashed}, nil
			},
			UpdatePasswordFunc: func(ctx context.Context, id int64, h string) error {
				newHash = h
				return nil
			},
		}

		svc := NewAuthService(users, tokens, nil, logger)
		require.NoError(t, svc.ChangePassword(ctx, 5, "old-pass", "new-pass"))
		assert.True(t, auth.CheckPassword(newHash, "new-pass"))
	})

	t.Run("wrong current password", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetUserByIDFunc: func(ctx context.Context, id int64) (models.User, error) {
				return models.User{ID: id, HashedPassword: hashed}, nil
			},
		}

		svc := NewAuthService(users, tokens, nil, logger)
		err := svc.ChangePassword(ctx, 5, "not-old-pass", "new-pass")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
