package service

import (
	"context"
	"testing"

	"github.com/knakam/dance-analyzer/internal/repository"
	"github.com/knakam/dance-analyzer/internal/repository/models"
	"github.com/knakam/dance-analyzer/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProfile(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	f := func(v float64) *float64 { return &v }

	t.Run("includes practice statistics", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetUserByIDFunc: func(ctx context.Context, id int64) (models.User, error) {
				return models.User{ID: id, Email: "aoi@example.com", Username: "aoi", IsActive: true}, nil
			},
		}
		sessions := &mocks.MockSessionRepository{
			SessionsForUserFunc: func(ctx context.Context, userID int64) ([]models.DanceSession, error) {
				return []models.DanceSession{
					{PracticeDuration: 5400, OverallScore: f(81.25)},
					{PracticeDuration: 1800},
				}, nil
			},
		}

		svc := NewUserService(users, sessions, logger)
		profile, err := svc.Profile(ctx, 9)

		require.NoError(t, err)
		assert.Equal(t, 2, profile.TotalSessions)
		assert.Equal(t, 2.0, profile.TotalPracticeHours)
		assert.Equal(t, 81.3, profile.AverageScore)
		assert.NotNil(t, profile.PreferredGenres)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetUserByIDFunc: func(ctx context.Context, id int64) (models.User, error) {
				return models.User{}, repository.ErrNotFound
			},
		}
		sessions := &mocks.MockSessionRepository{}

		svc := NewUserService(users, sessions, logger)
		_, err := svc.Profile(ctx, 9)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	str := func(s string) *string { return &s }

	t.Run("applies only provided fields", func(t *testing.T) {
		var saved models.User
		users := &mocks.MockUserRepository{
			GetUserByIDFunc: func(ctx context.Context, id int64) (models.User, error) {
				return models.User{ID: id, Email: "aoi@example.com", FullName: "Aoi", Bio: "hi"}, nil
			},
			UpdateProfileFunc: func(ctx context.Context, u models.User) error {
				saved = u
				return nil
			},
		}
		sessions := &mocks.MockSessionRepository{
			SessionsForUserFunc: func(ctx context.Context, userID int64) ([]models.DanceSession, error) {
				return nil, nil
			},
		}

		svc := NewUserService(users, sessions, logger)
		_, err := svc.UpdateProfile(ctx, 9, ProfileUpdate{Bio: str("dancing daily")})

		require.NoError(t, err)
		assert.Equal(t, "dancing daily", saved.Bio)
		assert.Equal(t, "Aoi", saved.FullName)
		assert.Equal(t, "aoi@example.com", saved.Email)
	})

	t.Run("email change to a taken address", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetUserByIDFunc: func(ctx context.Context, id int64) (models.User, error) {
				return models.User{ID: id, Email: "aoi@example.com"}, nil
			},
			GetUserByEmailFunc: func(ctx context.Context, email string) (models.User, error) {
				return models.User{ID: 2, Email: email}, nil
			},
		}
		sessions := &mocks.MockSessionRepository{}

		svc := NewUserService(users, sessions, logger)
		_, err := svc.UpdateProfile(ctx, 9, ProfileUpdate{Email: str("taken@example.com")})

		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}
