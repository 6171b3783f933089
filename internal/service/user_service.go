package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/knakam/dance-analyzer/internal/repository"
	"go.uber.org/zap"
)

// UserService serves profile reads and updates.
type UserService struct {
	users    UserRepository
	sessions SessionRepository
	logger   *zap.Logger
}

func NewUserService(users UserRepository, sessions SessionRepository, logger *zap.Logger) *UserService {
	if users == nil || sessions == nil {
		panic("repositories must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &UserService{users: users, sessions: sessions, logger: logger}
}

// Profile returns the user's profile together with practice statistics.
func (s *UserService) Profile(ctx context.Context, userID int64) (UserProfile, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	user, err := s.users.GetUserByID(dbCtx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return UserProfile{}, ErrUserNotFound
		}
		return UserProfile{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	sessions, err := s.sessions.SessionsForUser(dbCtx, userID)
	if err != nil {
		return UserProfile{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	profile := profileOf(user)
	profile.TotalSessions = len(sessions)

	var practiceSeconds int64
	var scoreSum float64
	var scored int
	for _, sess := range sessions {
		practiceSeconds += sess.PracticeDuration
		if sess.OverallScore != nil {
			scoreSum += *sess.OverallScore
			scored++
		}
	}
	profile.TotalPracticeHours = roundTo(float64(practiceSeconds)/3600.0, 2)
	if scored > 0 {
		profile.AverageScore = roundTo(scoreSum/float64(scored), 1)
	}

	return profile, nil
}

// UpdateProfile applies the non-nil fields and returns the fresh profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in ProfileUpdate) (UserProfile, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	user, err := s.users.GetUserByID(dbCtx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return UserProfile{}, ErrUserNotFound
		}
		return UserProfile{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if in.Email != nil && *in.Email != user.Email {
		if _, err := s.users.GetUserByEmail(dbCtx, *in.Email); err == nil {
			return UserProfile{}, ErrEmailTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return UserProfile{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		user.Email = *in.Email
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.DanceLevel != nil {
		user.DanceLevel = *in.DanceLevel
	}
	if in.PreferredGenres != nil {
		user.PreferredGenres = *in.PreferredGenres
	}

	if err := s.users.UpdateProfile(dbCtx, user); err != nil {
		return UserProfile{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("profile updated", zap.Int64("user_id", userID))
	return s.Profile(ctx, userID)
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
