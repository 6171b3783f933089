package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/knakam/dance-analyzer/internal/auth"
	"github.com/knakam/dance-analyzer/internal/repository"
	"github.com/knakam/dance-analyzer/internal/repository/models"
	"go.uber.org/zap"
)

// AuthService handles registration, login and password changes.
type AuthService struct {
	users    UserRepository
	tokens   *auth.Service
	notifier Notifier
	logger   *zap.Logger
}

func NewAuthService(users UserRepository, tokens *auth.Service, notifier Notifier, logger *zap.Logger) *AuthService {
	if users == nil {
		panic("users repository must not be nil")
	}
	if tokens == nil {
		panic("token service must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &AuthService{users: users, tokens: tokens, notifier: notifier, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := s.users.GetUserByEmail(dbCtx, in.Email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return AuthResult{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	level := in.DanceLevel
	if level == "" {
		level = "beginner"
	}
	user := models.User{
		Email:          in.Email,
		Username:       in.Username,
		HashedPassword: hashed,
		FullName:       in.FullName,
		DanceLevel:     level,
	}

	id, err := s.users.CreateUser(dbCtx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	user.ID = id
	user.IsActive = true

	token, err := s.tokens.GenerateToken(id)
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign token: %w", err)
	}

	if s.notifier != nil {
		s.notifier.WelcomeEmail(ctx, user.Email, user.Username)
	}

	s.logger.Info("user registered", zap.Int64("user_id", id))
	return AuthResult{Token: token, User: profileOf(user)}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	user, err := s.users.GetUserByEmail(dbCtx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if !user.IsActive || !auth.CheckPassword(user.HashedPassword, password) {
		return AuthResult{}, ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(dbCtx, user.ID); err != nil {
		// Login still succeeds; the timestamp is best effort.
		s.logger.Warn("failed to record last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign token: %w", err)
	}

	return AuthResult{Token: token, User: profileOf(user)}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	user, err := s.users.GetUserByID(dbCtx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if !auth.CheckPassword(user.HashedPassword, current) {
		return ErrInvalidCredentials
	}

	hashed, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(dbCtx, userID, hashed); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("password changed", zap.Int64("user_id", userID))
	return nil
}

func profileOf(u models.User) UserProfile {
	genres := u.PreferredGenres
	if genres == nil {
		genres = []string{}
	}
	return UserProfile{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		FullName:        u.FullName,
		Bio:             u.Bio,
		DanceLevel:      u.DanceLevel,
		PreferredGenres: genres,
		IsActive:        u.IsActive,
		CreatedAt:       u.CreatedAt,
		LastLoginAt:     u.LastLoginAt,
	}
}
