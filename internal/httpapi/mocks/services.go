package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/knakam/dance-analyzer/internal/auth"
	"github.com/knakam/dance-analyzer/internal/repository/models"
	"github.com/knakam/dance-analyzer/internal/service"
)

type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, in service.RegisterInput) (service.AuthResult, error)
	LoginFunc          func(ctx context.Context, email, password string) (service.AuthResult, error)
	ChangePasswordFunc func(ctx context.Context, userID int64, current, next string) error
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (service.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return service.AuthResult{}, errors.New("not implemented")
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (service.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return service.AuthResult{}, errors.New("not implemented")
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, userID, current, next)
	}
	return errors.New("not implemented")
}

type MockAnalysisService struct {
	CreateSessionFunc func(ctx context.Context, userID int64, in service.SessionInput) (models.DanceSession, error)
	ListSessionsFunc  func(ctx context.Context, userID int64, offset, limit int) ([]models.DanceSession, error)
	GetSessionFunc    func(ctx context.Context, userID, id int64) (models.DanceSession, error)
	AddPracticeTimeFunc func(ctx context.Context, userID, sessionID, seconds int64) (models.DanceSession, error)
	AnalyzeFunc         func(ctx context.Context, userID int64, in service.AnalyzeInput) (models.AnalysisResult, error)
	ListAnalysesFunc  func(ctx context.Context, userID, sessionID int64) ([]models.AnalysisResult, error)
	UserStatsFunc     func(ctx context.Context, userID int64) (service.SessionStats, error)
}

func (m *MockAnalysisService) CreateSession(ctx context.Context, userID int64, in service.SessionInput) (models.DanceSession, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, userID, in)
	}
	return models.DanceSession{}, errors.New("not implemented")
}

func (m *MockAnalysisService) ListSessions(ctx context.Context, userID int64, offset, limit int) ([]models.DanceSession, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx, userID, offset, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *MockAnalysisService) GetSession(ctx context.Context, userID, id int64) (models.DanceSession, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, userID, id)
	}
	return models.DanceSession{}, errors.New("not implemented")
}

func (m *MockAnalysisService) AddPracticeTime(ctx context.Context, userID, sessionID, seconds int64) (models.DanceSession, error) {
	if m.AddPracticeTimeFunc != nil {
		return m.AddPracticeTimeFunc(ctx, userID, sessionID, seconds)
	}
	return models.DanceSession{}, errors.New("not implemented")
}

func (m *MockAnalysisService) Analyze(ctx context.Context, userID int64, in service.AnalyzeInput) (models.AnalysisResult, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, userID, in)
	}
	return models.AnalysisResult{}, errors.New("not implemented")
}

func (m *MockAnalysisService) ListAnalyses(ctx context.Context, userID, sessionID int64) ([]models.AnalysisResult, error) {
	if m.ListAnalysesFunc != nil {
		return m.ListAnalysesFunc(ctx, userID, sessionID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockAnalysisService) UserStats(ctx context.Context, userID int64) (service.SessionStats, error) {
	if m.UserStatsFunc != nil {
		return m.UserStatsFunc(ctx, userID)
	}
	return service.SessionStats{}, errors.New("not implemented")
}

type MockUserService struct {
	ProfileFunc       func(ctx context.Context, userID int64) (service.UserProfile, error)
	UpdateProfileFunc func(ctx context.Context, userID int64, in service.ProfileUpdate) (service.UserProfile, error)
}

func (m *MockUserService) Profile(ctx context.Context, userID int64) (service.UserProfile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, userID)
	}
	return service.UserProfile{}, errors.New("not implemented")
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID int64, in service.ProfileUpdate) (service.UserProfile, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, in)
	}
	return service.UserProfile{}, errors.New("not implemented")
}

type MockTokenValidator struct {
	ValidateTokenFunc func(token string) (*auth.Claims, error)
}

func (m *MockTokenValidator) ValidateToken(token string) (*auth.Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(token)
	}
	return nil, errors.New("not implemented")
}

type MockCacher struct {
	GetFunc func(ctx context.Context, key string, dest any) error
	SetFunc func(ctx context.Context, key string, value any, expiration time.Duration) error
}

func (m *MockCacher) Get(ctx context.Context, key string, dest any) error {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key, dest)
	}
	return errors.New("not implemented")
}

func (m *MockCacher) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return errors.New("not implemented")
}

type MockRateCounter struct {
	IncrFunc func(ctx context.Context, key string, window time.Duration) (int64, error)
}

func (m *MockRateCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if m.IncrFunc != nil {
		return m.IncrFunc(ctx, key, window)
	}
	return 0, errors.New("not implemented")
}
