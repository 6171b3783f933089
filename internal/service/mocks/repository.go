// Package mocks provides hand-written mocks for the service layer's
// collaborator interfaces.
package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/knakam/dance-analyzer/internal/repository/models"
)

type MockUserRepository struct {
	CreateUserFunc     func(ctx context.Context, u models.User) (int64, error)
	GetUserByEmailFunc func(ctx context.Context, email string) (models.User, error)
	GetUserByIDFunc    func(ctx context.Context, id int64) (models.User, error)
	UpdateProfileFunc  func(ctx context.Context, u models.User) error
	UpdatePasswordFunc func(ctx context.Context, id int64, hashed string) error
	TouchLastLoginFunc func(ctx context.Context, id int64) error
}

func (m *MockUserRepository) CreateUser(ctx context.Context, u models.User) (int64, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, u)
	}
	return 0, errors.New("CreateUserFunc not implemented")
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(ctx, email)
	}
	return models.User{}, errors.New("GetUserByEmailFunc not implemented")
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return models.User{}, errors.New("GetUserByIDFunc not implemented")
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, u models.User) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, u)
	}
	return errors.New("UpdateProfileFunc not implemented")
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, hashed)
	}
	return errors.New("UpdatePasswordFunc not implemented")
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	if m.TouchLastLoginFunc != nil {
		return m.TouchLastLoginFunc(ctx, id)
	}
	return nil
}

type MockSessionRepository struct {
	CreateSessionFunc   func(ctx context.Context, s models.DanceSession) (int64, error)
	GetSessionFunc      func(ctx context.Context, id, userID int64) (models.DanceSession, error)
	ListSessionsFunc    func(ctx context.Context, userID int64, offset, limit int) ([]models.DanceSession, error)
	SessionsForUserFunc func(ctx context.Context, userID int64) ([]models.DanceSession, error)
	UpdateSummaryFunc   func(ctx context.Context, id int64, overall, best float64, improvementRate *float64) error
	AddPracticeTimeFunc func(ctx context.Context, id int64, seconds int64) error
}

func (m *MockSessionRepository) CreateSession(ctx context.Context, s models.DanceSession) (int64, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, s)
	}
	return 0, errors.New("CreateSessionFunc not implemented")
}

func (m *MockSessionRepository) GetSession(ctx context.Context, id, userID int64) (models.DanceSession, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, id, userID)
	}
	return models.DanceSession{}, errors.New("GetSessionFunc not implemented")
}

func (m *MockSessionRepository) ListSessions(ctx context.Context, userID int64, offset, limit int) ([]models.DanceSession, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx, userID, offset, limit)
	}
	return nil, errors.New("ListSessionsFunc not implemented")
}

func (m *MockSessionRepository) SessionsForUser(ctx context.Context, userID int64) ([]models.DanceSession, error) {
	if m.SessionsForUserFunc != nil {
		return m.SessionsForUserFunc(ctx, userID)
	}
	return nil, errors.New("SessionsForUserFunc not implemented")
}

func (m *MockSessionRepository) UpdateSummary(ctx context.Context, id int64, overall, best float64, improvementRate *float64) error {
	if m.UpdateSummaryFunc != nil {
		return m.UpdateSummaryFunc(ctx, id, overall, best, improvementRate)
	}
	return errors.New("UpdateSummaryFunc not implemented")
}

func (m *MockSessionRepository) AddPracticeTime(ctx context.Context, id int64, seconds int64) error {
	if m.AddPracticeTimeFunc != nil {
		return m.AddPracticeTimeFunc(ctx, id, seconds)
	}
	return errors.New("AddPracticeTimeFunc not implemented")
}

type MockAnalysisRepository struct {
	InsertAnalysisFunc  func(ctx context.Context, a models.AnalysisResult) (models.AnalysisResult, error)
	ScoreHistoryFunc    func(ctx context.Context, sessionID int64) ([]float64, error)
	ListBySessionFunc   func(ctx context.Context, sessionID int64) ([]models.AnalysisResult, error)
	DeleteOlderThanFunc func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *MockAnalysisRepository) InsertAnalysis(ctx context.Context, a models.AnalysisResult) (models.AnalysisResult, error) {
	if m.InsertAnalysisFunc != nil {
		return m.InsertAnalysisFunc(ctx, a)
	}
	return models.AnalysisResult{}, errors.New("InsertAnalysisFunc not implemented")
}

func (m *MockAnalysisRepository) ScoreHistory(ctx context.Context, sessionID int64) ([]float64, error) {
	if m.ScoreHistoryFunc != nil {
		return m.ScoreHistoryFunc(ctx, sessionID)
	}
	return nil, errors.New("ScoreHistoryFunc not implemented")
}

func (m *MockAnalysisRepository) ListBySession(ctx context.Context, sessionID int64) ([]models.AnalysisResult, error) {
	if m.ListBySessionFunc != nil {
		return m.ListBySessionFunc(ctx, sessionID)
	}
	return nil, errors.New("ListBySessionFunc not implemented")
}

func (m *MockAnalysisRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteOlderThanFunc != nil {
		return m.DeleteOlderThanFunc(ctx, cutoff)
	}
	return 0, errors.New("DeleteOlderThanFunc not implemented")
}

type MockNotifier struct {
	WelcomeEmailFunc   func(ctx context.Context, email, username string)
	AnalysisReportFunc func(ctx context.Context, email string, sessionID int64)
}

func (m *MockNotifier) WelcomeEmail(ctx context.Context, email, username string) {
	if m.WelcomeEmailFunc != nil {
		m.WelcomeEmailFunc(ctx, email, username)
	}
}

func (m *MockNotifier) AnalysisReport(ctx context.Context, email string, sessionID int64) {
	if m.AnalysisReportFunc != nil {
		m.AnalysisReportFunc(ctx, email, sessionID)
	}
}
