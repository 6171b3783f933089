package service

import (
	"context"
	"time"

	"github.com/knakam/dance-analyzer/internal/repository/models"
)

// UserRepository defines the database operations the services need for users.
type UserRepository interface {
	CreateUser(ctx context.Context, u models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	UpdateProfile(ctx context.Context, u models.User) error
	UpdatePassword(ctx context.Context, id int64, hashed string) error
	TouchLastLogin(ctx context.Context, id int64) error
}

// SessionRepository defines the database operations for dance sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, s models.DanceSession) (int64, error)
	GetSession(ctx context.Context, id, userID int64) (models.DanceSession, error)
	ListSessions(ctx context.Context, userID int64, offset, limit int) ([]models.DanceSession, error)
	SessionsForUser(ctx context.Context, userID int64) ([]models.DanceSession, error)
	UpdateSummary(ctx context.Context, id int64, overall, best float64, improvementRate *float64) error
	AddPracticeTime(ctx context.Context, id int64, seconds int64) error
}

// AnalysisRepository defines the database operations for analysis results.
type AnalysisRepository interface {
	InsertAnalysis(ctx context.Context, a models.AnalysisResult) (models.AnalysisResult, error)
	ScoreHistory(ctx context.Context, sessionID int64) ([]float64, error)
	ListBySession(ctx context.Context, sessionID int64) ([]models.AnalysisResult, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Notifier dispatches fire-and-forget notifications. Implementations queue
// the work; failures never reach the caller.
type Notifier interface {
	WelcomeEmail(ctx context.Context, email, username string)
	AnalysisReport(ctx context.Context, email string, sessionID int64)
}
