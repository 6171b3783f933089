package httpapi

import (
	"context"
	"time"

	"github.com/knakam/dance-analyzer/internal/auth"
	"github.com/knakam/dance-analyzer/internal/repository/models"
	"github.com/knakam/dance-analyzer/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// RateCounter counts hits in a fixed window, used for rate limiting.
type RateCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (service.AuthResult, error)
	Login(ctx context.Context, email, password string) (service.AuthResult, error)
	ChangePassword(ctx context.Context, userID int64, current, next string) error
}

type AnalysisService interface {
	CreateSession(ctx context.Context, userID int64, in service.SessionInput) (models.DanceSession, error)
	ListSessions(ctx context.Context, userID int64, offset, limit int) ([]models.DanceSession, error)
	GetSession(ctx context.Context, userID, id int64) (models.DanceSession, error)
	AddPracticeTime(ctx context.Context, userID, sessionID, seconds int64) (models.DanceSession, error)
	Analyze(ctx context.Context, userID int64, in service.AnalyzeInput) (models.AnalysisResult, error)
	ListAnalyses(ctx context.Context, userID, sessionID int64) ([]models.AnalysisResult, error)
	UserStats(ctx context.Context, userID int64) (service.SessionStats, error)
}

type UserService interface {
	Profile(ctx context.Context, userID int64) (service.UserProfile, error)
	UpdateProfile(ctx context.Context, userID int64, in service.ProfileUpdate) (service.UserProfile, error)
}

type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}
