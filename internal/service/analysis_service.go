package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/knakam/dance-analyzer/internal/feedback"
	"github.com/knakam/dance-analyzer/internal/llm"
	"github.com/knakam/dance-analyzer/internal/progress"
	"github.com/knakam/dance-analyzer/internal/repository"
	"github.com/knakam/dance-analyzer/internal/repository/models"
	"go.uber.org/zap"
)

const (
	dbTimeout    = 2 * time.Second
	modelTimeout = 30 * time.Second
)

// AnalysisService runs the analysis pipeline: call the model, interpret its
// feedback, persist the result and fold it into the session summary.
type AnalysisService struct {
	sessions  SessionRepository
	analyses  AnalysisRepository
	model     llm.Client
	extractor *feedback.Extractor
	logger    *zap.Logger

	// locks serializes append-then-summarize per session so concurrent
	// analyses cannot compute a summary from a stale history.
	locks keyedLocks
}

func NewAnalysisService(sessions SessionRepository, analyses AnalysisRepository, model llm.Client, logger *zap.Logger) *AnalysisService {
	if sessions == nil || analyses == nil {
		panic("repositories must not be nil")
	}
	if model == nil {
		panic("model client must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &AnalysisService{
		sessions:  sessions,
		analyses:  analyses,
		model:     model,
		extractor: feedback.NewExtractor(),
		logger:    logger,
	}
}

func (s *AnalysisService) CreateSession(ctx context.Context, userID int64, in SessionInput) (models.DanceSession, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	level := in.DifficultyLevel
	if level == "" {
		level = "beginner"
	}
	sess := models.DanceSession{
		UserID:          userID,
		SessionTitle:    in.SessionTitle,
		YoutubeURL:      in.YoutubeURL,
		YoutubeVideoID:  in.YoutubeVideoID,
		VideoTitle:      in.VideoTitle,
		DanceGenre:      in.DanceGenre,
		DifficultyLevel: level,
		Choreographer:   in.Choreographer,
		Artist:          in.Artist,
		SongTitle:       in.SongTitle,
		Goals:           in.Goals,
	}

	id, err := s.sessions.CreateSession(dbCtx, sess)
	if err != nil {
		return models.DanceSession{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	created, err := s.sessions.GetSession(dbCtx, id, userID)
	if err != nil {
		return models.DanceSession{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("session created", zap.Int64("session_id", id), zap.Int64("user_id", userID))
	return created, nil
}

func (s *AnalysisService) ListSessions(ctx context.Context, userID int64, offset, limit int) ([]models.DanceSession, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	out, err := s.sessions.ListSessions(dbCtx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return out, nil
}

func (s *AnalysisService) GetSession(ctx context.Context, userID, id int64) (models.DanceSession, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	sess, err := s.sessions.GetSession(dbCtx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.DanceSession{}, ErrSessionNotFound
		}
		return models.DanceSession{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return sess, nil
}

// Analyze scores one webcam frame against the session's reference video.
// A failing model call is absorbed: the stored record carries the fixed
// fallback feedback instead of an error.
func (s *AnalysisService) Analyze(ctx context.Context, userID int64, in AnalyzeInput) (models.AnalysisResult, error) {
	sess, err := s.GetSession(ctx, userID, in.SessionID)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	rec := s.runModel(ctx, sess, in)

	unlock := s.locks.lock(in.SessionID)
	defer unlock()

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	stored, err := s.analyses.InsertAnalysis(dbCtx, models.AnalysisResult{
		UserID:           userID,
		SessionID:        in.SessionID,
		VideoTimestamp:   in.VideoTimestamp,
		Score:            rec.Score,
		GoodPoints:       rec.GoodPoints,
		ImprovementAreas: rec.ImprovementAreas,
		SpecificAdvice:   rec.SpecificAdvice,
		RawFeedback:      rec.RawText,
	})
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	history, err := s.analyses.ScoreHistory(dbCtx, in.SessionID)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	sum := progress.Summarize(history)
	if err := s.sessions.UpdateSummary(dbCtx, in.SessionID, sum.OverallScore, sum.BestScore, sum.ImprovementRate); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("analysis recorded",
		zap.Int64("session_id", in.SessionID),
		zap.Float64("score", rec.Score),
		zap.Int("history_len", len(history)),
		zap.Float64("overall_score", sum.OverallScore))

	return stored, nil
}

func (s *AnalysisService) runModel(ctx context.Context, sess models.DanceSession, in AnalyzeInput) feedback.Record {
	modelCtx, cancel := context.WithTimeout(ctx, modelTimeout)
	defer cancel()

	raw, err := s.model.AnalyzeFrame(modelCtx, llm.Request{
		ReferenceURL:   sess.YoutubeURL,
		VideoTimestamp: in.VideoTimestamp,
		FrameDataURL:   frameDataURL(in.WebcamFrame),
	})
	if err != nil {
		s.logger.Warn("model call failed, storing fallback feedback",
			zap.Int64("session_id", in.SessionID), zap.Error(err))
		return feedback.Fallback(err)
	}
	return s.extractor.Extract(raw)
}

func (s *AnalysisService) ListAnalyses(ctx context.Context, userID, sessionID int64) ([]models.AnalysisResult, error) {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	out, err := s.analyses.ListBySession(dbCtx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return out, nil
}

// UserStats aggregates across all of the user's sessions.
func (s *AnalysisService) UserStats(ctx context.Context, userID int64) (SessionStats, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	sessions, err := s.sessions.SessionsForUser(dbCtx, userID)
	if err != nil {
		return SessionStats{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	stats := SessionStats{TotalSessions: len(sessions)}
	var scoreSum float64
	var scored int
	var rateSum float64
	var rated int
	genreCounts := make(map[string]int)

	for _, sess := range sessions {
		stats.TotalPracticeTime += sess.PracticeDuration
		if sess.OverallScore != nil {
			scoreSum += *sess.OverallScore
			scored++
		}
		if sess.ImprovementRate != nil {
			rateSum += *sess.ImprovementRate
			rated++
		}
		if sess.DanceGenre != "" {
			genreCounts[sess.DanceGenre]++
		}
	}

	if scored > 0 {
		stats.AverageScore = scoreSum / float64(scored)
	}
	if rated > 0 {
		stats.ImprovementRate = rateSum / float64(rated)
	}
	best := 0
	for genre, n := range genreCounts {
		if n > best || (n == best && genre < stats.FavoriteGenre) {
			best = n
			stats.FavoriteGenre = genre
		}
	}

	return stats, nil
}

// AddPracticeTime accumulates practice seconds onto an owned session and
// returns the updated session.
func (s *AnalysisService) AddPracticeTime(ctx context.Context, userID, sessionID, seconds int64) (models.DanceSession, error) {
	if seconds <= 0 {
		return models.DanceSession{}, fmt.Errorf("practice seconds must be positive")
	}
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return models.DanceSession{}, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.sessions.AddPracticeTime(dbCtx, sessionID, seconds); err != nil {
		return models.DanceSession{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return s.GetSession(ctx, userID, sessionID)
}

// CleanupAnalyses deletes analyses recorded before the retention cutoff.
func (s *AnalysisService) CleanupAnalyses(ctx context.Context, retention time.Duration) (int64, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	deleted, err := s.analyses.DeleteOlderThan(dbCtx, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if deleted > 0 {
		s.logger.Info("old analyses removed", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

func frameDataURL(frame string) string {
	if strings.HasPrefix(frame, "data:") {
		return frame
	}
	return "data:image/jpeg;base64," + frame
}

// keyedLocks hands out one mutex per session id.
type keyedLocks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func (l *keyedLocks) lock(id int64) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[int64]*sync.Mutex)
	}
	sessionMu, ok := l.m[id]
	if !ok {
		sessionMu = &sync.Mutex{}
		l.m[id] = sessionMu
	}
	l.mu.Unlock()

	sessionMu.Lock()
	return sessionMu.Unlock
}
