package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/knakam/dance-analyzer/internal/llm"
	"github.com/knakam/dance-analyzer/internal/repository"
	"github.com/knakam/dance-analyzer/internal/repository/models"
	"github.com/knakam/dance-analyzer/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const modelFeedback = `スコア: 82
良い点:
- リズム感が良い
改善点:
- 腕が低い
具体的なアドバイス:
- 肘を上げて大きく動く
`

func analyzeFixtures() (*mocks.MockSessionRepository, *mocks.MockAnalysisRepository, *mocks.MockLLMClient) {
	sessions := &mocks.MockSessionRepository{
		GetSessionFunc: func(ctx context.Context, id, userID int64) (models.DanceSession, error) {
			return models.DanceSession{ID: id, UserID: userID, YoutubeURL: "https://youtube.com/watch?v=abc"}, nil
		},
		UpdateSummaryFunc: func(ctx context.Context, id int64, overall, best float64, rate *float64) error {
			return nil
		},
	}
	analyses := &mocks.MockAnalysisRepository{
		InsertAnalysisFunc: func(ctx context.Context, a models.AnalysisResult) (models.AnalysisResult, error) {
			a.ID = 7
			a.CreatedAt = time.Now()
			return a, nil
		},
		ScoreHistoryFunc: func(ctx context.Context, sessionID int64) ([]float64, error) {
			return []float64{82}, nil
		},
	}
	model := &mocks.MockLLMClient{
		AnalyzeFrameFunc: func(ctx context.Context, req llm.Request) (string, error) {
			return modelFeedback, nil
		},
	}
	return sessions, analyses, model
}

func TestAnalyze(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	input := AnalyzeInput{SessionID: 3, VideoTimestamp: 12.5, WebcamFrame: "aGVsbG8="}

	t.Run("successful analysis", func(t *testing.T) {
		sessions, analyses, model := analyzeFixtures()

		var frameURL string
		model.AnalyzeFrameFunc = func(ctx context.Context, req llm.Request) (string, error) {
			frameURL = req.FrameDataURL
			assert.Equal(t, 12.5, req.VideoTimestamp)
			return modelFeedback, nil
		}

		svc := NewAnalysisService(sessions, analyses, model, logger)
		result, err := svc.Analyze(ctx, 1, input)

		require.NoError(t, err)
		assert.Equal(t, int64(7), result.ID)
		assert.Equal(t, 82.0, result.Score)
		assert.Equal(t, []string{"リズム感が良い"}, result.GoodPoints)
		assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", frameURL)
	})

	t.Run("model failure stores fallback record", func(t *testing.T) {
		sessions, analyses, model := analyzeFixtures()
		model.AnalyzeFrameFunc = func(ctx context.Context, req llm.Request) (string, error) {
			return "", errors.New("model unreachable")
		}

		var inserted models.AnalysisResult
		analyses.InsertAnalysisFunc = func(ctx context.Context, a models.AnalysisResult) (models.AnalysisResult, error) {
			inserted = a
			return a, nil
		}
		analyses.ScoreHistoryFunc = func(ctx context.Context, sessionID int64) ([]float64, error) {
			return []float64{50}, nil
		}

		svc := NewAnalysisService(sessions, analyses, model, logger)
		_, err := svc.Analyze(ctx, 1, input)

		require.NoError(t, err)
		assert.Equal(t, 50.0, inserted.Score)
		assert.NotEmpty(t, inserted.GoodPoints)
		assert.Contains(t, inserted.RawFeedback, "model unreachable")
	})

	t.Run("summary recomputed from full history", func(t *testing.T) {
		sessions, analyses, model := analyzeFixtures()
		analyses.ScoreHistoryFunc = func(ctx context.Context, sessionID int64) ([]float64, error) {
			return []float64{60, 70, 82}, nil
		}

		var gotOverall, gotBest float64
		var gotRate *float64
		sessions.UpdateSummaryFunc = func(ctx context.Context, id int64, overall, best float64, rate *float64) error {
			gotOverall, gotBest, gotRate = overall, best, rate
			return nil
		}

		svc := NewAnalysisService(sessions, analyses, model, logger)
		_, err := svc.Analyze(ctx, 1, input)

		require.NoError(t, err)
		assert.InDelta(t, (60.0+70.0+82.0)/3.0, gotOverall, 1e-9)
		assert.Equal(t, 82.0, gotBest)
		require.NotNil(t, gotRate)
		assert.InDelta(t, (82.0-60.0)/60.0*100.0, *gotRate, 1e-9)
	})

	t.Run("short history leaves improvement rate unset", func(t *testing.T) {
		sessions, analyses, model := analyzeFixtures()
		analyses.ScoreHistoryFunc = func(ctx context.Context, sessionID int64) ([]float64, error) {
			return []float64{82, 90}, nil
		}

		var gotRate *float64 = new(float64)
		sessions.UpdateSummaryFunc = func(ctx context.Context, id int64, overall, best float64, rate *float64) error {
			gotRate = rate
			return nil
		}

		svc := NewAnalysisService(sessions, analyses, model, logger)
		_, err := svc.Analyze(ctx, 1, input)

		require.NoError(t, err)
		assert.Nil(t, gotRate)
	})

	t.Run("unknown session", func(t *testing.T) {
		sessions, analyses, model := analyzeFixtures()
		sessions.GetSessionFunc = func(ctx context.Context, id, userID int64) (models.DanceSession, error) {
			return models.DanceSession{}, repository.ErrNotFound
		}

		svc := NewAnalysisService(sessions, analyses, model, logger)
		_, err := svc.Analyze(ctx, 1, input)

		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		sessions, analyses, model := analyzeFixtures()
		analyses.InsertAnalysisFunc = func(ctx context.Context, a models.AnalysisResult) (models.AnalysisResult, error) {
			return models.AnalysisResult{}, errors.New("disk full")
		}

		svc := NewAnalysisService(sessions, analyses, model, logger)
		_, err := svc.Analyze(ctx, 1, input)

		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestUserStats(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	f := func(v float64) *float64 { return &v }

	t.Run("aggregates across sessions", func(t *testing.T) {
		sessions, analyses, model := analyzeFixtures()
		sessions.SessionsForUserFunc = func(ctx context.Context, userID int64) ([]models.DanceSession, error) {
			return []models.DanceSession{
				{DanceGenre: "hiphop", PracticeDuration: 600, OverallScore: f(80), ImprovementRate: f(10)},
				{DanceGenre: "hiphop", PracticeDuration: 300, OverallScore: f(60)},
				{DanceGenre: "jazz", PracticeDuration: 0},
			}, nil
		}

		svc := NewAnalysisService(sessions, analyses, model, logger)
		stats, err := svc.UserStats(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalSessions)
		assert.Equal(t, int64(900), stats.TotalPracticeTime)
		assert.Equal(t, 70.0, stats.AverageScore)
		assert.Equal(t, 10.0, stats.ImprovementRate)
		assert.Equal(t, "hiphop", stats.FavoriteGenre)
	})

	t.Run("no sessions", func(t *testing.T) {
		sessions, analyses, model := analyzeFixtures()
		sessions.SessionsForUserFunc = func(ctx context.Context, userID int64) ([]models.DanceSession, error) {
			return nil, nil
		}

		svc := NewAnalysisService(sessions, analyses, model, logger)
		stats, err := svc.UserStats(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, SessionStats{}, stats)
	})
}

func TestAddPracticeTime(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("accumulates seconds on owned session", func(t *testing.T) {
		sessions, analyses, model := analyzeFixtures()
		var added int64
		sessions.AddPracticeTimeFunc = func(ctx context.Context, id int64, seconds int64) error {
			assert.Equal(t, int64(3), id)
			added = seconds
			return nil
		}

		svc := NewAnalysisService(sessions, analyses, model, logger)
		_, err := svc.AddPracticeTime(ctx, 1, 3, 600)

		require.NoError(t, err)
		assert.Equal(t, int64(600), added)
	})

	t.Run("rejects non-positive seconds", func(t *testing.T) {
		sessions, analyses, model := analyzeFixtures()
		svc := NewAnalysisService(sessions, analyses, model, logger)

		_, err := svc.AddPracticeTime(ctx, 1, 3, 0)
		assert.Error(t, err)
	})

	t.Run("unknown session", func(t *testing.T) {
		sessions, analyses, model := analyzeFixtures()
		sessions.GetSessionFunc = func(ctx context.Context, id, userID int64) (models.DanceSession, error) {
			return models.DanceSession{}, repository.ErrNotFound
		}

		svc := NewAnalysisService(sessions, analyses, model, logger)
		_, err := svc.AddPracticeTime(ctx, 1, 3, 600)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestCleanupAnalyses(t *testing.T) {
	sessions, analyses, model := analyzeFixtures()

	var gotCutoff time.Time
	analyses.DeleteOlderThanFunc = func(ctx context.Context, cutoff time.Time) (int64, error) {
		gotCutoff = cutoff
		return 4, nil
	}

	svc := NewAnalysisService(sessions, analyses, model, zap.NewNop())
	deleted, err := svc.CleanupAnalyses(context.Background(), 90*24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
	assert.WithinDuration(t, time.Now().Add(-90*24*time.Hour), gotCutoff, time.Minute)
}
