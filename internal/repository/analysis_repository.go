package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/knakam/dance-analyzer/internal/repository/models"
)
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) InsertAnalysis(ctx context.Context, a models.AnalysisResult) (models.AnalysisResult, error) {
	good, err := marshalList(a.GoodPoints)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("encode good points: %w", err)
	}
	improve, err := marshalList(a.ImprovementAreas)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("encode improvement areas: %w", err)
	}
	advice, err := marshalList(a.SpecificAdvice)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("encode advice: %w", err)
	}

	a.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO analysis_results
			(user_id, dance_session_id, video_timestamp, score, good_points, improvement_areas,
			 specific_advice, raw_feedback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.SessionID, a.VideoTimestamp, a.Score, good, improve, advice, a.RawFeedback, a.CreatedAt)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("insert analysis: %w", err)
	}

	if a.ID, err = res.LastInsertId(); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("analysis insert id: %w", err)
	}
	return a, nil
}

// ScoreHistory returns every score for a session in recording order. The
// summary computation depends on this ordering.
func (r *AnalysisRepository) ScoreHistory(ctx context.Context, sessionID int64) ([]float64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT score FROM analysis_results WHERE dance_session_id = ? ORDER BY created_at, id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("query score history: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var s float64
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score history: %w", err)
	}
	return scores, nil
}

// ListBySession returns all analyses for a session ordered by video position.
func (r *AnalysisRepository) ListBySession(ctx context.Context, sessionID int64) ([]models.AnalysisResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, dance_session_id, video_timestamp, score, good_points,
		       improvement_areas, specific_advice, raw_feedback, created_at
		FROM analysis_results
		WHERE dance_session_id = ?
		ORDER BY video_timestamp, id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []models.AnalysisResult
	for rows.Next() {
		var a models.AnalysisResult
		var good, improve, advice string
		err := rows.Scan(&a.ID, &a.UserID, &a.SessionID, &a.VideoTimestamp, &a.Score,
			&good, &improve, &advice, &a.RawFeedback, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		if a.GoodPoints, err = unmarshalList(good); err != nil {
			return nil, fmt.Errorf("decode good points: %w", err)
		}
		if a.ImprovementAreas, err = unmarshalList(improve); err != nil {
			return nil, fmt.Errorf("decode improvement areas: %w", err)
		}
		if a.SpecificAdvice, err = unmarshalList(advice); err != nil {
			return nil, fmt.Errorf("decode advice: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return out, nil
}

// DeleteOlderThan removes analysis rows recorded before the cutoff and
// returns how many were deleted.
func (r *AnalysisRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analysis_results WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old analyses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleted rows affected: %w", err)
	}
	return n, nil
}
