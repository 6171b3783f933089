package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/knakam/dance-analyzer/internal/repository/models"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateSession(ctx context.Context, s models.DanceSession) (int64, error) {
	goals, err := marshalList(s.Goals)
	if err != nil {
		return 0, fmt.Errorf("encode goals: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO dance_sessions
			(user_id, session_title, youtube_url, youtube_video_id, video_title, dance_genre,
			 difficulty_level, choreographer, artist, song_title, goals, practice_duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.UserID, s.SessionTitle, s.YoutubeURL, s.YoutubeVideoID, s.VideoTitle, s.DanceGenre,
		s.DifficultyLevel, s.Choreographer, s.Artist, s.SongTitle, goals, s.PracticeDuration,
		time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session insert id: %w", err)
	}
	return id, nil
}

// GetSession fetches a session owned by the given user. Sessions belonging
// to other users are indistinguishable from missing ones.
func (r *SessionRepository) GetSession(ctx context.Context, id, userID int64) (models.DanceSession, error) {
	row := r.db.QueryRowContext(ctx, sessionSelect+` WHERE id = ? AND user_id = ?`, id, userID)
	s, err := scanSession(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DanceSession{}, ErrNotFound
		}
		return models.DanceSession{}, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// ListSessions returns the user's sessions, newest first.
func (r *SessionRepository) ListSessions(ctx context.Context, userID int64, offset, limit int) ([]models.DanceSession, error) {
	rows, err := r.db.QueryContext(ctx,
		sessionSelect+` WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()
	return collectSessions(rows)
}

// SessionsForUser returns every session the user owns, for stats aggregation.
func (r *SessionRepository) SessionsForUser(ctx context.Context, userID int64) ([]models.DanceSession, error) {
	rows, err := r.db.QueryContext(ctx, sessionSelect+` WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user sessions: %w", err)
	}
	defer rows.Close()
	return collectSessions(rows)
}

// UpdateSummary stores the recomputed aggregate fields for a session.
func (r *SessionRepository) UpdateSummary(ctx context.Context, id int64, overall, best float64, improvementRate *float64) error {
	var rate sql.NullFloat64
	if improvementRate != nil {
		rate = sql.NullFloat64{Float64: *improvementRate, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE dance_sessions SET overall_score = ?, best_score = ?, improvement_rate = ?
		WHERE id = ?`,
		overall, best, rate, id)
	if err != nil {
		return fmt.Errorf("update summary: %w", err)
	}
	return requireRow(res)
}

// AddPracticeTime increments the accumulated practice duration in seconds.
func (r *SessionRepository) AddPracticeTime(ctx context.Context, id int64, seconds int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE dance_sessions SET practice_duration = practice_duration + ? WHERE id = ?`,
		seconds, id)
	if err != nil {
		return fmt.Errorf("add practice time: %w", err)
	}
	return requireRow(res)
}

const sessionSelect = `
	SELECT id, user_id, session_title, youtube_url, youtube_video_id, video_title, dance_genre,
	       difficulty_level, choreographer, artist, song_title, goals, practice_duration,
	       overall_score, best_score, improvement_rate, created_at
	FROM dance_sessions`

func scanSession(scan func(dest ...any) error) (models.DanceSession, error) {
	var s models.DanceSession
	var goals string
	var overall, best, rate sql.NullFloat64

	err := scan(&s.ID, &s.UserID, &s.SessionTitle, &s.YoutubeURL, &s.YoutubeVideoID, &s.VideoTitle,
		&s.DanceGenre, &s.DifficultyLevel, &s.Choreographer, &s.Artist, &s.SongTitle, &goals,
		&s.PracticeDuration, &overall, &best, &rate, &s.CreatedAt)
	if err != nil {
		return models.DanceSession{}, err
	}

	if s.Goals, err = unmarshalList(goals); err != nil {
		return models.DanceSession{}, fmt.Errorf("decode goals: %w", err)
	}
	if overall.Valid {
		v := overall.Float64
		s.OverallScore = &v
	}
	if best.Valid {
		v := best.Float64
		s.BestScore = &v
	}
	if rate.Valid {
		v := rate.Float64
		s.ImprovementRate = &v
	}
	return s, nil
}

func collectSessions(rows *sql.Rows) ([]models.DanceSession, error) {
	var out []models.DanceSession
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}
