package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL,
	hashed_password TEXT NOT NULL,
	full_name TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	dance_level TEXT NOT NULL DEFAULT 'beginner',
	preferred_genres TEXT NOT NULL DEFAULT '[]',
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL,
	last_login_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS dance_sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	session_title TEXT NOT NULL,
	youtube_url TEXT NOT NULL,
	youtube_video_id TEXT NOT NULL DEFAULT '',
	video_title TEXT NOT NULL DEFAULT '',
	dance_genre TEXT NOT NULL DEFAULT '',
	difficulty_level TEXT NOT NULL DEFAULT 'beginner',
	choreographer TEXT NOT NULL DEFAULT '',
	artist TEXT NOT NULL DEFAULT '',
	song_title TEXT NOT NULL DEFAULT '',
	goals TEXT NOT NULL DEFAULT '[]',
	practice_duration INTEGER NOT NULL DEFAULT 0,
	overall_score REAL,
	best_score REAL,
	improvement_rate REAL,
	created_at TIMESTAMP NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS analysis_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	dance_session_id INTEGER NOT NULL,
	video_timestamp REAL NOT NULL,
	score REAL NOT NULL,
	good_points TEXT NOT NULL DEFAULT '[]',
	improvement_areas TEXT NOT NULL DEFAULT '[]',
	specific_advice TEXT NOT NULL DEFAULT '[]',
	raw_feedback TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id),
	FOREIGN KEY (dance_session_id) REFERENCES dance_sessions(id)
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON dance_sessions(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_analyses_session ON analysis_results(dance_session_id, created_at, id);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
