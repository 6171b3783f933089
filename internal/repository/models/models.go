package models

import "time"

type User struct {
	ID              int64
	Email           string
	Username        string
	HashedPassword  string
	FullName        string
	Bio             string
	DanceLevel      string
	PreferredGenres []string
	IsActive        bool
	CreatedAt       time.Time
	LastLoginAt     *time.Time
}

type DanceSession struct {
	ID              int64
	UserID          int64
	SessionTitle    string
	YoutubeURL      string
	YoutubeVideoID  string
	VideoTitle      string
	DanceGenre      string
	DifficultyLevel string
	Choreographer   string
	Artist          string
	SongTitle       string
	Goals           []string
	// PracticeDuration is the accumulated practice time in seconds.
	PracticeDuration int64
	OverallScore     *float64
	BestScore        *float64
	ImprovementRate  *float64
	CreatedAt        time.Time
}

type AnalysisResult struct {
	ID               int64
	UserID           int64
	SessionID        int64
	VideoTimestamp   float64
	Score            float64
	GoodPoints       []string
	ImprovementAreas []string
	SpecificAdvice   []string
	RawFeedback      string
	CreatedAt        time.Time
}
