package service

import "time"

type RegisterInput struct {
	Email      string
	Username   string
	Password   string
	FullName   string
	DanceLevel string
}

type AuthResult struct {
	Token string
	User  UserProfile
}

type UserProfile struct {
	ID              int64
	Email           string
	Username        string
	FullName        string
	Bio             string
	DanceLevel      string
	PreferredGenres []string
	IsActive        bool
	CreatedAt       time.Time
	LastLoginAt     *time.Time

	TotalSessions      int
	TotalPracticeHours float64
	AverageScore       float64
}

// ProfileUpdate carries optional changes; nil fields are left untouched.
type ProfileUpdate struct {
	Email           *string
	FullName        *string
	Bio             *string
	DanceLevel      *string
	PreferredGenres *[]string
}

type SessionInput struct {
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
}

type AnalyzeInput struct {
	SessionID      int64
	VideoTimestamp float64
	// WebcamFrame is the base64-encoded frame, with or without a data-URL
	// prefix.
	WebcamFrame string
}

type SessionStats struct {
	TotalSessions     int
	TotalPracticeTime int64
	AverageScore      float64
	ImprovementRate   float64
	FavoriteGenre     string
}
