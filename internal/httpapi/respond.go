package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/knakam/dance-analyzer/internal/repository/models"
	"github.com/knakam/dance-analyzer/internal/service"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any, logger *zap.Logger) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		logger.Debug("malformed request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

type userView struct {
	ID                 int64      `json:"id"`
	Email              string     `json:"email"`
	Username           string     `json:"username"`
	FullName           string     `json:"full_name,omitempty"`
	Bio                string     `json:"bio,omitempty"`
	DanceLevel         string     `json:"dance_level"`
	PreferredGenres    []string   `json:"preferred_genres"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	TotalSessions      int        `json:"total_sessions"`
	TotalPracticeHours float64    `json:"total_practice_hours"`
	AverageScore       float64    `json:"average_score"`
}

func toUserView(p service.UserProfile) userView {
	genres := p.PreferredGenres
	if genres == nil {
		genres = []string{}
	}
	return userView{
		ID:                 p.ID,
		Email:              p.Email,
		Username:           p.Username,
		FullName:           p.FullName,
		Bio:                p.Bio,
		DanceLevel:         p.DanceLevel,
		PreferredGenres:    genres,
		IsActive:           p.IsActive,
		CreatedAt:          p.CreatedAt,
		LastLoginAt:        p.LastLoginAt,
		TotalSessions:      p.TotalSessions,
		TotalPracticeHours: p.TotalPracticeHours,
		AverageScore:       p.AverageScore,
	}
}

type authView struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        userView `json:"user"`
}

func toAuthView(res service.AuthResult) authView {
	return authView{
		AccessToken: res.Token,
		TokenType:   "bearer",
		User:        toUserView(res.User),
	}
}

type sessionView struct {
	ID               int64     `json:"id"`
	SessionTitle     string    `json:"session_title"`
	YoutubeURL       string    `json:"youtube_url"`
	YoutubeVideoID   string    `json:"youtube_video_id,omitempty"`
	VideoTitle       string    `json:"video_title,omitempty"`
	DanceGenre       string    `json:"dance_genre,omitempty"`
	DifficultyLevel  string    `json:"difficulty_level,omitempty"`
	Choreographer    string    `json:"choreographer,omitempty"`
	Artist           string    `json:"artist,omitempty"`
	SongTitle        string    `json:"song_title,omitempty"`
	Goals            []string  `json:"goals"`
	PracticeDuration int64     `json:"practice_duration"`
	OverallScore     *float64  `json:"overall_score,omitempty"`
	BestScore        *float64  `json:"best_score,omitempty"`
	ImprovementRate  *float64  `json:"improvement_rate,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func toSessionView(s models.DanceSession) sessionView {
	goals := s.Goals
	if goals == nil {
		goals = []string{}
	}
	return sessionView{
		ID:               s.ID,
		SessionTitle:     s.SessionTitle,
		YoutubeURL:       s.YoutubeURL,
		YoutubeVideoID:   s.YoutubeVideoID,
		VideoTitle:       s.VideoTitle,
		DanceGenre:       s.DanceGenre,
		DifficultyLevel:  s.DifficultyLevel,
		Choreographer:    s.Choreographer,
		Artist:           s.Artist,
		SongTitle:        s.SongTitle,
		Goals:            goals,
		PracticeDuration: s.PracticeDuration,
		OverallScore:     s.OverallScore,
		BestScore:        s.BestScore,
		ImprovementRate:  s.ImprovementRate,
		CreatedAt:        s.CreatedAt,
	}
}

func toSessionViews(list []models.DanceSession) []sessionView {
	views := make([]sessionView, 0, len(list))
	for _, s := range list {
		views = append(views, toSessionView(s))
	}
	return views
}

type analysisView struct {
	ID               int64     `json:"id"`
	SessionID        int64     `json:"session_id"`
	VideoTimestamp   float64   `json:"video_timestamp"`
	Score            float64   `json:"score"`
	GoodPoints       []string  `json:"good_points"`
	ImprovementAreas []string  `json:"improvement_areas"`
	SpecificAdvice   []string  `json:"specific_advice"`
	RawFeedback      string    `json:"raw_feedback"`
	CreatedAt        time.Time `json:"created_at"`
}

func toAnalysisView(a models.AnalysisResult) analysisView {
	v := analysisView{
		ID:               a.ID,
		SessionID:        a.SessionID,
		VideoTimestamp:   a.VideoTimestamp,
		Score:            a.Score,
		GoodPoints:       a.GoodPoints,
		ImprovementAreas: a.ImprovementAreas,
		SpecificAdvice:   a.SpecificAdvice,
		RawFeedback:      a.RawFeedback,
		CreatedAt:        a.CreatedAt,
	}
	if v.GoodPoints == nil {
		v.GoodPoints = []string{}
	}
	if v.ImprovementAreas == nil {
		v.ImprovementAreas = []string{}
	}
	if v.SpecificAdvice == nil {
		v.SpecificAdvice = []string{}
	}
	return v
}

func toAnalysisViews(list []models.AnalysisResult) []analysisView {
	views := make([]analysisView, 0, len(list))
	for _, a := range list {
		views = append(views, toAnalysisView(a))
	}
	return views
}

type statsView struct {
	TotalSessions     int     `json:"total_sessions"`
	TotalPracticeTime int64   `json:"total_practice_time"`
	AverageScore      float64 `json:"average_score"`
	ImprovementRate   float64 `json:"improvement_rate"`
	FavoriteGenre     string  `json:"favorite_genre"`
}

func toStatsView(s service.SessionStats) statsView {
	return statsView(s)
}
