package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/knakam/dance-analyzer/internal/service"
)

type sessionRequest struct {
	SessionTitle    string   `json:"session_title"`
	YoutubeURL      string   `json:"youtube_url"`
	YoutubeVideoID  string   `json:"youtube_video_id"`
	VideoTitle      string   `json:"video_title"`
	DanceGenre      string   `json:"dance_genre"`
	DifficultyLevel string   `json:"difficulty_level"`
	Choreographer   string   `json:"choreographer"`
	Artist          string   `json:"artist"`
	SongTitle       string   `json:"song_title"`
	Goals           []string `json:"goals"`
}

type analyzeRequest struct {
	SessionID      int64   `json:"session_id"`
	VideoTimestamp float64 `json:"video_timestamp"`
	WebcamFrame    string  `json:"webcam_frame"`
}

func (h *Handlers) createSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req sessionRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	if req.SessionTitle == "" || req.YoutubeURL == "" {
		writeError(w, http.StatusBadRequest, "session_title and youtube_url are required")
		return
	}

	sess, err := h.analysis.CreateSession(r.Context(), userID, service.SessionInput{
		SessionTitle:    req.SessionTitle,
		YoutubeURL:      req.YoutubeURL,
		YoutubeVideoID:  req.YoutubeVideoID,
		VideoTitle:      req.VideoTitle,
		DanceGenre:      req.DanceGenre,
		DifficultyLevel: req.DifficultyLevel,
		Choreographer:   req.Choreographer,
		Artist:          req.Artist,
		SongTitle:       req.SongTitle,
		Goals:           req.Goals,
	})
	if err != nil {
		h.serverError(w, "createSession", err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionView(sess))
}

func (h *Handlers) listSessions(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 0)

	sessions, err := h.analysis.ListSessions(r.Context(), userID, offset, limit)
	if err != nil {
		h.serverError(w, "listSessions", err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionViews(sessions))
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sess, err := h.analysis.GetSession(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h.serverError(w, "getSession", err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionView(sess))
}

type practiceTimeRequest struct {
	Seconds int64 `json:"seconds"`
}

func (h *Handlers) addPracticeTime(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req practiceTimeRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	if req.Seconds <= 0 {
		writeError(w, http.StatusBadRequest, "seconds must be positive")
		return
	}

	sess, err := h.analysis.AddPracticeTime(r.Context(), userID, id, req.Seconds)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h.serverError(w, "addPracticeTime", err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionView(sess))
}

func (h *Handlers) listAnalyses(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	analyses, err := h.analysis.ListAnalyses(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h.serverError(w, "listAnalyses", err)
		return
	}

	writeJSON(w, http.StatusOK, toAnalysisViews(analyses))
}

func (h *Handlers) analyze(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req analyzeRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	switch {
	case req.SessionID <= 0:
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	case req.VideoTimestamp < 0:
		writeError(w, http.StatusBadRequest, "video_timestamp must not be negative")
		return
	case req.WebcamFrame == "":
		writeError(w, http.StatusBadRequest, "webcam_frame is required")
		return
	}

	result, err := h.analysis.Analyze(r.Context(), userID, service.AnalyzeInput{
		SessionID:      req.SessionID,
		VideoTimestamp: req.VideoTimestamp,
		WebcamFrame:    req.WebcamFrame,
	})
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h.serverError(w, "analyze", err)
		return
	}

	writeJSON(w, http.StatusOK, toAnalysisView(result))
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	key := fmt.Sprintf("stats:user:%d", userID)
	stats, err := FindAndCache(r.Context(), h.cache, &h.sfGroup, key, h.cacheTTL, h.logger,
		func(ctx context.Context) (service.SessionStats, error) {
			return h.analysis.UserStats(ctx, userID)
		})
	if err != nil {
		h.serverError(w, "stats", err)
		return
	}

	writeJSON(w, http.StatusOK, toStatsView(stats))
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
