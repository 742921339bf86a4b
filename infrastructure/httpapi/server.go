package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"videoverse/domain/auth"
	"videoverse/domain/review"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// VideoProvider resolves a single video.
type VideoProvider interface {
	Video(ctx context.Context, videoID string) (*review.Video, error)
}

// CommentProvider reads and appends comments.
type CommentProvider interface {
	Comments(ctx context.Context, videoID string) ([]review.Comment, error)
	AddComment(ctx context.Context, session *auth.Session, videoID string, draft review.CommentDraft) (*review.Comment, error)
}

// VersionProvider lists the versions of a video.
type VersionProvider interface {
	Versions(ctx context.Context, videoID string) ([]review.Version, error)
}

// TokenVerifier checks a share token and returns the video id it grants.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Server exposes the guest review surface: anyone holding a valid share
// link can read a video's comments and versions and leave guest
// comments, without a Google session.
type Server struct {
	videos   VideoProvider
	comments CommentProvider
	versions VersionProvider
	tokens   TokenVerifier
	limiter  *rate.Limiter
	router   *mux.Router
}

// ServerOption is a functional option for configuring Server.
type ServerOption func(*Server)

// WithGuestRateLimit caps guest comment submissions per minute.
func WithGuestRateLimit(perMinute int) ServerOption {
	return func(s *Server) {
		if perMinute > 0 {
			s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
		}
	}
}

// NewServer creates the guest review server.
func NewServer(videos VideoProvider, comments CommentProvider, versions VersionProvider, tokens TokenVerifier, opts ...ServerOption) *Server {
	s := &Server{
		videos:   videos,
		comments: comments,
		versions: versions,
		tokens:   tokens,
		limiter:  rate.NewLimiter(rate.Every(6*time.Second), 10),
	}

	for _, opt := range opts {
		opt(s)
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/review/{token}", s.handleVideo).Methods(http.MethodGet)
	r.HandleFunc("/api/review/{token}/comments", s.handleListComments).Methods(http.MethodGet)
	r.HandleFunc("/api/review/{token}/comments", s.handleAddComment).Methods(http.MethodPost)
	r.HandleFunc("/api/review/{token}/versions", s.handleListVersions).Methods(http.MethodGet)
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// resolveVideoID verifies the share token in the route. An invalid or
// expired token reads as "nothing here", not as a distinct condition.
func (s *Server) resolveVideoID(w http.ResponseWriter, r *http.Request) (string, bool) {
	videoID, err := s.tokens.Verify(mux.Vars(r)["token"])
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown review link")
		return "", false
	}
	return videoID, true
}

func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	videoID, ok := s.resolveVideoID(w, r)
	if !ok {
		return
	}

	video, err := s.videos.Video(r.Context(), videoID)
	if err != nil {
		if errors.Is(err, review.ErrVideoNotFound) {
			writeError(w, http.StatusNotFound, "video not found")
			return
		}
		writeError(w, http.StatusBadGateway, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, video)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	videoID, ok := s.resolveVideoID(w, r)
	if !ok {
		return
	}

	comments, err := s.comments.Comments(r.Context(), videoID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

type addCommentRequest struct {
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"`
	GuestName string  `json:"guestName"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	videoID, ok := s.resolveVideoID(w, r)
	if !ok {
		return
	}

	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "too many comments, slow down")
		return
	}

	var body addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Everything arriving through a share link is a guest comment.
	comment, err := s.comments.AddComment(r.Context(), nil, videoID, review.CommentDraft{
		Text:      body.Text,
		Timestamp: body.Timestamp,
		AsGuest:   true,
		GuestName: body.GuestName,
	})
	if err != nil {
		if errors.Is(err, review.ErrEmptyComment) {
			writeError(w, http.StatusBadRequest, "comment text is required")
			return
		}
		writeError(w, http.StatusBadGateway, "could not save comment")
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	videoID, ok := s.resolveVideoID(w, r)
	if !ok {
		return
	}

	versions, err := s.versions.Versions(r.Context(), videoID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
