package profile

import (
	"encoding/json"
	"net/http"

	"github.com/mavumo/jobbyist/internal/listings"
	"github.com/rs/zerolog"
)

// Server exposes the profile and saved-jobs API plus a read-only listing
// feed.
type Server struct {
	store        *Store
	listingsPath string
	logger       zerolog.Logger
}

func NewServer(store *Store, listingsPath string, logger zerolog.Logger) *Server {
	return &Server{
		store:        store,
		listingsPath: listingsPath,
		logger:       logger,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/jobs", s.handleJobs)
	mux.HandleFunc("GET /api/auth/status", s.handleAuthStatus)
	mux.HandleFunc("GET /api/user/profile", s.handleGetProfile)
	mux.HandleFunc("POST /api/user/profile", s.handleUpdateProfile)
	mux.HandleFunc("POST /api/jobs/save", s.handleSaveJob)
	mux.HandleFunc("POST /api/jobs/unsave", s.handleUnsaveJob)
	mux.HandleFunc("GET /api/jobs/saved", s.handleSavedJobs)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	set, err := listings.ReadAllowMissing(s.listingsPath)
	if err != nil {
		s.logger.Error().Err(err).Msg("read listings")
		writeError(w, http.StatusInternalServerError, "failed to load listings")
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := FromRequest(r)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	if _, err := s.store.Ensure(identity.ID, identity.Name); err != nil {
		s.logger.Error().Err(err).Str("user", identity.ID).Msg("ensure user")
		writeError(w, http.StatusInternalServerError, "failed to record user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          identity,
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.require(w, r)
	if !ok {
		return
	}

	user, err := s.store.Ensure(identity.ID, identity.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// profileUpdate is the mutable subset of a profile.
type profileUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.require(w, r)
	if !ok {
		return
	}

	var update profileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := s.store.Ensure(identity.ID, identity.Name); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	user, err := s.store.Update(identity.ID, func(u *User) {
		if update.Name != nil {
			u.Name = *update.Name
		}
		if update.Email != nil {
			u.Email = *update.Email
		}
		u.ProfileComplete = true
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

type jobRef struct {
	JobID string `json:"job_id"`
}

func (s *Server) handleSaveJob(w http.ResponseWriter, r *http.Request) {
	s.mutateSaved(w, r, s.store.SaveJob)
}

func (s *Server) handleUnsaveJob(w http.ResponseWriter, r *http.Request) {
	s.mutateSaved(w, r, s.store.UnsaveJob)
}

func (s *Server) mutateSaved(w http.ResponseWriter, r *http.Request, op func(string, string) (User, error)) {
	identity, ok := s.require(w, r)
	if !ok {
		return
	}

	var ref jobRef
	if err := json.NewDecoder(r.Body).Decode(&ref); err != nil || ref.JobID == "" {
		writeError(w, http.StatusBadRequest, "job_id is required")
		return
	}

	if _, err := s.store.Ensure(identity.ID, identity.Name); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	user, err := op(identity.ID, ref.JobID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update saved jobs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "saved_jobs": user.SavedJobs})
}

func (s *Server) handleSavedJobs(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.require(w, r)
	if !ok {
		return
	}

	user, err := s.store.Ensure(identity.ID, identity.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved_jobs": user.SavedJobs})
}

func (s *Server) require(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	identity, ok := FromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return Identity{}, false
	}
	return identity, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
