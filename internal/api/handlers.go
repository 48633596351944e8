package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"arda/internal/deps"
	"arda/internal/jobs"
	"arda/internal/logging"
)

type createUserRequest struct {
	Name  string `json:"name"`
	Mood  string `json:"mood"`
	Genre string `json:"genre"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	user, err := s.users.Create(r.Context(), req.Name, req.Mood, req.Genre)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create user")
		s.logger.Error("create user failed", logging.Error(err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": user.ID})
}

type userView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Mood      string `json:"mood"`
	Genre     string `json:"genre"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	listed, err := s.users.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list users")
		s.logger.Error("list users failed", logging.Error(err))
		return
	}

	views := make([]userView, 0, len(listed))
	for _, user := range listed {
		views = append(views, userView{
			ID:        user.ID,
			Name:      user.Name,
			Mood:      user.Mood,
			Genre:     user.Genre,
			CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": views})
}

type processRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	job, err := s.orchestrator.Submit(r.Context(), jobs.SubmitRequest{
		UserID:   req.UserID,
		Username: req.Username,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_key": job.Key,
		"status":  string(job.Status),
	})
}

type progressView struct {
	Progress float64 `json:"progress"`
	Ready    bool    `json:"ready"`
	Status   string  `json:"status"`
	IsImage  bool    `json:"is_image"`
	Error    string  `json:"error,omitempty"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	job, ok := s.orchestrator.Registry().Get(key)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown job key")
		return
	}

	writeJSON(w, http.StatusOK, progressView{
		Progress: job.Progress,
		Ready:    job.Ready,
		Status:   string(job.Status),
		IsImage:  job.IsImage,
		Error:    job.ErrorMessage,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	job, ok := s.orchestrator.Registry().Get(key)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown job key")
		return
	}
	if !job.Ready || job.OutputPath == "" {
		writeError(w, http.StatusConflict, "not ready")
		return
	}

	file, err := os.Open(job.OutputPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "artifact unavailable")
		s.logger.Error("artifact open failed",
			logging.String(logging.FieldJobKey, key),
			logging.Error(err),
		)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "artifact unavailable")
		return
	}

	contentType := "video/mp4"
	if job.IsImage {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(job.OutputPath)))

	http.ServeContent(w, r, filepath.Base(job.OutputPath), info.ModTime(), file)

	s.orchestrator.MarkServed(key)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	statuses := s.depStatus()
	payload := map[string]any{
		"status":       "ok",
		"jobs":         s.orchestrator.Registry().Len(),
		"dependencies": statuses,
	}
	if !deps.Ready(statuses) {
		payload["status"] = "degraded"
	}
	writeJSON(w, http.StatusOK, payload)
}
