// Package daemon exposes the study controller over a local HTTP API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/lernpfad/internal/config"
	"github.com/felixgeelhaar/lernpfad/internal/domain"
	"github.com/felixgeelhaar/lernpfad/internal/study"
)

// Version is reported by the status endpoint
const Version = "0.1.0"

// Server is the lernpfad daemon HTTP server
type Server struct {
	cfg        *config.LocalConfig
	server     *http.Server
	router     *http.ServeMux
	controller *study.Controller
}

// NewServer creates a daemon server on top of a study controller
func NewServer(cfg *config.LocalConfig, controller *study.Controller) *Server {
	s := &Server{
		cfg:        cfg,
		router:     http.NewServeMux(),
		controller: controller,
	}
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Daemon.Bind, cfg.Daemon.Port)
	handler := recoveryMiddleware(correlationIDMiddleware(loggingMiddleware(s.router)))
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Handler returns the routed handler without the listener, for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) setupRoutes() {
	// Health & status
	s.router.HandleFunc("GET /v1/health", s.handleHealth)
	s.router.HandleFunc("GET /v1/status", s.handleStatus)

	// Courses
	s.router.HandleFunc("POST /v1/courses", s.handleImportCourse)
	s.router.HandleFunc("GET /v1/courses", s.handleListCourses)
	s.router.HandleFunc("GET /v1/courses/{id}", s.handleGetCourse)
	s.router.HandleFunc("DELETE /v1/courses/{id}", s.handleDeleteCourse)

	// Progression
	s.router.HandleFunc("POST /v1/courses/{id}/levels/{levelID}/complete", s.handleCompleteLevel)

	// Translations
	s.router.HandleFunc("GET /v1/courses/{id}/translations", s.handleTranslationTemplate)
	s.router.HandleFunc("POST /v1/courses/{id}/translations", s.handleImportTranslation)

	// Stats & shop
	s.router.HandleFunc("GET /v1/stats", s.handleStats)
	s.router.HandleFunc("GET /v1/shop", s.handleCatalog)
	s.router.HandleFunc("POST /v1/shop/purchase", s.handlePurchase)
	s.router.HandleFunc("PUT /v1/stats/avatar", s.handleSelectAvatar)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	slog.Info("starting lernpfad daemon",
		"addr", s.server.Addr,
		"storage", s.cfg.Storage.Backend,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down daemon...")
	return s.server.Shutdown(ctx)
}

// -----------------------------------------------------------------------------
// Health & status
// -----------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":  "running",
		"version": Version,
		"storage": s.cfg.Storage.Backend,
	})
}

// -----------------------------------------------------------------------------
// Courses
// -----------------------------------------------------------------------------

func (s *Server) handleImportCourse(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	course, err := s.controller.ImportCourse(r.Context(), raw)
	if err != nil {
		if domain.IsValidation(err) {
			s.jsonError(w, http.StatusBadRequest, "course input rejected", err)
			return
		}
		s.jsonError(w, http.StatusBadRequest, "failed to import course", err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, course)
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.controller.ListCourses(r.Context())
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to list courses", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"courses": courses,
	})
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := s.controller.GetCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			s.jsonError(w, http.StatusNotFound, "course not found", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "failed to get course", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, course)
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.DeleteCourse(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			s.jsonError(w, http.StatusNotFound, "course not found", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "failed to delete course", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

// -----------------------------------------------------------------------------
// Progression
// -----------------------------------------------------------------------------

func (s *Server) handleCompleteLevel(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("id")
	levelID := r.PathValue("levelID")

	var req struct {
		Stars int `json:"stars"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	outcome, err := s.controller.CompleteLevel(r.Context(), courseID, levelID, req.Stars)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			s.jsonError(w, http.StatusNotFound, "course not found", nil)
			return
		}
		if errors.Is(err, domain.ErrLevelNotFound) {
			s.jsonError(w, http.StatusNotFound, "level not found", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "failed to complete level", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, outcome)
}

// -----------------------------------------------------------------------------
// Translations
// -----------------------------------------------------------------------------

func (s *Server) handleTranslationTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := s.controller.TranslationTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			s.jsonError(w, http.StatusNotFound, "course not found", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "failed to build translation template", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, template)
}

func (s *Server) handleImportTranslation(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	course, err := s.controller.ImportTranslation(r.Context(), r.PathValue("id"), raw)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			s.jsonError(w, http.StatusNotFound, "course not found", nil)
			return
		}
		s.jsonError(w, http.StatusBadRequest, "failed to import translation", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, course)
}

// -----------------------------------------------------------------------------
// Stats & shop
// -----------------------------------------------------------------------------

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.controller.Stats(r.Context())
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to load stats", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, stats)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"items": s.controller.Catalog(),
	})
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.ItemID == "" {
		s.jsonError(w, http.StatusBadRequest, "item_id is required", nil)
		return
	}

	stats, err := s.controller.PurchaseItem(r.Context(), req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrItemNotFound):
			s.jsonError(w, http.StatusNotFound, "shop item not found", nil)
		case errors.Is(err, domain.ErrItemAlreadyOwned):
			s.jsonError(w, http.StatusConflict, "item already owned", nil)
		case errors.Is(err, domain.ErrNotEnoughCoins):
			s.jsonError(w, http.StatusConflict, "not enough coins", nil)
		default:
			s.jsonError(w, http.StatusInternalServerError, "failed to purchase item", err)
		}
		return
	}

	s.jsonResponse(w, http.StatusOK, stats)
}

func (s *Server) handleSelectAvatar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	stats, err := s.controller.SelectAvatar(r.Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			s.jsonError(w, http.StatusNotFound, "avatar not owned", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "failed to select avatar", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, stats)
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	s.jsonResponse(w, status, response)
}
