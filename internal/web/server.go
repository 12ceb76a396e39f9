package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vbonduro/staycheck/internal/service"
)

type Server struct {
	properties  *service.PropertyService
	inspections *service.InspectionService
	validate    *validator.Validate
	mux         *http.ServeMux
	logger      *slog.Logger
}

func NewServer(properties *service.PropertyService, inspections *service.InspectionService, logger *slog.Logger) *Server {
	s := &Server{
		properties:  properties,
		inspections: inspections,
		validate:    newValidator(),
		mux:         http.NewServeMux(),
		logger:      logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("POST /api/properties", s.handleCreateProperty)
	s.mux.HandleFunc("GET /api/properties", s.handleListProperties)
	s.mux.HandleFunc("GET /api/properties/{id}", s.handleGetProperty)
	s.mux.HandleFunc("POST /api/properties/{id}/rooms", s.handleCreateRoom)
	s.mux.HandleFunc("GET /api/properties/{id}/rooms", s.handleListRooms)
	s.mux.HandleFunc("POST /api/properties/{id}/checks", s.handleCreateCheck)
	s.mux.HandleFunc("GET /api/properties/{id}/checks", s.handleListChecks)
	s.mux.HandleFunc("GET /api/properties/{id}/damage-report", s.handleDamageReport)
	s.mux.HandleFunc("GET /api/properties/{id}/cost-history", s.handleCostHistory)

	s.mux.HandleFunc("POST /api/rooms/{id}/items", s.handleCreateItem)
	s.mux.HandleFunc("GET /api/rooms/{id}/items", s.handleListItems)
	s.mux.HandleFunc("PUT /api/items/{id}", s.handleUpdateItem)

	s.mux.HandleFunc("POST /api/checks/{check_id}/photos/{room_id}", s.handleUploadPhoto)
	s.mux.HandleFunc("POST /api/checks/{check_id}/rooms/{room_id}/analysis", s.handleSubmitAnalysis)
	s.mux.HandleFunc("GET /api/checks/{id}/issues", s.handleListIssues)
	s.mux.HandleFunc("GET /api/photos/{id}/image", s.handleGetPhotoImage)
}

// securityHeaders sets the response headers shared by every API route.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to 30 seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
