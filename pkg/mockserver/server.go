// Package mockserver is a scripted stand-in for the analysis backend. It
// implements the upload and agent run endpoints for tests and local demos.
package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/killallgit/entropy/pkg/api"
	"github.com/killallgit/entropy/pkg/logger"
)

// BasePath is where the API is mounted
const BasePath = "/api/v1"

// UploadRecord is what the server saw for one upload
type UploadRecord struct {
	Filename string
	Size     int64
	Result   api.UploadResult
}

// Server serves the scripted backend
type Server struct {
	router chi.Router
	script Script
	delay  time.Duration

	uploadStatus int
	uploadDetail string

	mu      sync.Mutex
	runs    []api.RunRequest
	uploads []UploadRecord
}

// Option configures a Server
type Option func(*Server)

// WithDelay pauses between frames
func WithDelay(d time.Duration) Option {
	return func(s *Server) {
		s.delay = d
	}
}

// WithScript replaces DefaultScript
func WithScript(script Script) Option {
	return func(s *Server) {
		s.script = script
	}
}

// WithUploadFailure makes every upload answer status with a FastAPI style detail
func WithUploadFailure(status int, detail string) Option {
	return func(s *Server) {
		s.uploadStatus = status
		s.uploadDetail = detail
	}
}

func New(opts ...Option) *Server {
	s := &Server{script: DefaultScript}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route(BasePath, func(r chi.Router) {
		r.Post("/files/upload", s.handleUpload)
		r.Post("/agent/run", s.handleRun)
	})

	s.router = r
}

// Handler returns the root handler, for httptest.NewServer
func (s *Server) Handler() http.Handler {
	return s.router
}

// Runs returns the run requests received so far
func (s *Server) Runs() []api.RunRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.RunRequest(nil), s.runs...)
}

// Uploads returns the uploads received so far
func (s *Server) Uploads() []UploadRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UploadRecord(nil), s.uploads...)
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithComponent("mockserver").Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := logger.WithComponent("mockserver")

	file, header, err := r.FormFile("file")
	if err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "field 'file' is required")
		return
	}
	defer file.Close()

	if s.uploadStatus != 0 {
		respondDetail(w, s.uploadStatus, s.uploadDetail)
		return
	}

	// Stored name is derived from the file name so repeated uploads match
	hash := uuid.NewSHA1(uuid.NameSpaceURL, []byte(header.Filename))
	size, err := io.Copy(io.Discard, file)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	if ext == "" {
		ext = "dat"
	}
	stored := fmt.Sprintf("%s.%s", strings.ReplaceAll(hash.String(), "-", ""), ext)

	result := api.UploadResult{
		Filename:   header.Filename,
		StoredName: stored,
		URI:        "s3://uploads/" + stored,
		Message:    "File uploaded successfully. Pass the 'uri' to the agent.",
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, UploadRecord{Filename: header.Filename, Size: size, Result: result})
	s.mu.Unlock()

	log.Info("file received", "name", header.Filename, "bytes", size, "uri", result.URI)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	log := logger.WithComponent("mockserver")

	var req api.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	if req.FileURI == "" {
		respondDetail(w, http.StatusUnprocessableEntity, "file_uri is required")
		return
	}

	s.mu.Lock()
	s.runs = append(s.runs, req)
	s.mu.Unlock()

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondDetail(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	frames := s.script(req)
	for i, frame := range frames {
		if i > 0 && s.delay > 0 {
			select {
			case <-r.Context().Done():
				log.Info("client disconnected", "sent", i)
				return
			case <-time.After(s.delay):
			}
		}
		if _, err := w.Write(frame.Encode()); err != nil {
			log.Warn("failed to write frame", "error", err)
			return
		}
		flusher.Flush()
	}

	log.Debug("script finished", "frames", len(frames))
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.WithComponent("mockserver").Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
