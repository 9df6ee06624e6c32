// Package server provides a read-only HTTP API over the skill registry so
// editor integrations and assistant runtimes can query the corpus without
// linking the library.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/freenet/devskills/pkg/logger"
	"github.com/freenet/devskills/pkg/registry"
)

// Config holds the configuration for the HTTP server
type Config struct {
	Host string
	Port int
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Server serves the registry over HTTP
type Server struct {
	router   *mux.Router
	registry *registry.Registry
	config   *Config
	server   *http.Server
}

// New creates a server over the given registry.
func New(reg *registry.Registry, config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}
	if reg == nil {
		return nil, errors.New("registry cannot be nil")
	}

	s := &Server{
		router:   mux.NewRouter(),
		registry: reg,
		config:   config,
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes configures all the HTTP routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/skills", s.handleListSkills).Methods("GET")
	api.HandleFunc("/skills/{name}", s.handleGetSkill).Methods("GET")
	api.HandleFunc("/skills/{name}/content", s.handleSkillContent).Methods("GET")
	api.HandleFunc("/skills/{name}/references", s.handleListReferences).Methods("GET")
	api.HandleFunc("/skills/{name}/references/{ref}", s.handleReferenceContent).Methods("GET")
	api.HandleFunc("/plugins", s.handleListPlugins).Methods("GET")
	api.HandleFunc("/plugins/{name}", s.handleGetPlugin).Methods("GET")
	api.HandleFunc("/plugins/{name}/skills", s.handlePluginSkills).Methods("GET")

	s.router.HandleFunc("/healthz", s.handleHealthz).Methods("GET")

	s.router.Use(s.loggingMiddleware)
}

// Handler returns the root HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:    address,
		Handler: s.router,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.G(ctx).WithError(err).Error("registry server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Stop stops the server immediately
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(rw, r)

		logger.G(r.Context()).WithFields(map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration":    time.Since(start),
			"remote_addr": r.RemoteAddr,
		}).Info("HTTP request")
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.G(context.Background()).WithError(err).Error("failed to encode response")
	}
}

// writeError maps registry errors to HTTP status codes: lookup misses become
// 404, everything else (file read failures) becomes 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, registry.ErrSkillNotFound) ||
		errors.Is(err, registry.ErrPluginNotFound) ||
		errors.Is(err, registry.ErrReferenceNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeMarkdown(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListSkills handles GET /api/skills
func (s *Server) handleListSkills(w http.ResponseWriter, _ *http.Request) {
	skills := make([]*registry.Skill, 0, len(s.registry.SkillNames()))
	for _, name := range s.registry.SkillNames() {
		skill, err := s.registry.GetSkill(name)
		if err != nil {
			continue
		}
		skills = append(skills, skill)
	}
	writeJSON(w, http.StatusOK, skills)
}

// handleGetSkill handles GET /api/skills/{name}
func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	skill, err := s.registry.GetSkill(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

// handleSkillContent handles GET /api/skills/{name}/content
func (s *Server) handleSkillContent(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	content, err := s.registry.ReadSkill(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMarkdown(w, content)
}

// handleListReferences handles GET /api/skills/{name}/references
func (s *Server) handleListReferences(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	skill, err := s.registry.GetSkill(name)
	if err != nil {
		writeError(w, err)
		return
	}

	paths, err := s.registry.ReferencePaths(name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"references": skill.References,
		"paths":      paths,
	})
}

// handleReferenceContent handles GET /api/skills/{name}/references/{ref}
func (s *Server) handleReferenceContent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	content, err := s.registry.ReadReference(vars["name"], vars["ref"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeMarkdown(w, content)
}

// handleListPlugins handles GET /api/plugins
func (s *Server) handleListPlugins(w http.ResponseWriter, _ *http.Request) {
	plugins := make([]*registry.Plugin, 0, len(s.registry.PluginNames()))
	for _, name := range s.registry.PluginNames() {
		plugin, err := s.registry.GetPlugin(name)
		if err != nil {
			continue
		}
		plugins = append(plugins, plugin)
	}
	writeJSON(w, http.StatusOK, plugins)
}

// handleGetPlugin handles GET /api/plugins/{name}
func (s *Server) handleGetPlugin(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	plugin, err := s.registry.GetPlugin(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plugin)
}

// handlePluginSkills handles GET /api/plugins/{name}/skills
func (s *Server) handlePluginSkills(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	skills, err := s.registry.PluginSkills(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}
