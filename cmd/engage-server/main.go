// SkyShield Engagement Server
// Hosts the engagement simulator behind a REST API + WebSocket stream
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/skyshield-sim/skyshield/internal/auth"
	"github.com/skyshield-sim/skyshield/internal/db"
	"github.com/skyshield-sim/skyshield/internal/session"
	"github.com/skyshield-sim/skyshield/pkg/config"
)

var (
	configPath = flag.String("config", "configs/config.json", "Path to configuration file")
	port       = flag.Int("port", 0, "HTTP server port (overrides config)")
)

// Server holds the HTTP server and its dependencies
type Server struct {
	router       *chi.Mux
	database     *db.DB
	authSvc      *auth.Service
	sessions     *session.Registry
	userRepo     *db.UserRepository
	scenarioRepo *db.ScenarioRepository
	engRepo      *db.EngagementRepository
	cfg          *config.Config
	upgrader     websocket.Upgrader
}

func main() {
	flag.Parse()

	log.Println("🚀 Starting SkyShield Engagement Server...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.InitSchema(ctx); err != nil {
		log.Printf("Warning: Schema init failed: %v", err)
	}
	cancel()

	authSvc := auth.NewService(auth.Config{
		JWTSecret:     getEnvOrDefault("SKYSHIELD_JWT_SECRET", cfg.Auth.JWTSecret),
		TokenDuration: time.Duration(cfg.Auth.TokenLifetimeHours) * time.Hour,
	})

	srv := &Server{
		router:       chi.NewRouter(),
		database:     database,
		authSvc:      authSvc,
		sessions:     session.NewRegistry(),
		userRepo:     db.NewUserRepository(database.DB),
		scenarioRepo: db.NewScenarioRepository(database.DB),
		engRepo:      db.NewEngagementRepository(database.DB),
		cfg:          cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	if err := srv.ensureDefaultAdmin(); err != nil {
		log.Printf("Warning: default admin setup failed: %v", err)
	}

	srv.setupRoutes()

	// Prune old run history once a day.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if err := database.CleanupOldRuns(ctx, 30*24*time.Hour); err != nil {
				log.Printf("Warning: run cleanup failed: %v", err)
			}
			cancel()
		}
	}()

	listenPort := cfg.Server.Port
	if *port != 0 {
		listenPort = strconv.Itoa(*port)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, listenPort),
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("📡 Server listening on http://localhost:%s", listenPort)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n👋 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped")
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	r := s.router

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(5))

	// CORS for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", s.handleLogin)

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/auth/me", s.handleGetCurrentUser)

			// Scenario library
			r.Get("/scenarios", s.handleListScenarios)
			r.Get("/scenarios/{id}", s.handleGetScenario)

			// Engagement sessions (read)
			r.Get("/engagements", s.handleListEngagements)
			r.Get("/engagements/{id}", s.handleGetEngagement)
			r.Get("/engagements/{id}/result", s.handleGetResult)
			r.Get("/engagements/{id}/stream", s.handleStream)

			// Run history
			r.Get("/runs", s.handleListRuns)
			r.Get("/runs/{session}", s.handleGetRun)
			r.Get("/runs/{session}/snapshots", s.handleGetRunSnapshots)

			// System endpoints
			r.Get("/system/status", s.handleGetSystemStatus)

			// Mutating routes require the operator role
			r.Group(func(r chi.Router) {
				r.Use(s.requireOperator)

				r.Post("/scenarios", s.handleCreateScenario)
				r.Put("/scenarios/{id}", s.handleUpdateScenario)
				r.Delete("/scenarios/{id}", s.handleDeleteScenario)

				r.Post("/engagements", s.handleCreateEngagement)
				r.Post("/engagements/{id}/advance", s.handleAdvance)
				r.Delete("/engagements/{id}", s.handleDeleteEngagement)
			})
		})
	})
}

// Auth middleware
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			// WebSocket clients cannot set headers; allow token query param
			if token := r.URL.Query().Get("token"); token != "" {
				authHeader = "Bearer " + token
			}
		}
		if authHeader == "" {
			http.Error(w, "Missing authorization header", http.StatusUnauthorized)
			return
		}

		var token string
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		} else {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := s.authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxUsername, claims.Username)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxUsername contextKey = "username"
	ctxRole     contextKey = "role"
)

// requireOperator gates mutating endpoints behind the operator role.
func (s *Server) requireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(ctxRole).(string)
		if !auth.CanRunEngagements(role) {
			http.Error(w, "Operator role required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleLogin handles user login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.userRepo.GetByUsername(r.Context(), req.Username)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := s.authSvc.ComparePassword(user.PasswordHash, req.Password); err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if !user.IsActive {
		http.Error(w, "Account is disabled", http.StatusForbidden)
		return
	}

	token, err := s.authSvc.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	_ = s.userRepo.UpdateLastLogin(r.Context(), user.ID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// handleLogout handles user logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// handleGetCurrentUser returns the currently authenticated user
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":       r.Context().Value(ctxUserID),
		"username": r.Context().Value(ctxUsername),
		"role":     r.Context().Value(ctxRole),
	})
}

// Scenario handlers

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.scenarioRepo.List(r.Context(), 100, 0)
	if err != nil {
		log.Printf("Error listing scenarios: %v", err)
		http.Error(w, "Failed to list scenarios", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scenarios": scenarios,
		"count":     len(scenarios),
	})
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid scenario ID", http.StatusBadRequest)
		return
	}

	sc, err := s.scenarioRepo.GetByID(r.Context(), id)
	if errors.Is(err, db.ErrScenarioNotFound) {
		http.Error(w, "Scenario not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error getting scenario %d: %v", id, err)
		http.Error(w, "Failed to get scenario", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, sc)
}

func (s *Server) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	var sc db.Scenario
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if userID, ok := r.Context().Value(ctxUserID).(int); ok {
		sc.CreatedBy = &userID
	}

	err := s.scenarioRepo.Create(r.Context(), &sc)
	if errors.Is(err, db.ErrScenarioExists) {
		http.Error(w, "Scenario name already taken", http.StatusConflict)
		return
	}
	if err != nil {
		log.Printf("Error creating scenario: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusCreated, sc)
}

func (s *Server) handleUpdateScenario(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid scenario ID", http.StatusBadRequest)
		return
	}

	var sc db.Scenario
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sc.ID = id

	err = s.scenarioRepo.Update(r.Context(), &sc)
	if errors.Is(err, db.ErrScenarioNotFound) {
		http.Error(w, "Scenario not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error updating scenario %d: %v", id, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, sc)
}

func (s *Server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid scenario ID", http.StatusBadRequest)
		return
	}

	err = s.scenarioRepo.Delete(r.Context(), id)
	if errors.Is(err, db.ErrScenarioNotFound) {
		http.Error(w, "Scenario not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error deleting scenario %d: %v", id, err)
		http.Error(w, "Failed to delete scenario", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// Engagement handlers

func (s *Server) handleCreateEngagement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		// ScenarioID selects a stored scenario; Definition supplies an
		// inline one. Exactly one should be set.
		ScenarioID *int                   `json:"scenario_id,omitempty"`
		Definition *config.ScenarioConfig `json:"definition,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var def config.ScenarioConfig
	switch {
	case req.ScenarioID != nil:
		stored, err := s.scenarioRepo.GetByID(r.Context(), *req.ScenarioID)
		if errors.Is(err, db.ErrScenarioNotFound) {
			http.Error(w, "Scenario not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("Error loading scenario %d: %v", *req.ScenarioID, err)
			http.Error(w, "Failed to load scenario", http.StatusInternalServerError)
			return
		}
		def = stored.Definition
	case req.Definition != nil:
		def = *req.Definition
	default:
		http.Error(w, "scenario_id or definition required", http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Create(def)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	run := &db.EngagementRun{SessionID: sess.ID, ScenarioID: req.ScenarioID}
	if err := s.engRepo.CreateRun(r.Context(), run); err != nil {
		log.Printf("Warning: failed to record run for session %s: %v", sess.ID, err)
	}

	log.Printf("🎯 Engagement %s created (scenario %q)", sess.ID, def.Name)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": sess.ID,
		"scenario":   def.Name,
		"snapshot":   sess.Snapshot(),
	})
}

func (s *Server) handleListEngagements(w http.ResponseWriter, r *http.Request) {
	sessions := s.sessions.List()

	type item struct {
		SessionID string    `json:"session_id"`
		Scenario  string    `json:"scenario"`
		CreatedAt time.Time `json:"created_at"`
		Complete  bool      `json:"complete"`
	}

	items := make([]item, 0, len(sessions))
	for _, sess := range sessions {
		items = append(items, item{
			SessionID: sess.ID,
			Scenario:  sess.Scenario,
			CreatedAt: sess.CreatedAt,
			Complete:  sess.Complete(),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"engagements": items,
		"count":       len(items),
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) *session.Session {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Unknown session", http.StatusNotFound)
		return nil
	}
	return sess
}

func (s *Server) handleGetEngagement(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}
	respondJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}

	steps := 1
	if v := r.URL.Query().Get("steps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 10000 {
			http.Error(w, "Invalid steps parameter", http.StatusBadRequest)
			return
		}
		steps = n
	}

	snap := sess.Snapshot()
	for i := 0; i < steps && !snap.Complete; i++ {
		snap = sess.Advance()
	}

	if snap.Complete {
		s.persistResult(r.Context(), sess)
	}

	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}
	respondJSON(w, http.StatusOK, sess.Result())
}

func (s *Server) handleDeleteEngagement(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}

	s.sessions.Delete(sess.ID)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// handleStream drives the engagement to completion over a WebSocket,
// pacing steps with a rate limiter and sending one snapshot per step.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	stepsPerSecond := s.cfg.Server.StreamStepsPerSecond
	if stepsPerSecond <= 0 {
		stepsPerSecond = 10
	}
	limiter := rate.NewLimiter(rate.Limit(stepsPerSecond), 1)

	log.Printf("📺 Streaming engagement %s at %.0f steps/s", sess.ID, stepsPerSecond)

	// Record per-step history when this session has a stored run.
	var runID int
	if run, err := s.engRepo.GetBySessionID(r.Context(), sess.ID); err == nil {
		runID = run.ID
	}

	step := 0
	for {
		if err := limiter.Wait(r.Context()); err != nil {
			return
		}

		snap := sess.Advance()
		step++

		if runID != 0 {
			if err := s.engRepo.AddSnapshot(r.Context(), runID, step, snap); err != nil {
				log.Printf("Warning: snapshot store failed for %s step %d: %v", sess.ID, step, err)
				runID = 0
			}
		}

		if err := conn.WriteJSON(snap); err != nil {
			log.Printf("Stream write failed for %s: %v", sess.ID, err)
			return
		}

		if snap.Complete {
			break
		}
	}

	s.persistResult(r.Context(), sess)

	// Final frame carries the terminal result.
	if err := conn.WriteJSON(map[string]interface{}{
		"result": sess.Result(),
	}); err != nil {
		log.Printf("Result write failed for %s: %v", sess.ID, err)
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "engagement complete"))
	log.Printf("✅ Engagement %s complete after %d streamed steps", sess.ID, step)
}

// persistResult stores the terminal result for a completed session.
// Best effort: a storage failure never breaks the API response.
func (s *Server) persistResult(ctx context.Context, sess *session.Session) {
	if !sess.Complete() {
		return
	}
	if err := s.engRepo.CompleteRun(ctx, sess.ID, sess.Result()); err != nil && !errors.Is(err, db.ErrRunNotFound) {
		log.Printf("Warning: failed to persist result for %s: %v", sess.ID, err)
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.engRepo.ListRuns(r.Context(), 100, 0)
	if err != nil {
		log.Printf("Error listing runs: %v", err)
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.engRepo.GetBySessionID(r.Context(), chi.URLParam(r, "session"))
	if errors.Is(err, db.ErrRunNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error getting run: %v", err)
		http.Error(w, "Failed to get run", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetRunSnapshots(w http.ResponseWriter, r *http.Request) {
	run, err := s.engRepo.GetBySessionID(r.Context(), chi.URLParam(r, "session"))
	if errors.Is(err, db.ErrRunNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error getting run: %v", err)
		http.Error(w, "Failed to get run", http.StatusInternalServerError)
		return
	}

	limit := 1000
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 10000 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	snaps, err := s.engRepo.GetSnapshots(r.Context(), run.ID, limit, offset)
	if err != nil {
		log.Printf("Error getting snapshots for run %d: %v", run.ID, err)
		http.Error(w, "Failed to get snapshots", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": run.SessionID,
		"snapshots":  snaps,
		"count":      len(snaps),
	})
}

func (s *Server) handleGetSystemStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"sessions": len(s.sessions.List()),
		"database": db.HealthCheck(s.database),
	}

	if stats, err := s.database.GetStats(r.Context()); err == nil {
		status["stats"] = stats
	}

	respondJSON(w, http.StatusOK, status)
}

// ensureDefaultAdmin seeds an admin account on first boot so the API is
// usable before any users exist. The password comes from the
// environment; a generated hash for "admin" is the fallback.
func (s *Server) ensureDefaultAdmin() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.userRepo.GetByUsername(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, db.ErrUserNotFound) {
		return err
	}

	password := getEnvOrDefault("SKYSHIELD_ADMIN_PASSWORD", "admin")
	hash, err := s.authSvc.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &db.User{
		Username:      "admin",
		Email:         "admin@localhost",
		PasswordHash:  hash,
		Role:          auth.RoleAdmin,
		IsActive:      true,
		EmailVerified: true,
	}

	if err := s.userRepo.Create(ctx, admin); err != nil && !errors.Is(err, db.ErrUserExists) {
		return err
	}

	log.Println("✓ Default admin account created (change the password!)")
	return nil
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
