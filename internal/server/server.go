// Package server provides the HTTP REST API of the job matcher.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/assistant"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/config"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/db"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/feed"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/llm"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/logger"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/matching"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/server/middleware"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/server/ratelimit"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/tracker"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// maxJSONBodyBytes caps JSON request bodies.
const maxJSONBodyBytes = 1 << 20

// Options are the dependencies of a Server.
type Options struct {
	Port      int
	Store     db.Store
	LLM       llm.Client
	Logger    *zap.Logger
	JWT       *config.JWTConfig
	Password  *config.PasswordConfig
	RateLimit *ratelimit.Config
	AITimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       db.Store
	logger      *zap.Logger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	feed        *feed.Assembler
	tracker     *tracker.Tracker
	llmScorer   *matching.LLMScorer
	router      *assistant.Router
	aiTimeout   time.Duration
}

// New wires a Server from opts. The store and model client stay owned by the caller.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("server requires a store")
	}
	if opts.LLM == nil {
		return nil, errors.New("server requires an LLM client")
	}
	if opts.JWT == nil || opts.Password == nil {
		return nil, errors.New("server requires JWT and password configuration")
	}
	if opts.AITimeout <= 0 {
		opts.AITimeout = config.DefaultAITimeout
	}

	log := logger.OrNop(opts.Logger)
	router, err := assistant.NewRouter(opts.LLM, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create assistant: %w", err)
	}

	s := &Server{
		store:       opts.Store,
		logger:      log,
		rateLimiter: ratelimit.NewLimiter(opts.RateLimit),
		jwtService:  NewJWTService(opts.JWT),
		userService: NewUserService(opts.Store, opts.Password),
		feed:        feed.NewAssembler(opts.Store, log),
		tracker:     tracker.New(opts.Store, log),
		llmScorer:   matching.NewLLMScorer(opts.LLM, log),
		router:      router,
		aiTimeout:   opts.AITimeout,
	}
	s.authHandler = NewAuthHandler(s.userService, s.jwtService, log)

	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	optionalAuth := middleware.OptionalAuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler { return requireAuth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	mux.Handle("GET /api/auth/user", protected(s.authHandler.Me))

	mux.Handle("GET /api/jobs", optionalAuth(http.HandlerFunc(s.handleListJobs)))
	mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	mux.Handle("POST /api/jobs/match", protected(s.handleMatchJobs))
	mux.Handle("GET /api/jobs/{id}/analysis", protected(s.handleJobAnalysis))

	mux.Handle("GET /api/applications", protected(s.handleListApplications))
	mux.Handle("POST /api/applications", protected(s.handleCreateApplication))
	mux.Handle("PATCH /api/applications/{id}/status", protected(s.handleUpdateApplicationStatus))

	mux.Handle("POST /api/resumes", protected(s.handleUploadResume))
	mux.Handle("GET /api/resumes/current", protected(s.handleGetCurrentResume))
	mux.Handle("PUT /api/resumes/current", protected(s.handleUpdateCurrentResume))

	mux.Handle("POST /api/ai/chat", protected(s.handleChat))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      opts.AITimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withCORS adds permissive CORS headers for the browser client.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects requests over the client's budget with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String(logger.FieldRequestPath, r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// extractClientID identifies the client by remote IP.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	retryAfter := int(info.RetryAfter.Round(time.Second) / time.Second)
	if info.RetryAfter > 0 && retryAfter == 0 {
		retryAfter = 1
	}
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String(logger.FieldRequestPath, r.URL.Path),
		zap.Int("limit", info.Limit),
		zap.Int("retry_after", retryAfter),
	)
	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"message":     "Too many requests. Please try again later.",
		"retry_after": retryAfter,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	s.jsonResponse(w, code, map[string]string{"status": status})
}

// jsonResponse writes data as JSON with status.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, s.logger, status, data)
}

// errorResponse writes {"message": message} with status.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	writeJSON(w, s.logger, status, errorBody{Message: message})
}

// handleError maps err to a status and body.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, s.logger, err)
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode JSON response", zap.Error(err))
	}
}

// writeError logs server errors and never echoes them to the client.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String(logger.FieldRequestPath, r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, log, status, errorBodyFor(err, status))
}

// decodeJSON reads a JSON body into v and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &types.ErrValidation{Message: "invalid request body"}
	}
	return types.Validate(v)
}

// pathID parses the {id} path value. Unparseable ids are reported as not found.
func pathID(r *http.Request, resource string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &types.ErrNotFound{Resource: resource}
	}
	return id, nil
}

// callerID returns the authenticated caller, if any.
func callerID(r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.GetUserID(r)
	return id, err == nil
}

// withAITimeout bounds model calls made while serving r.
func (s *Server) withAITimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.aiTimeout)
}
