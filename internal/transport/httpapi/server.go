package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sandevgo/affibot/internal/core"
	"github.com/sandevgo/affibot/internal/observability"
	"github.com/sandevgo/affibot/internal/service/assistant"
	"github.com/sandevgo/affibot/internal/service/session"
	"github.com/sandevgo/affibot/pkg/log"
)

type Turner interface {
	Turn(ctx context.Context, sess *session.Session, query string) (assistant.TurnResult, error)
}

type Server struct {
	addr      string
	sessions  *session.Manager
	assistant Turner
	router    core.CmdRouter
	metrics   *observability.Metrics
	http      *http.Server
}

func New(
	addr string,
	sessions *session.Manager,
	assistant Turner,
	router core.CmdRouter,
	metrics *observability.Metrics,
) *Server {
	return &Server{
		addr:      addr,
		sessions:  sessions,
		assistant: assistant,
		router:    router,
		metrics:   metrics,
	}
}

// maxBodyBytes bounds request bodies; queries are short chat messages.
const maxBodyBytes = 64 << 10

type createSessionRequest struct {
	Username string `json:"username"`
}

type createSessionResponse struct {
	SessionID string    `json:"session_id"`
	Username  string    `json:"username"`
	StartedAt time.Time `json:"started_at"`
}

type messageRequest struct {
	Query string `json:"query"`
}

type messageResponse struct {
	Answer    string `json:"answer"`
	Persisted bool   `json:"persisted"`
	Command   bool   `json:"command,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

type transcriptResponse struct {
	SessionID string         `json:"session_id"`
	Username  string         `json:"username"`
	Messages  []core.Message `json:"messages"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) Router(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(withLogger(ctx))

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.handleEndSession)
			r.Post("/messages", s.handleMessage)
			r.Get("/transcript", s.handleTranscript)
		})
	})

	return r
}

func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.FromCtx(ctx).Info().Str("addr", s.addr).Msg("starting http api")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.ActiveCount(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	// Usernames are taken verbatim: " alice" and "alice" are different users.
	sess, err := s.sessions.Open(r.Context(), req.Username)
	if err != nil {
		respondFailure(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: sess.ID,
		Username:  sess.Username,
		StartedAt: sess.StartedAt,
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.End(id); err != nil {
		respondFailure(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"session_id": id, "status": "ended"})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondFailure(r.Context(), w, err)
		return
	}

	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	if s.router != nil {
		if out, ok := s.router.Execute(r.Context(), sess.Username, req.Query); ok {
			sess.Touch()
			respondJSON(w, http.StatusOK, messageResponse{Answer: out, Command: true})
			return
		}
	}

	res, err := s.assistant.Turn(r.Context(), sess, req.Query)
	if err != nil {
		respondFailure(r.Context(), w, err)
		return
	}

	resp := messageResponse{Answer: res.Answer, Persisted: res.Persisted}
	switch {
	case res.SummaryErr != nil:
		resp.Warning = "conversation memory was not updated"
	case res.SaveErr != nil:
		resp.Warning = "conversation memory could not be saved"
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondFailure(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, transcriptResponse{
		SessionID: sess.ID,
		Username:  sess.Username,
		Messages:  sess.Transcript(),
	})
}

// withLogger hands the service logger to every request context.
func withLogger(base context.Context) func(http.Handler) http.Handler {
	logger := log.FromCtx(base)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
		})
	}
}

func respondFailure(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidUsername), errors.Is(err, core.ErrEmptyQuery):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, core.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, core.ErrGeneration):
		log.FromCtx(ctx).Error().Err(err).Msg("generation failed")
		respondError(w, http.StatusBadGateway, "generation_failed", "the assistant could not answer right now")
	case errors.Is(err, core.ErrConnection):
		log.FromCtx(ctx).Error().Err(err).Msg("store unavailable")
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", "conversation store is unavailable")
	default:
		log.FromCtx(ctx).Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
		return
	}
	respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
