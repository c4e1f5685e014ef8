package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/avezina/paperlens/internal/config"
	"github.com/avezina/paperlens/internal/core/domain"
	"github.com/avezina/paperlens/internal/core/ports"
	"github.com/avezina/paperlens/internal/observability/metrics"
)

type Router struct {
	cfg     config.Config
	service ports.EvaluationService
	metrics *metrics.HTTPServerMetrics
	logger  *slog.Logger
}

func NewRouter(
	cfg config.Config,
	service ports.EvaluationService,
	m *metrics.HTTPServerMetrics,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		cfg:     cfg,
		service: service,
		metrics: m,
		logger:  logger,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/v1/evaluations", rt.trafficControlled(http.HandlerFunc(rt.createEvaluation)))
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	return requestIDMiddleware(accessLogMiddleware(rt.logger, handler))
}

// trafficControlled gates the evaluation route only. Health checks and
// metric scrapes stay cheap and must never be shed.
func (rt *Router) trafficControlled(next http.Handler) http.Handler {
	next = backpressureMiddleware(next, rt.cfg.APIMaxInFlight, backpressureWait)
	return rateLimitMiddleware(next, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type evaluationRequest struct {
	URL        string `json:"url"`
	Evaluation string `json:"evaluation"`
}

type evaluationResponse struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Evaluation   string `json:"evaluation"`
	ResearchType string `json:"research_type"`
	Confidence   string `json:"confidence"`
	ChunkCount   int    `json:"chunk_count"`
	Report       string `json:"report"`
}

func (rt *Router) createEvaluation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req evaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}

	kind := domain.EvaluationComprehensive
	if strings.TrimSpace(req.Evaluation) != "" {
		parsed, err := domain.ParseEvaluationKind(req.Evaluation)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		kind = parsed
	}

	outcome, err := rt.service.Evaluate(r.Context(), req.URL, kind)
	if err != nil {
		rt.logger.Error("evaluation_request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"url", req.URL,
			"kind", string(kind),
			"error", err,
		)
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, evaluationResponse{
		ID:           outcome.ID,
		URL:          outcome.Source,
		Evaluation:   string(outcome.Kind),
		ResearchType: string(outcome.Classification.ResearchType),
		Confidence:   string(outcome.Classification.Confidence),
		ChunkCount:   outcome.ChunkCount,
		Report:       outcome.Report,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
