package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	domusage "github.com/kailas-cloud/prodex/internal/domain/usage"
	"github.com/kailas-cloud/prodex/internal/logger"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/prodex/internal/usecase/search"
	usageuc "github.com/kailas-cloud/prodex/internal/usecase/usage"
)

// Client-facing messages.
const (
	msgQueryAndProductsRequired = "Query and products are required"
	msgSearchFailed             = "Search failed and fallback also failed"
	msgInternal                 = "internal error"
)

// Limits bounds the size of a search request.
type Limits struct {
	MaxCatalogSize int
	MaxQueryLength int
	MaxBodyBytes   int64
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the search API.
type Server struct {
	search        *searchuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	limits Limits,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search: search,
		usage:  usage,
		health: health,
		limits: limits,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		invalidInputHandler,
		sentinelHandler(domain.ErrEngineFailure, http.StatusInternalServerError, msgSearchFailed),
	}
	return s
}

// Search handles POST /api/ai-search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	if s.limits.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.limits.MaxBodyBytes)
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" || len(req.Products) == 0 {
		writeError(w, http.StatusBadRequest, msgQueryAndProductsRequired)
		return
	}
	if s.limits.MaxQueryLength > 0 && len([]rune(req.Query)) > s.limits.MaxQueryLength {
		writeError(w, http.StatusBadRequest,
			"Query must be at most "+strconv.Itoa(s.limits.MaxQueryLength)+" characters")
		return
	}
	if s.limits.MaxCatalogSize > 0 && len(req.Products) > s.limits.MaxCatalogSize {
		writeError(w, http.StatusBadRequest,
			"At most "+strconv.Itoa(s.limits.MaxCatalogSize)+" products may be searched at once")
		return
	}

	catalog, err := catalogFromJSON(req.Products)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.search.Search(ctx, req.Query, catalog)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("X-Search-Path", string(res.Path()))
	if reason := res.FallbackReason(); reason != "" {
		w.Header().Set("X-Fallback-Reason", reason)
	}
	setCompletionHeaders(w, usage)
	writeJSON(w, http.StatusOK, searchResponseFrom(&res, req.Products))
}

// GetUsage handles GET /api/usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, ok := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if !ok {
		writeError(w, http.StatusBadRequest, `period must be "day" or "month"`)
		return
	}

	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, usageResponseFrom(&report))
}

// HealthCheck handles GET /health.
// A degraded provider still answers 200: searches keep working on the keyword path.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func setCompletionHeaders(w http.ResponseWriter, usage *domain.CompletionUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Completion-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, message)
		return true
	}
}

// invalidInputHandler reports the validation detail; it only ever names request fields.
func invalidInputHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidInput) {
		return false
	}
	writeError(w, http.StatusBadRequest, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, msgInternal)
}
