package chi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fashionsearch/internal/domain"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/fashionsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/fashionsearch/internal/usecase/search"
)

// Error codes returned in the JSON error body.
const (
	CodeBadRequest         = "bad_request"
	CodeNoUsableModality   = "no_usable_modality"
	CodeValidationFailed   = "validation_failed"
	CodeRequestTooLarge    = "request_too_large"
	CodeStorageUnavailable = "storage_unavailable"
	CodeInternalError      = "internal_error"
)

// multipartOverhead is the body allowance on top of the image for form fields and boundaries.
const multipartOverhead = 1 << 20

// Searcher runs a search.
type Searcher interface {
	Search(ctx context.Context, req request.Request) (searchuc.Response, error)
}

// HealthReporter aggregates component health.
type HealthReporter interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search JSON API.
type Server struct {
	search        Searcher
	health        HealthReporter
	logger        *zap.Logger
	maxImageBytes int64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. maxImageBytes <= 0 uses request.MaxImageBytes;
// larger values are capped to it.
func NewServer(search Searcher, health HealthReporter, maxImageBytes int64, logger *zap.Logger) *Server {
	if maxImageBytes <= 0 || maxImageBytes > request.MaxImageBytes {
		maxImageBytes = request.MaxImageBytes
	}
	s := &Server{
		search:        search,
		health:        health,
		logger:        logger,
		maxImageBytes: maxImageBytes,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrQuery, http.StatusBadRequest, CodeNoUsableModality),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrStorageUnavailable, http.StatusServiceUnavailable, CodeStorageUnavailable),
	}
	return s
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	text, image, limit, err := s.decodeSearch(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeRequestTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if int64(len(image)) > s.maxImageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, CodeRequestTooLarge,
			fmt.Sprintf("image exceeds %d bytes", s.maxImageBytes))
		return
	}

	req, err := request.New(text, image, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseToJSON(resp))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// decodeSearch reads text, image and limit from a JSON or multipart body.
func (s *Server) decodeSearch(w http.ResponseWriter, r *http.Request) (string, []byte, int, error) {
	// base64 inflates by 4/3.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxImageBytes*4/3+multipartOverhead)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return s.decodeMultipart(r)
	}

	var body searchRequestJSON
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", nil, 0, fmt.Errorf("decode json: %w", err)
	}
	image, err := decodeImageBase64(body.ImageBase64)
	if err != nil {
		return "", nil, 0, err
	}
	limit := 0
	if body.Limit != nil {
		limit = *body.Limit
	}
	return body.Text, image, limit, nil
}

func (s *Server) decodeMultipart(r *http.Request) (string, []byte, int, error) {
	if err := r.ParseMultipartForm(s.maxImageBytes + multipartOverhead); err != nil {
		return "", nil, 0, fmt.Errorf("parse multipart form: %w", err)
	}

	limit := 0
	if v := r.FormValue("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", nil, 0, fmt.Errorf("limit must be an integer: %w", err)
		}
		limit = n
	}

	var image []byte
	file, _, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		return "", nil, 0, fmt.Errorf("read image: %w", err)
	default:
		defer file.Close()
		image, err = io.ReadAll(io.LimitReader(file, s.maxImageBytes+1))
		if err != nil {
			return "", nil, 0, fmt.Errorf("read image: %w", err)
		}
	}

	return r.FormValue("text"), image, limit, nil
}

// decodeImageBase64 accepts raw base64 or a data URI.
func decodeImageBase64(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("image_base64: %w", err)
	}
	return b, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Request validation messages are safe to echo; everything else maps to its sentinel.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrQuery,
		domain.ErrStorageUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
