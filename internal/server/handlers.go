package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"resumeinsight/internal/analysis"
	"resumeinsight/internal/clarity"
	apperrors "resumeinsight/internal/errors"
	"resumeinsight/internal/extract"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
)

// Upload form field holding the resume file
const resumeField = "resume"

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AnalysisResponse is the body of a successful upload or text analysis
type AnalysisResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	analysis.Result
}

// TextRequest carries raw resume text
type TextRequest struct {
	Text string `json:"text" validate:"required"`
}

// ScoreRequest is the body of POST /score
type ScoreRequest struct {
	ResumeText     string   `json:"resumeText" validate:"required"`
	JobDescription string   `json:"jobDescription" validate:"required"`
	Keywords       []string `json:"keywords" validate:"omitempty,dive,required"`
}

func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.obs.Tracer("resumeinsight.api").Start(r.Context(), "api.upload")
	defer span.End()
	logger := s.requestLogger(r)
	start := time.Now()

	file, header, err := r.FormFile(resumeField)
	if err != nil {
		span.RecordError(err)
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.metrics.RecordUploadRejected(ctx, "too_large")
			writeErrorResponse(w, "File too large", fmt.Sprintf("upload exceeds %s", extract.FormatFileSize(s.maxFileSize)), http.StatusRequestEntityTooLarge)
			return
		}
		s.metrics.RecordUploadRejected(ctx, "missing_file")
		writeErrorResponse(w, "Missing resume file", fmt.Sprintf("multipart field %q is required", resumeField), http.StatusBadRequest)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.LogError(err, "Failed to close uploaded file")
		}
	}()

	mediaType := header.Header.Get("Content-Type")
	span.SetAttributes(
		attribute.String("upload.filename", header.Filename),
		attribute.String("upload.media_type", mediaType),
		attribute.Int64("upload.size", header.Size),
	)

	if err := extract.ValidateUpload(header.Filename, mediaType); err != nil {
		logger.Info("Upload rejected", "file", header.Filename, "media_type", mediaType)
		s.metrics.RecordUploadRejected(ctx, "unsupported_type")
		writeErrorResponse(w, "Unsupported file type", "", http.StatusBadRequest)
		return
	}
	if s.maxFileSize > 0 && header.Size > s.maxFileSize {
		s.metrics.RecordUploadRejected(ctx, "too_large")
		writeErrorResponse(w, "File too large", fmt.Sprintf("upload exceeds %s", extract.FormatFileSize(s.maxFileSize)), http.StatusRequestEntityTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err == nil {
		var text string
		if text, err = s.extractor.Extract(ctx, header.Filename, data); err == nil {
			result := s.engine.Analyze(analysis.NewDocument(text, len(data)))
			s.metrics.RecordAnalysis(ctx, "upload", time.Since(start), true)
			span.SetAttributes(attribute.Bool("success", true),
				attribute.Float64("profile.experience_years", result.Profile.TotalExperienceYears))
			logger.Info("Resume analyzed",
				"file", header.Filename,
				"word_count", result.Profile.WordCount,
				"duration", time.Since(start))
			writeAnalysisResponse(w, "Resume uploaded and analyzed successfully", result)
			return
		}
	}

	span.RecordError(err)
	logger.LogError(err, "Failed to process resume", "file", header.Filename)
	s.metrics.RecordExtractionFailure(ctx, extract.Kind(header.Filename))
	s.metrics.RecordAnalysis(ctx, "upload", time.Since(start), false)
	writeErrorResponse(w, "Failed to process resume", "", http.StatusInternalServerError)
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.obs.Tracer("resumeinsight.api").Start(r.Context(), "api.analyze")
	defer span.End()
	start := time.Now()

	var req TextRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	span.SetAttributes(attribute.Int("request.text_length", len(req.Text)))

	result := s.engine.Analyze(analysis.NewDocument(req.Text, len(req.Text)))
	s.metrics.RecordAnalysis(ctx, "text", time.Since(start), true)
	writeAnalysisResponse(w, "Resume analyzed successfully", result)
}

func (s *Server) scoreHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.obs.Tracer("resumeinsight.api").Start(r.Context(), "api.score")
	defer span.End()

	var req ScoreRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	span.SetAttributes(
		attribute.Int("request.resume_length", len(req.ResumeText)),
		attribute.Int("request.job_length", len(req.JobDescription)),
		attribute.Int("request.keywords", len(req.Keywords)),
	)

	breakdown, err := s.scorer.Score(ctx, req.ResumeText, req.JobDescription, req.Keywords)
	if err != nil {
		span.RecordError(err)
		s.requestLogger(r).LogError(err, "Failed to score resume")
		writeErrorResponse(w, "Failed to score resume", "", http.StatusInternalServerError)
		return
	}

	s.metrics.RecordScore(ctx, breakdown.TotalScore)
	span.SetAttributes(attribute.Int("score.total", breakdown.TotalScore))
	writeJSON(w, http.StatusOK, breakdown)
}

func (s *Server) structureHandler(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Structure(req.Text))
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	taxonomy := s.engine.Taxonomy()
	clarityStatus := clarity.Status(s.clarity)

	response := map[string]any{
		"status":  "healthy",
		"service": "resumeinsight",
		"version": s.version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"taxonomy": map[string]int{
			"primary":   len(taxonomy.Primary()),
			"secondary": len(taxonomy.Secondary()),
		},
		"clarity": clarityStatus,
	}

	healthy := true
	if ok, _ := clarityStatus["healthy"].(bool); !ok {
		healthy = false
	}
	if s.certs != nil {
		certStatus := s.certs.Status()
		if s.vault != nil {
			certStatus["vault"] = s.vault.Status()
		}
		response["certificates"] = certStatus
		if ok, _ := certStatus["healthy"].(bool); !ok {
			healthy = false
		}
	}

	status := http.StatusOK
	if !healthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

func (s *Server) statsHandler(w http.ResponseWriter, _ *http.Request) {
	response := map[string]any{
		"service": "resumeinsight",
		"version": s.version,
		"server": map[string]any{
			"max_file_size_bytes":    s.maxFileSize,
			"max_request_size_bytes": s.maxRequestSize(),
			"auth_enabled":           len(s.apiKeys) > 0,
			"tls_mode":               s.cfg.TLS.Mode,
		},
	}

	if s.limiter != nil {
		stats := s.limiter.Stats()
		stats["by_ip"] = s.cfg.RateLimit.ByIP
		stats["by_api_key"] = s.cfg.RateLimit.ByAPIKey
		response["rate_limiting"] = stats
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}
	writeJSON(w, http.StatusOK, response)
}

// decodeAndValidate parses a JSON body into v and runs struct validation. It writes the
// error response itself and reports whether the handler may continue.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := parseJSONRequest(r, v); err != nil {
		status := http.StatusBadRequest
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
		}
		writeErrorResponse(w, "Invalid request body", err.Error(), status)
		return false
	}

	if err := s.validate.Struct(v); err != nil {
		appErr := apperrors.NewValidationError(apperrors.ErrCodeInvalidRequest, "Invalid request", err)
		s.requestLogger(r).Debug("Request validation failed", "error", err.Error())
		writeErrorResponse(w, appErr.Message, validationMessage(err), apperrors.HTTPStatus(appErr))
		return false
	}
	return true
}

// validationMessage lists the failing fields by their JSON names
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", jsonFieldName(fe.Namespace()), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// jsonFieldName turns "ScoreRequest.ResumeText" into "resumeText"
func jsonFieldName(namespace string) string {
	field := namespace
	if _, after, ok := strings.Cut(namespace, "."); ok {
		field = after
	}
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// parseJSONRequest parses a JSON request body into v
func parseJSONRequest(r *http.Request, v any) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes): %w", maxBytesErr.Limit, err)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

func writeAnalysisResponse(w http.ResponseWriter, message string, result analysis.Result) {
	writeJSON(w, http.StatusOK, AnalysisResponse{
		Status:  "success",
		Message: message,
		Result:  result,
	})
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: error, Message: message})
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
