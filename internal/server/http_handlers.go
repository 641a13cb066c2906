package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"resumeqa/internal/errors"
	"resumeqa/internal/formatters"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func (s *Server) containerOr(container string) string {
	if container = strings.TrimSpace(container); container != "" {
		return container
	}
	return s.Container
}

func (s *Server) startSpan(r *http.Request, name string) (*http.Request, trace.Span) {
	ctx, span := s.Observability.Tracer("resumeqa.api").Start(r.Context(), name)
	span.SetAttributes(attribute.String("request.id", RequestID(ctx)))
	return r.WithContext(ctx), span
}

// listHandler serves GET /api/v1/resumes
func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.list")
	defer span.End()

	list := s.Resumes.List(r.Context(), s.containerOr(r.URL.Query().Get("container")))
	span.SetAttributes(attribute.Int("resume.count", len(list.Names)))
	writeJSON(w, http.StatusOK, list)
}

// parseHandler serves POST /api/v1/resumes/parse
func (s *Server) parseHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.parse")
	defer span.End()

	var req ParseRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.fail(w, r, span, err)
		return
	}
	if strings.TrimSpace(req.Resume) == "" {
		s.fail(w, r, span, missingField("resume"))
		return
	}
	span.SetAttributes(attribute.String("resume.name", req.Resume))

	result, err := s.Resumes.Parse(r.Context(), req.Resume, s.containerOr(req.Container))
	if err != nil {
		s.fail(w, r, span, err)
		return
	}
	span.SetAttributes(
		attribute.Bool("resume.cached", result.Cached),
		attribute.Int("resume.education_count", len(result.Data.Education)),
		attribute.Int("resume.experience_count", len(result.Data.Experience)),
	)
	writeJSON(w, http.StatusOK, result)
}

// similarityHandler serves POST /api/v1/resumes/similarity
func (s *Server) similarityHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.similarity")
	defer span.End()

	var req SimilarityRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.fail(w, r, span, err)
		return
	}
	if strings.TrimSpace(req.Resume) == "" {
		s.fail(w, r, span, missingField("resume"))
		return
	}
	span.SetAttributes(
		attribute.String("resume.name", req.Resume),
		attribute.Int("request.job_length", len(req.JobDescription)),
	)

	result, err := s.Resumes.Similarity(r.Context(), req.Resume, s.containerOr(req.Container), req.JobDescription)
	if err != nil {
		s.fail(w, r, span, err)
		return
	}
	span.SetAttributes(attribute.Float64("similarity.score", result.Score))
	writeJSON(w, http.StatusOK, result)
}

// askHandler serves POST /api/v1/resumes/ask
func (s *Server) askHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.ask")
	defer span.End()

	var req AskRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.fail(w, r, span, err)
		return
	}
	if strings.TrimSpace(req.Resume) == "" {
		s.fail(w, r, span, missingField("resume"))
		return
	}
	span.SetAttributes(
		attribute.String("resume.name", req.Resume),
		attribute.Int("request.question_length", len(req.Question)),
	)

	answer, err := s.Resumes.Ask(r.Context(), req.Resume, s.containerOr(req.Container), req.Question)
	if err != nil {
		s.fail(w, r, span, err)
		return
	}
	if answer.TokenUsage != nil {
		span.SetAttributes(attribute.Int("ai.tokens.total", answer.TokenUsage.TotalTokens))
	}
	writeJSON(w, http.StatusOK, answer)
}

// reportHandler serves GET /api/v1/resumes/report as an HTML page
func (s *Server) reportHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.report")
	defer span.End()

	query := r.URL.Query()
	name := strings.TrimSpace(query.Get("resume"))
	if name == "" {
		s.fail(w, r, span, missingField("resume"))
		return
	}

	result, err := s.Resumes.Parse(r.Context(), name, s.containerOr(query.Get("container")))
	if err != nil {
		s.fail(w, r, span, err)
		return
	}

	page, err := (&formatters.ResumeHTMLFormatter{}).Format(*result)
	if err != nil {
		s.fail(w, r, span, errors.NewInternalError("REPORT_FAILED", "Failed to render report", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, page)
}

// historyHandler serves GET /api/v1/history
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.history")
	defer span.End()

	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fail(w, r, span, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("limit must be a non-negative integer, got %q", raw), err))
			return
		}
		limit = n
	}

	history, err := s.Resumes.History(r.Context(), strings.TrimSpace(query.Get("resume")), limit)
	if err != nil {
		s.fail(w, r, span, err)
		return
	}
	span.SetAttributes(attribute.Int("history.runs", len(history.Runs)))
	writeJSON(w, http.StatusOK, history)
}

// fail logs err, marks the span and writes the error response
func (s *Server) fail(w http.ResponseWriter, r *http.Request, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, "Request failed",
			"endpoint", r.URL.Path,
			"status", status,
			"request_id", RequestID(r.Context()))
	} else {
		s.Logger.Debug("Request rejected",
			"endpoint", r.URL.Path,
			"status", status,
			"error", err.Error(),
			"request_id", RequestID(r.Context()))
	}
	writeAppError(w, err)
}

func missingField(field string) error {
	return errors.NewValidationError(errors.ErrCodeInvalidRequest, field+" field is required", nil)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "content-type must be application/json", nil)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return errors.NewValidationError(errors.ErrCodeFileTooLarge,
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), err)
		}
		return errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read request body", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "failed to parse JSON body", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeAppError writes err as {"error": code, "message": text}
func writeAppError(w http.ResponseWriter, err error) {
	code, message := "INTERNAL_ERROR", "internal server error"
	if appErr, ok := errors.As(err); ok {
		code, message = appErr.Code, appErr.Message
	}
	writeErrorResponse(w, code, message, errors.HTTPStatus(err))
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, code, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: code, Message: message})
}
