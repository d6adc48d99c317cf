package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/guideline"
	"github.com/leapstack-labs/kousei/pkg/validate"
)

var requestValidate = validator.New()

// LintRequest is the body of POST /v1/lint.
type LintRequest struct {
	Text       string   `json:"text" validate:"max=200000"`
	Guidelines []string `json:"guidelines,omitempty" validate:"max=32"`
	Mode       string   `json:"mode,omitempty"`
	Validate   bool     `json:"validate,omitempty"`
}

// LintResponse is the body returned by POST /v1/lint.
type LintResponse struct {
	Issues     []core.Issue       `json:"issues"`
	Validation *ValidationSummary `json:"validation,omitempty"`
}

// ValidationSummary describes the validator run behind a lint response.
type ValidationSummary struct {
	RunID     string         `json:"run_id"`
	Cancelled bool           `json:"cancelled"`
	Stats     validate.Stats `json:"stats"`
}

// DocumentRequest is the body of POST /v1/lint/document.
type DocumentRequest struct {
	Paragraphs []string `json:"paragraphs" validate:"required,max=10000,dive,max=200000"`
	Guidelines []string `json:"guidelines,omitempty" validate:"max=32"`
	Mode       string   `json:"mode,omitempty"`
}

// DocumentResponse is the body returned by POST /v1/lint/document.
type DocumentResponse struct {
	Paragraphs []core.ParagraphIssues `json:"paragraphs"`
}

// ValidateRequest is the body of POST /v1/validate.
type ValidateRequest struct {
	Text       string       `json:"text" validate:"max=200000"`
	Issues     []core.Issue `json:"issues" validate:"max=1000"`
	Guidelines []string     `json:"guidelines,omitempty" validate:"max=32"`
	Mode       string       `json:"mode,omitempty"`
}

// ModeInfo describes a correction mode.
type ModeInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Guidelines  []string `json:"guidelines"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"rules":   len(s.runner.Rules()),
	})
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	var req LintRequest
	if !s.decode(w, r, &req) {
		return
	}

	var issues []core.Issue
	if req.Mode == "" && req.Guidelines == nil {
		issues = s.runner.Lint(r.Context(), req.Text)
	} else {
		ids, mode := s.guidelinesFor(req.Guidelines, req.Mode)
		issues = s.runner.LintWithGuidelines(r.Context(), req.Text, nil, ids, mode)
	}
	if issues == nil {
		issues = []core.Issue{}
	}

	resp := LintResponse{Issues: issues}
	if req.Validate && len(issues) > 0 {
		if s.validator == nil {
			s.writeError(w, r, http.StatusServiceUnavailable, errors.New("validation is not configured"))
			return
		}
		ids, mode := s.guidelinesFor(req.Guidelines, req.Mode)
		res := s.validator.ValidateCandidates(r.Context(), issues, validate.Context{
			Text: req.Text, Mode: mode, Guidelines: ids,
		})
		resp.Issues = res.Issues
		resp.Validation = &ValidationSummary{RunID: res.RunID, Cancelled: res.Cancelled, Stats: res.Stats}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLintDocument(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if !s.decode(w, r, &req) {
		return
	}

	var paragraphs []core.ParagraphIssues
	if req.Mode == "" && req.Guidelines == nil {
		paragraphs = s.runner.LintDocument(r.Context(), req.Paragraphs)
	} else {
		ids, mode := s.guidelinesFor(req.Guidelines, req.Mode)
		paragraphs = s.runner.LintDocumentWithGuidelines(r.Context(), req.Paragraphs, ids, mode)
	}
	s.writeJSON(w, http.StatusOK, DocumentResponse{Paragraphs: paragraphs})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if s.validator == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, errors.New("validation is not configured"))
		return
	}
	var req ValidateRequest
	if !s.decode(w, r, &req) {
		return
	}
	ids, mode := s.guidelinesFor(req.Guidelines, req.Mode)
	res := s.validator.ValidateCandidates(r.Context(), req.Issues, validate.Context{
		Text: req.Text, Mode: mode, Guidelines: ids,
	})
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.runner.RuleInfos())
}

// handlePatchRule applies a partial configuration to one rule, e.g.
// {"enabled":false} or {"severity":"error","options":{"max_length":80}}.
func (s *Server) handlePatchRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.runner.Rule(id); !ok {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("unknown rule %q", id))
		return
	}
	var patch core.RuleConfigPatch
	if !s.decode(w, r, &patch) {
		return
	}

	s.reconfig.Lock()
	defer s.reconfig.Unlock()
	s.runner.SetConfig(id, patch)
	cfg, _ := s.runner.Config(id)
	s.logger.Info("rule reconfigured", "rule", id, "request_id", RequestID(r.Context()))
	s.writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleResetRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.runner.Rule(id); !ok {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("unknown rule %q", id))
		return
	}

	s.reconfig.Lock()
	defer s.reconfig.Unlock()
	s.runner.ResetConfig(id)
	cfg, _ := s.runner.Config(id)
	s.writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleModes(w http.ResponseWriter, _ *http.Request) {
	modes := s.runner.Catalog().Modes()
	out := make([]ModeInfo, len(modes))
	for i, m := range modes {
		ids := make([]string, len(m.Guidelines))
		for j, g := range m.Guidelines {
			ids[j] = string(g)
		}
		out[i] = ModeInfo{ID: string(m.ID), Name: m.Name, Description: m.Description, Guidelines: ids}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// guidelinesFor resolves the per-request guideline list: explicit ids win,
// otherwise the mode's guidelines apply, otherwise all guidelines (nil).
func (s *Server) guidelinesFor(ids []string, modeID string) ([]guideline.ID, guideline.ModeID) {
	mode := guideline.ModeID(modeID)
	if ids != nil {
		return guideline.ParseIDs(ids), mode
	}
	if m, ok := s.runner.Catalog().Mode(mode); ok {
		return m.Guidelines, mode
	}
	return nil, mode
}

// decode reads a JSON body into v and validates it. On failure it writes the
// error response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.writeError(w, r, status, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	if err := requestValidate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if !errors.As(err, &invalid) {
			s.writeError(w, r, http.StatusUnprocessableEntity, validationError(err))
			return false
		}
	}
	return true
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s: failed %s", fe.Field(), strings.TrimSuffix(fe.Tag()+"="+fe.Param(), "="))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Debug("request failed", "status", status, "error", err, "request_id", RequestID(r.Context()))
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: RequestID(r.Context())})
}
