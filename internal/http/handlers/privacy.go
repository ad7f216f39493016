// Package handlers contains the HTTP handlers for the privacy API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lexaid/lexaid-ai-platform/internal/compliance"
	"github.com/lexaid/lexaid-ai-platform/internal/privacy"
	"github.com/lexaid/lexaid-ai-platform/pkg/logging"
)

// maxRequestBody bounds request payloads. Legal documents are large but a
// megabyte of text is already far past the collaborator prefix limits.
const maxRequestBody = 1 << 20

// PrivacyEngine is the detection/redaction surface the handler depends on.
type PrivacyEngine interface {
	DetectPII(ctx context.Context, text string) privacy.DetectionResult
	RedactPII(ctx context.Context, text string) privacy.RedactionResult
}

// PrivacyHandler serves the PII detection and redaction endpoints.
type PrivacyHandler struct {
	engine PrivacyEngine
	audit  *compliance.AuditService
	logger *logging.Logger
}

func NewPrivacyHandler(engine PrivacyEngine, audit *compliance.AuditService, logger *logging.Logger) *PrivacyHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PrivacyHandler{
		engine: engine,
		audit:  audit,
		logger: logger,
	}
}

type textRequest struct {
	Text string `json:"text"`
}

// Detect handles POST /api/privacy/detect.
func (h *PrivacyHandler) Detect(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTextRequest(w, r)
	if !ok {
		return
	}

	result := h.engine.DetectPII(r.Context(), req.Text)

	if h.audit != nil && result.HasPII {
		categories := make([]string, 0, len(result.Findings))
		for _, c := range result.Categories() {
			categories = append(categories, string(c))
		}
		if err := h.audit.LogPIIDetected(r.Context(), orgID(r), sessionID(r), categories, result.TotalFindings, result.Partial); err != nil {
			h.logger.Warn("failed to log detection audit event", "error", err.Error())
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// Redact handles POST /api/privacy/redact.
func (h *PrivacyHandler) Redact(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTextRequest(w, r)
	if !ok {
		return
	}

	result := h.engine.RedactPII(r.Context(), req.Text)

	if h.audit != nil && result.RedactionCount > 0 {
		if err := h.audit.LogPIIRedacted(r.Context(), orgID(r), sessionID(r), result.RedactionCount, result.Partial); err != nil {
			h.logger.Warn("failed to log redaction audit event", "error", err.Error())
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func decodeTextRequest(w http.ResponseWriter, r *http.Request) (textRequest, bool) {
	var req textRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "invalid request body",
		})
		return textRequest{}, false
	}
	return req, true
}

func orgID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Org-Id"))
}

func sessionID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Session-Id"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
