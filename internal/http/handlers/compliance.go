package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lexaid/lexaid-ai-platform/internal/compliance"
	"github.com/lexaid/lexaid-ai-platform/pkg/logging"
)

// ComplianceHandler serves the collaborator-backed compliance endpoints.
type ComplianceHandler struct {
	analyzer *compliance.Analyzer
	audit    *compliance.AuditService
	logger   *logging.Logger
}

func NewComplianceHandler(analyzer *compliance.Analyzer, audit *compliance.AuditService, logger *logging.Logger) *ComplianceHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ComplianceHandler{
		analyzer: analyzer,
		audit:    audit,
		logger:   logger,
	}
}

type biasRequest struct {
	Text     string `json:"text"`
	Mitigate bool   `json:"mitigate"`
}

// Bias handles POST /api/privacy/bias. With mitigate=true the response also
// carries a neutralized rewrite.
func (h *ComplianceHandler) Bias(w http.ResponseWriter, r *http.Request) {
	var req biasRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "invalid request body",
		})
		return
	}

	if req.Mitigate {
		result := h.analyzer.MitigateBias(r.Context(), req.Text)
		h.auditBias(r, result.Analysis.BiasFound, result.Analysis)
		writeJSON(w, http.StatusOK, result)
		return
	}

	result := h.analyzer.DetectBias(r.Context(), req.Text)
	h.auditBias(r, result.Analysis.BiasFound, result.Analysis)
	writeJSON(w, http.StatusOK, result)
}

// GDPR handles POST /api/privacy/gdpr.
func (h *ComplianceHandler) GDPR(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTextRequest(w, r)
	if !ok {
		return
	}

	result := h.analyzer.CheckGDPR(r.Context(), req.Text)

	if h.audit != nil && result.Status == compliance.StatusSuccess {
		details, _ := json.Marshal(compliance.AuditDetails{RiskLevel: result.Analysis.RiskLevel})
		if err := h.audit.LogEvent(r.Context(), compliance.AuditEvent{
			EventType: compliance.EventGDPRChecked,
			OrgID:     orgID(r),
			SessionID: sessionID(r),
			Details:   details,
		}); err != nil {
			h.logger.Warn("failed to log gdpr audit event", "error", err.Error())
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// Policy handles POST /api/privacy/policy.
func (h *ComplianceHandler) Policy(w http.ResponseWriter, r *http.Request) {
	var info compliance.CompanyInfo
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "invalid request body",
		})
		return
	}

	result := h.analyzer.GeneratePrivacyPolicy(r.Context(), info)
	writeJSON(w, http.StatusOK, result)
}

func (h *ComplianceHandler) auditBias(r *http.Request, found bool, analysis compliance.BiasAnalysis) {
	if h.audit == nil || !found {
		return
	}
	categories := make([]string, 0, len(analysis.Categories))
	for name, detail := range analysis.Categories {
		if detail.Present {
			categories = append(categories, name)
		}
	}
	if err := h.audit.LogBiasDetected(r.Context(), orgID(r), sessionID(r), categories); err != nil {
		h.logger.Warn("failed to log bias audit event", "error", err.Error())
	}
}
