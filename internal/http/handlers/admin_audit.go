package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/lexaid/lexaid-ai-platform/internal/compliance"
	"github.com/lexaid/lexaid-ai-platform/internal/http/middleware"
	"github.com/lexaid/lexaid-ai-platform/pkg/logging"
)

const defaultAuditPageSize = 50

// AdminAuditHandler serves the JWT-protected audit query endpoint.
type AdminAuditHandler struct {
	audit  *compliance.AuditService
	logger *logging.Logger
}

func NewAdminAuditHandler(audit *compliance.AuditService, logger *logging.Logger) *AdminAuditHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminAuditHandler{
		audit:  audit,
		logger: logger,
	}
}

// ListEvents handles GET /admin/audit/events.
func (h *AdminAuditHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	org := q.Get("org_id")
	if org == "" {
		org = orgID(r)
	}
	if org == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "org_id is required",
		})
		return
	}

	filter := compliance.AuditFilter{
		OrgID:     org,
		SessionID: q.Get("session_id"),
		EventType: compliance.AuditEventType(q.Get("event_type")),
		Limit:     defaultAuditPageSize,
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}
	if v, err := time.Parse(time.RFC3339, q.Get("start_time")); err == nil {
		filter.StartTime = v
	}
	if v, err := time.Parse(time.RFC3339, q.Get("end_time")); err == nil {
		filter.EndTime = v
	}

	// Audit queries are themselves auditable; record who asked.
	actor := "unknown"
	if claims, ok := middleware.AdminClaimsFromContext(r.Context()); ok {
		actor = claims.Subject
	}
	h.logger.Info("admin audit query", "admin", actor, "org_id", org)

	events, err := h.audit.QueryEvents(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to query audit events", "org_id", org, "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "failed to query audit events",
		})
		return
	}
	if events == nil {
		events = []compliance.AuditEvent{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}
