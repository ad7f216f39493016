// Package compliance provides privacy audit logging and collaborator-driven
// compliance analysis (bias, GDPR, policy generation).
package compliance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEventType represents the type of compliance event.
type AuditEventType string

const (
	// EventPIIDetected is logged when PII is found in submitted text.
	EventPIIDetected AuditEventType = "privacy.pii_detected"
	// EventPIIRedacted is logged when a redaction is performed.
	EventPIIRedacted AuditEventType = "privacy.pii_redacted"
	// EventCollaboratorDegraded is logged when a result was produced without
	// the heuristic collaborator's contribution.
	EventCollaboratorDegraded AuditEventType = "privacy.collaborator_degraded"
	// EventBiasDetected is logged when bias analysis flags content.
	EventBiasDetected AuditEventType = "compliance.bias_detected"
	// EventGDPRChecked is logged for every GDPR compliance check.
	EventGDPRChecked AuditEventType = "compliance.gdpr_checked"
)

// AuditEvent is an immutable compliance audit record. Summary must never
// contain the detected PII itself, only counts and category names.
type AuditEvent struct {
	ID        string          `json:"id"`
	EventType AuditEventType  `json:"event_type"`
	OrgID     string          `json:"org_id"`
	SessionID string          `json:"session_id,omitempty"`
	Summary   string          `json:"summary,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// AuditDetails contains event-specific details.
type AuditDetails struct {
	Categories     []string `json:"categories,omitempty"`
	TotalFindings  int      `json:"total_findings,omitempty"`
	RedactionCount int      `json:"redaction_count,omitempty"`
	Partial        bool     `json:"partial,omitempty"`
	DegradedReason string   `json:"degraded_reason,omitempty"`
	RiskLevel      string   `json:"risk_level,omitempty"`
	BiasCategories []string `json:"bias_categories,omitempty"`
}

// AuditService handles compliance audit logging.
type AuditService struct {
	db *sql.DB
}

// NewAuditService creates a new audit service.
func NewAuditService(db *sql.DB) *AuditService {
	return &AuditService{db: db}
}

// LogEvent records a compliance audit event.
func (s *AuditService) LogEvent(ctx context.Context, event AuditEvent) error {
	if s == nil || s.db == nil {
		return nil
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO compliance_audit_events (
			id, event_type, org_id, session_id, summary, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.OrgID,
		nullString(event.SessionID),
		nullString(event.Summary),
		event.Details,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("compliance: failed to log audit event: %w", err)
	}

	return nil
}

// LogPIIDetected records a detection outcome without storing the PII itself.
func (s *AuditService) LogPIIDetected(ctx context.Context, orgID, sessionID string, categories []string, total int, partial bool) error {
	details := AuditDetails{
		Categories:    categories,
		TotalFindings: total,
		Partial:       partial,
	}
	detailsJSON, _ := json.Marshal(details)

	return s.LogEvent(ctx, AuditEvent{
		EventType: EventPIIDetected,
		OrgID:     orgID,
		SessionID: sessionID,
		Summary:   fmt.Sprintf("%d findings in %d categories", total, len(categories)),
		Details:   detailsJSON,
	})
}

// LogPIIRedacted records a redaction outcome.
func (s *AuditService) LogPIIRedacted(ctx context.Context, orgID, sessionID string, redactionCount int, partial bool) error {
	details := AuditDetails{
		RedactionCount: redactionCount,
		Partial:        partial,
	}
	detailsJSON, _ := json.Marshal(details)

	return s.LogEvent(ctx, AuditEvent{
		EventType: EventPIIRedacted,
		OrgID:     orgID,
		SessionID: sessionID,
		Summary:   fmt.Sprintf("%d redactions applied", redactionCount),
		Details:   detailsJSON,
	})
}

// LogCollaboratorDegraded records that a result was produced pattern-only.
func (s *AuditService) LogCollaboratorDegraded(ctx context.Context, orgID, sessionID, reason string) error {
	details := AuditDetails{DegradedReason: reason}
	detailsJSON, _ := json.Marshal(details)

	return s.LogEvent(ctx, AuditEvent{
		EventType: EventCollaboratorDegraded,
		OrgID:     orgID,
		SessionID: sessionID,
		Details:   detailsJSON,
	})
}

// LogBiasDetected records a bias analysis hit.
func (s *AuditService) LogBiasDetected(ctx context.Context, orgID, sessionID string, categories []string) error {
	details := AuditDetails{BiasCategories: categories}
	detailsJSON, _ := json.Marshal(details)

	return s.LogEvent(ctx, AuditEvent{
		EventType: EventBiasDetected,
		OrgID:     orgID,
		SessionID: sessionID,
		Details:   detailsJSON,
	})
}

// QueryEvents retrieves audit events with filters.
func (s *AuditService) QueryEvents(ctx context.Context, filter AuditFilter) ([]AuditEvent, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	query := `
		SELECT id, event_type, org_id, session_id, summary, details, created_at
		FROM compliance_audit_events
		WHERE org_id = $1
	`
	args := []interface{}{filter.OrgID}
	argIdx := 2

	if filter.SessionID != "" {
		query += fmt.Sprintf(" AND session_id = $%d", argIdx)
		args = append(args, filter.SessionID)
		argIdx++
	}
	if filter.EventType != "" {
		query += fmt.Sprintf(" AND event_type = $%d", argIdx)
		args = append(args, filter.EventType)
		argIdx++
	}
	if !filter.StartTime.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, filter.StartTime)
		argIdx++
	}
	if !filter.EndTime.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, filter.EndTime)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("compliance: failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var e AuditEvent
		var sessionID, summary sql.NullString
		err := rows.Scan(&e.ID, &e.EventType, &e.OrgID, &sessionID, &summary, &e.Details, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("compliance: failed to scan audit event: %w", err)
		}
		e.SessionID = sessionID.String
		e.Summary = summary.String
		events = append(events, e)
	}

	return events, nil
}

// AuditFilter specifies criteria for querying audit events.
type AuditFilter struct {
	OrgID     string
	SessionID string
	EventType AuditEventType
	StartTime time.Time
	EndTime   time.Time
	Limit     int
	Offset    int
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
