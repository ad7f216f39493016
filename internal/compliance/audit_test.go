package compliance

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_LogEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	tests := []struct {
		name    string
		event   AuditEvent
		wantErr bool
	}{
		{
			name: "log pii detected",
			event: AuditEvent{
				EventType: EventPIIDetected,
				OrgID:     uuid.New().String(),
				SessionID: "sess-123",
				Summary:   "3 findings in 2 categories",
				Details:   json.RawMessage(`{"categories":["email","phone"],"total_findings":3}`),
			},
		},
		{
			name: "log pii redacted",
			event: AuditEvent{
				EventType: EventPIIRedacted,
				OrgID:     uuid.New().String(),
				SessionID: "sess-456",
				Summary:   "2 redactions applied",
			},
		},
		{
			name: "log collaborator degraded",
			event: AuditEvent{
				EventType: EventCollaboratorDegraded,
				OrgID:     uuid.New().String(),
				Details:   json.RawMessage(`{"degraded_reason":"unavailable"}`),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.ExpectExec("INSERT INTO compliance_audit_events").
				WillReturnResult(sqlmock.NewResult(1, 1))

			err := service.LogEvent(context.Background(), tt.event)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_LogEventNilDB(t *testing.T) {
	var service *AuditService
	assert.NoError(t, service.LogEvent(context.Background(), AuditEvent{EventType: EventPIIDetected}))

	service = NewAuditService(nil)
	assert.NoError(t, service.LogEvent(context.Background(), AuditEvent{EventType: EventPIIDetected}))
}

func TestAuditService_LogPIIDetected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)
	orgID := uuid.New().String()

	mock.ExpectExec("INSERT INTO compliance_audit_events").
		WithArgs(sqlmock.AnyArg(), string(EventPIIDetected), orgID, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = service.LogPIIDetected(context.Background(), orgID, "sess-1", []string{"email", "phone"}, 3, false)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_LogPIIRedacted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	mock.ExpectExec("INSERT INTO compliance_audit_events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = service.LogPIIRedacted(context.Background(), uuid.New().String(), "sess-2", 4, true)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_QueryEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)
	orgID := uuid.New().String()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "event_type", "org_id", "session_id", "summary", "details", "created_at"}).
		AddRow(uuid.New().String(), string(EventPIIRedacted), orgID, "sess-1", "2 redactions applied", []byte(`{"redaction_count":2}`), now).
		AddRow(uuid.New().String(), string(EventPIIDetected), orgID, nil, nil, []byte(`{}`), now.Add(-time.Minute))

	mock.ExpectQuery("SELECT id, event_type, org_id, session_id, summary, details, created_at").
		WithArgs(orgID).
		WillReturnRows(rows)

	events, err := service.QueryEvents(context.Background(), AuditFilter{OrgID: orgID})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventPIIRedacted, events[0].EventType)
	assert.Equal(t, "sess-1", events[0].SessionID)
	assert.Empty(t, events[1].SessionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_QueryEventsFiltered(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)
	orgID := uuid.New().String()

	mock.ExpectQuery("SELECT id, event_type, org_id, session_id, summary, details, created_at").
		WithArgs(orgID, "sess-9", string(EventPIIDetected)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_type", "org_id", "session_id", "summary", "details", "created_at"}))

	events, err := service.QueryEvents(context.Background(), AuditFilter{
		OrgID:     orgID,
		SessionID: "sess-9",
		EventType: EventPIIDetected,
		Limit:     10,
	})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}
