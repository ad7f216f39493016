package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexaid/lexaid-ai-platform/internal/llm"
	"github.com/lexaid/lexaid-ai-platform/internal/privacy"
)

type stubRedactor struct {
	redact func(text string) privacy.RedactionResult
}

func (s *stubRedactor) RedactPII(_ context.Context, text string) privacy.RedactionResult {
	if s.redact != nil {
		return s.redact(text)
	}
	return privacy.RedactionResult{
		Status:       privacy.StatusSuccess,
		RedactedText: text,
		OriginalText: text,
	}
}

func emailRedactor() *stubRedactor {
	return &stubRedactor{redact: func(text string) privacy.RedactionResult {
		redacted := strings.ReplaceAll(text, "jane@example.com", "[REDACTED:email]")
		count := 0
		if redacted != text {
			count = 1
		}
		return privacy.RedactionResult{
			Status:         privacy.StatusSuccess,
			RedactedText:   redacted,
			RedactionCount: count,
			OriginalText:   text,
		}
	}}
}

func TestServiceSendMessageRedactsBeforePersisting(t *testing.T) {
	store := newTestStore(t)
	fake := &llm.FakeClient{Responses: []llm.Response{{Text: "Happy to help."}}}
	svc := NewService(store, fake, emailRedactor(), "test-model", nil)

	reply, err := svc.SendMessage(context.Background(), "sess-1", "Contact me at jane@example.com please")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", reply.SessionID)
	assert.Equal(t, "Happy to help.", reply.Response)
	assert.Equal(t, 1, reply.RedactionCount)

	// The stored transcript must only ever contain the redacted body.
	messages, err := store.List(context.Background(), "sess-1", 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Contact me at [REDACTED:email] please", messages[0].Body)
	assert.Equal(t, 1, messages[0].RedactionCount)
	assert.Equal(t, "Happy to help.", messages[1].Body)

	// The model must never see the raw address either.
	require.Equal(t, 1, fake.CallCount())
	for _, msg := range fake.Calls[0].Messages {
		assert.NotContains(t, msg.Content, "jane@example.com")
	}
}

func TestServiceSendMessagePassesHistory(t *testing.T) {
	store := newTestStore(t)
	fake := &llm.FakeClient{Responses: []llm.Response{
		{Text: "First reply."},
		{Text: "Second reply."},
	}}
	svc := NewService(store, fake, &stubRedactor{}, "test-model", nil)

	_, err := svc.SendMessage(context.Background(), "sess-1", "What is a deposition?")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), "sess-1", "How long does one take?")
	require.NoError(t, err)

	require.Equal(t, 2, fake.CallCount())
	second := fake.Calls[1]
	require.Len(t, second.Messages, 3)
	assert.Equal(t, "What is a deposition?", second.Messages[0].Content)
	assert.Equal(t, "First reply.", second.Messages[1].Content)
	assert.Equal(t, llm.RoleAssistant, second.Messages[1].Role)
	assert.Equal(t, "How long does one take?", second.Messages[2].Content)
	assert.Equal(t, llm.RoleUser, second.Messages[2].Role)
}

func TestServiceSendMessageModelFailureDegrades(t *testing.T) {
	store := newTestStore(t)
	fake := &llm.FakeClient{Err: errors.New("model offline")}
	svc := NewService(store, fake, &stubRedactor{}, "test-model", nil)

	reply, err := svc.SendMessage(context.Background(), "sess-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, fallbackReply, reply.Response)

	messages, err := store.List(context.Background(), "sess-1", 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, fallbackReply, messages[1].Body)
}

func TestServiceSendMessageGeneratesSessionID(t *testing.T) {
	store := newTestStore(t)
	fake := &llm.FakeClient{Responses: []llm.Response{{Text: "hi"}}}
	svc := NewService(store, fake, &stubRedactor{}, "test-model", nil)

	reply, err := svc.SendMessage(context.Background(), "", "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, reply.SessionID)
}

func TestServiceSendMessageRejectsEmptyBody(t *testing.T) {
	svc := NewService(newTestStore(t), &llm.FakeClient{}, &stubRedactor{}, "test-model", nil)

	_, err := svc.SendMessage(context.Background(), "sess-1", "   ")
	assert.Error(t, err)
}

func TestServiceForget(t *testing.T) {
	store := newTestStore(t)
	fake := &llm.FakeClient{Responses: []llm.Response{{Text: "hi"}}}
	svc := NewService(store, fake, &stubRedactor{}, "test-model", nil)

	reply, err := svc.SendMessage(context.Background(), "sess-1", "hello")
	require.NoError(t, err)
	require.NoError(t, svc.Forget(context.Background(), reply.SessionID))

	messages, err := svc.History(context.Background(), reply.SessionID, 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
