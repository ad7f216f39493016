package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lexaid/lexaid-ai-platform/internal/llm"
	"github.com/lexaid/lexaid-ai-platform/internal/privacy"
	"github.com/lexaid/lexaid-ai-platform/pkg/logging"
)

const systemPrompt = `You are LexAid, an AI legal assistant. Provide general legal information on the user's query.
Remember to include a disclaimer that this is not legal advice and should not replace consulting with a licensed attorney.`

const fallbackReply = "I apologize, but I encountered an issue while processing your request. Please try again or rephrase your question."

// historyLimit bounds how many prior turns are forwarded as context.
const historyLimit = 5

const replyMaxTokens = 1024

// Redactor strips PII from inbound text before it leaves the process.
type Redactor interface {
	RedactPII(ctx context.Context, text string) privacy.RedactionResult
}

// Reply is the outcome of one chat turn.
type Reply struct {
	SessionID      string `json:"session_id"`
	Response       string `json:"response"`
	RedactionCount int    `json:"redaction_count"`
	Partial        bool   `json:"partial,omitempty"`
}

// Service handles chat turns. Every inbound message is redacted before it is
// persisted or forwarded to the model, so raw PII never reaches either.
type Service struct {
	store    *TranscriptStore
	client   llm.Client
	redactor Redactor
	model    string
	logger   *logging.Logger
}

func NewService(store *TranscriptStore, client llm.Client, redactor Redactor, model string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:    store,
		client:   client,
		redactor: redactor,
		model:    model,
		logger:   logger,
	}
}

// SendMessage runs one chat turn: redact, persist the user message, generate
// a reply with recent transcript context, persist the reply. Model failure
// degrades to a canned apology rather than an error.
func (s *Service) SendMessage(ctx context.Context, sessionID, body string) (Reply, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if strings.TrimSpace(body) == "" {
		return Reply{}, fmt.Errorf("chat: message body required")
	}

	redaction := s.redactor.RedactPII(ctx, body)
	safeBody := redaction.RedactedText
	if safeBody == "" {
		safeBody = body
	}

	if err := s.store.Append(ctx, sessionID, TranscriptMessage{
		Role:           llm.RoleUser,
		Body:           safeBody,
		RedactionCount: redaction.RedactionCount,
		Partial:        redaction.Partial,
	}); err != nil {
		s.logger.Error("failed to persist user message", "session_id", sessionID, "error", err.Error())
	}

	history, err := s.store.List(ctx, sessionID, historyLimit)
	if err != nil {
		s.logger.Warn("failed to load transcript history", "session_id", sessionID, "error", err.Error())
		history = nil
	}

	response := s.generate(ctx, safeBody, history)

	if err := s.store.Append(ctx, sessionID, TranscriptMessage{
		Role: llm.RoleAssistant,
		Body: response,
	}); err != nil {
		s.logger.Error("failed to persist assistant message", "session_id", sessionID, "error", err.Error())
	}

	return Reply{
		SessionID:      sessionID,
		Response:       response,
		RedactionCount: redaction.RedactionCount,
		Partial:        redaction.Partial,
	}, nil
}

// History returns the stored transcript for a session.
func (s *Service) History(ctx context.Context, sessionID string, limit int64) ([]TranscriptMessage, error) {
	return s.store.List(ctx, sessionID, limit)
}

// Forget erases a session's transcript.
func (s *Service) Forget(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

func (s *Service) generate(ctx context.Context, body string, history []TranscriptMessage) string {
	if s.client == nil {
		return fallbackReply
	}

	messages := make([]llm.Message, 0, len(history)+1)
	for _, msg := range history {
		role := msg.Role
		if role != llm.RoleUser && role != llm.RoleAssistant {
			continue
		}
		messages = append(messages, llm.Message{Role: role, Content: msg.Body})
	}
	// The user turn was persisted before the history read; only add it if the
	// store was unavailable and the history came back empty.
	if len(messages) == 0 {
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: body})
	}

	resp, err := s.client.Complete(ctx, llm.Request{
		Model:       s.model,
		System:      []string{systemPrompt},
		Messages:    messages,
		MaxTokens:   replyMaxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		s.logger.Error("chat completion failed", "error", err.Error())
		return fallbackReply
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return fallbackReply
	}
	return text
}
