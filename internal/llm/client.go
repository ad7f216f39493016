// Package llm abstracts the external text-generation service the platform
// consults for heuristic analysis. The service is treated as opaque, slow,
// and possibly unavailable; callers must tolerate malformed output.
package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a model conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenUsage reports token accounting when the provider supplies it.
type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// Request describes a single completion call.
type Request struct {
	Model       string
	System      []string
	Messages    []Message
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// Response is the provider-agnostic completion result.
type Response struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// Client is implemented by every model provider.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
