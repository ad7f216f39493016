// Command llmtest sends a short detection prompt through each configured
// model provider so the collaborator can be smoke-tested outside the server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/lexaid/lexaid-ai-platform/internal/llm"
	"github.com/lexaid/lexaid-ai-platform/internal/privacy"
	"github.com/lexaid/lexaid-ai-platform/pkg/logging"
)

const sampleText = "My name is John Smith, my email is john.smith@example.com and my phone is 555-123-4567."

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := logging.New("debug")

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		fmt.Println("GEMINI_API_KEY not set, nothing to test")
		fmt.Println("Bedrock is exercised through the full server wiring; see cmd/api")
		return
	}

	modelID := os.Getenv("GEMINI_MODEL_ID")
	if modelID == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := llm.NewGeminiClient(ctx, geminiKey, modelID)
	if err != nil {
		log.Fatalf("create gemini client: %v", err)
	}
	defer func() { _ = client.Close() }()

	adapter := privacy.NewHeuristicAdapter(client, privacy.HeuristicConfig{Model: modelID}, logger)

	fmt.Printf("Sending sample text through %s...\n\n", modelID)
	start := time.Now()
	findings, err := adapter.DetectSupplementary(ctx, sampleText)
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("heuristic detection failed after %v: %v", elapsed.Round(time.Millisecond), err)
	}

	fmt.Printf("Reply in %v\n", elapsed.Round(time.Millisecond))
	for _, f := range findings {
		fmt.Printf("  %-20s %s\n", f.Type, f.Description)
	}
	if len(findings) == 0 {
		fmt.Println("  (no supplementary findings)")
	}
}
