package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/liangzhu/ds-tutor/backend/internal/config"
)

// NoResponseSentinel is returned when the model produced no text. Callers
// must treat it as a normal response string, not a failure.
const NoResponseSentinel = "Error: AI could not generate a response."

const systemPrompt = "You are a patient data science tutor. Answer questions about " +
	"statistics, machine learning and programming clearly, with concrete examples."

const explainPromptPrefix = "Explain this Lua code: "

// Gateway wraps the single ask-and-return-text operation against the hosted
// model. Remote failures never escape it: transport, auth and quota errors
// all degrade to a displayable "API Error: ..." string, because the layers
// above render every reply the same way and have no separate error path.
type Gateway struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewGateway builds the model client and prompt chain from configuration.
func NewGateway(ctx context.Context, cfg config.AIConfig) (*Gateway, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	return newGateway(ctx, chatModel)
}

func newGateway(ctx context.Context, chatModel model.ChatModel) (*Gateway, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Gateway{chain: runnable}, nil
}

// Ask sends one blocking request and returns display-ready text. The reply
// is flattened into a single-level bulleted list; an empty reply becomes
// NoResponseSentinel. No retries, no timeout tuning, no streaming.
func (g *Gateway) Ask(ctx context.Context, query string) string {
	response, err := g.chain.Invoke(ctx, map[string]any{
		"system": systemPrompt,
		"query":  query,
	})
	if err != nil {
		log.Printf("[ai] ask failed: %v", err)
		return fmt.Sprintf("API Error: %v", err)
	}

	if response == nil || strings.TrimSpace(response.Content) == "" {
		return NoResponseSentinel
	}

	return FormatBulleted(response.Content)
}

// ExplainCode asks the model to explain a code snippet.
func (g *Gateway) ExplainCode(ctx context.Context, source string) string {
	return g.Ask(ctx, explainPromptPrefix+source)
}

// FormatBulleted renders raw model output as a flat bulleted list, one
// bullet per line. Tables, code blocks and nested lists all collapse into
// single-level bullets.
func FormatBulleted(text string) string {
	return "- " + strings.ReplaceAll(text, "\n", "\n- ")
}
