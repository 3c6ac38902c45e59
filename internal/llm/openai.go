package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/mesh-intelligence/gridline/pkg/types"
)

const defaultModel = "gpt-4o-mini"

// systemPrompt frames every enrichment call. Output-type enforcement is
// delegated to these instructions; no coercion happens on the returned
// string.
const systemPrompt = "You are a data enrichment assistant. " +
	"Given facts about a single record, answer the instruction with the value only. " +
	"No explanations, no punctuation around the value."

// outputInstructions maps an output type to the constraint appended to the
// user prompt.
var outputInstructions = map[string]string{
	types.OutputTypeText:    "Answer with a short phrase.",
	types.OutputTypeNumber:  "Answer with digits only.",
	types.OutputTypeBoolean: "Answer with exactly \"true\" or \"false\".",
}

// cannotDetermine is appended to every instruction set.
const cannotDetermine = "If you cannot determine the answer, respond with exactly \"N/A\"."

// OpenAIClient implements TextGenerator against the OpenAI chat API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds a client from the environment: OPENAI_API_KEY
// (required) and OPENAI_MODEL (optional).
func NewOpenAIClient() (*OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		slog.Error("OPENAI_API_KEY environment variable not set")
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
		slog.Warn("OPENAI_MODEL not set, defaulting", "model", defaultModel)
	}
	slog.Info("Initializing OpenAI client", "model", model)
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Generate implements the TextGenerator interface.
func (o *OpenAIClient) Generate(ctx context.Context, req Request) (string, error) {
	slog.Debug("Generating cell value via OpenAI", "model", o.model)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req)},
		},
	})
	if err != nil {
		slog.Error("OpenAI API call failed", "error", err)
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("OpenAI returned no choices")
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// BuildPrompt renders the user message: the row context as label/value
// lines (sorted for determinism), the column prompt, and the output-type
// constraint.
func BuildPrompt(req Request) string {
	labels := make([]string, 0, len(req.Context))
	for label := range req.Context {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var b strings.Builder
	b.WriteString("Record:\n")
	for _, label := range labels {
		fmt.Fprintf(&b, "%s: %s\n", label, req.Context[label])
	}
	b.WriteString("\nInstruction: ")
	b.WriteString(req.Prompt)

	instruction, ok := outputInstructions[req.OutputType]
	if !ok {
		instruction = outputInstructions[types.OutputTypeText]
	}
	b.WriteString("\n")
	b.WriteString(instruction)
	b.WriteString(" ")
	b.WriteString(cannotDetermine)
	return b.String()
}
