package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/studyrag/studyrag/internal/models"
)

const summaryPrompt = `You are an expert summarizer. Analyze the following content and provide:

1. **Summary**: A concise summary (2-3 paragraphs) capturing the main ideas
2. **Key Points**: A bullet list of the most important points (5-10 items)
3. **Topics Covered**: A brief list of main topics/themes

Content:
%s

Provide a well-structured summary that captures the essential information. Use markdown formatting.`

const chatPrompt = `You are a helpful study assistant. Answer the user's question based ONLY on the provided context from the uploaded material.

**Important Instructions:**
- Only use information from the provided context
- If the answer is not in the context, say "I don't have enough information in the provided material to answer that question."
- Be concise but thorough
- Use markdown formatting for better readability
- If relevant, quote specific parts from the context

**Context from the uploaded material:**
%s

**User Question:** %s

**Answer:**`

// contextSeparator joins retrieved chunks inside the chat prompt.
const contextSeparator = "\n\n---\n\n"

// truncationMarker is appended when content is cut to the summary budget.
const truncationMarker = "\n\n[Content truncated due to length...]"

// GeneratorConfig represents the configuration for the generation backend.
type GeneratorConfig struct {
	APIKey           string
	Model            string
	SummaryTemp      float64
	SummaryMaxTokens int
	SummaryMaxChars  int
	ChatTemp         float64
	ChatMaxTokens    int
	HistoryWindow    int
}

// Generator builds deterministic prompts for summarization and grounded
// question-answering and invokes the Gemini generation backend.
type Generator struct {
	config GeneratorConfig
	client llms.Model
}

func NewGeneratorWithConfig(ctx context.Context, config GeneratorConfig) (*Generator, error) {
	if config.Model == "" {
		config.Model = "gemini-1.5-flash"
	}
	if config.SummaryTemp == 0 {
		config.SummaryTemp = 0.3
	}
	if config.SummaryMaxTokens == 0 {
		config.SummaryMaxTokens = 2048
	}
	if config.SummaryMaxChars == 0 {
		config.SummaryMaxChars = 100000
	}
	if config.ChatTemp == 0 {
		config.ChatTemp = 0.5
	}
	if config.ChatMaxTokens == 0 {
		config.ChatMaxTokens = 1024
	}
	if config.HistoryWindow == 0 {
		config.HistoryWindow = 5
	}

	g := &Generator{config: config}
	if config.APIKey == "" {
		return g, nil
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultModel(config.Model))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation backend: %w", err)
	}

	g.client = client
	return g, nil
}

// IsConfigured reports whether a backend credential is present.
func (g *Generator) IsConfigured() bool {
	return g.client != nil
}

// GenerateSummary produces a structured summary of the content. Content
// beyond the configured character budget is cut, with a visible marker, so
// the prompt stays inside backend limits.
func (g *Generator) GenerateSummary(ctx context.Context, content string) (string, error) {
	if !g.IsConfigured() {
		return "", errNotConfigured()
	}

	prompt := g.buildSummaryPrompt(content)
	return g.generate(ctx, prompt, g.config.SummaryTemp, g.config.SummaryMaxTokens)
}

// GenerateChatResponse answers a question strictly from the supplied context
// chunks, optionally prefixed with a bounded window of prior turns.
func (g *Generator) GenerateChatResponse(ctx context.Context, question string, contextChunks []string, history []models.ChatMessage) (string, error) {
	if !g.IsConfigured() {
		return "", errNotConfigured()
	}

	prompt := g.buildChatPrompt(question, contextChunks, history)
	return g.generate(ctx, prompt, g.config.ChatTemp, g.config.ChatMaxTokens)
}

func (g *Generator) generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens))
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", &GenerationError{Err: fmt.Errorf("no response from backend")}
	}

	return resp.Choices[0].Content, nil
}

func (g *Generator) buildSummaryPrompt(content string) string {
	if len(content) > g.config.SummaryMaxChars {
		content = content[:g.config.SummaryMaxChars] + truncationMarker
	}
	return fmt.Sprintf(summaryPrompt, content)
}

func (g *Generator) buildChatPrompt(question string, contextChunks []string, history []models.ChatMessage) string {
	prompt := fmt.Sprintf(chatPrompt, strings.Join(contextChunks, contextSeparator), question)

	if len(history) == 0 {
		return prompt
	}

	if len(history) > g.config.HistoryWindow {
		history = history[len(history)-g.config.HistoryWindow:]
	}

	var b strings.Builder
	b.WriteString("\n\n**Previous conversation:**\n")
	for _, msg := range history {
		role := "Assistant"
		if msg.Role == "user" {
			role = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, msg.Content)
	}
	b.WriteString("\n")
	b.WriteString(prompt)
	return b.String()
}
