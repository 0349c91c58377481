package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	if c.LLM.SummaryTemp < 0 || c.LLM.SummaryTemp > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.summary_temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.LLM.ChatTemp < 0 || c.LLM.ChatTemp > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.chat_temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.LLM.SummaryMaxTokens < 1 || c.LLM.SummaryMaxTokens > 8192 {
		errors = append(errors, ValidationError{
			Field:   "llm.summary_max_tokens",
			Message: "summary_max_tokens must be between 1 and 8192",
		})
	}

	if c.LLM.ChatMaxTokens < 1 || c.LLM.ChatMaxTokens > 8192 {
		errors = append(errors, ValidationError{
			Field:   "llm.chat_max_tokens",
			Message: "chat_max_tokens must be between 1 and 8192",
		})
	}

	if c.LLM.HistoryWindow < 0 {
		errors = append(errors, ValidationError{
			Field:   "llm.history_window",
			Message: "history_window must be non-negative",
		})
	}

	// Validate Extractor config
	if c.Extractor.TimeoutSecs < 1 {
		errors = append(errors, ValidationError{
			Field:   "extractor.timeout_secs",
			Message: "timeout_secs must be positive",
		})
	}

	if c.Extractor.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "extractor.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.Extractor.MaxURLContent < 1 {
		errors = append(errors, ValidationError{
			Field:   "extractor.max_url_content",
			Message: "max_url_content must be positive",
		})
	}

	// Validate Chunker config
	if c.Chunker.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "chunker.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.Chunker.ChunkOverlap < 0 || c.Chunker.ChunkOverlap >= c.Chunker.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "chunker.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}

	// Validate RAG config
	if c.RAG.TopK < 1 {
		errors = append(errors, ValidationError{
			Field:   "rag.top_k",
			Message: "top_k must be positive",
		})
	}

	if c.RAG.MinContentLength < 1 {
		errors = append(errors, ValidationError{
			Field:   "rag.min_content_length",
			Message: "min_content_length must be positive",
		})
	}

	if c.RAG.CachedContextSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "rag.cached_context_size",
			Message: "cached_context_size must be positive",
		})
	}

	// Validate Server config
	if c.Server.Addr != "" && !strings.Contains(c.Server.Addr, ":") {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Message: "addr must be a host:port listen address",
		})
	}

	return errors
}
