package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/studyrag/studyrag/internal/models"
	"github.com/studyrag/studyrag/pkg/chunker"
	cfgPkg "github.com/studyrag/studyrag/pkg/config"
	"github.com/studyrag/studyrag/pkg/extractor"
	"github.com/studyrag/studyrag/pkg/llm"
	"github.com/studyrag/studyrag/pkg/rag"
	"github.com/studyrag/studyrag/pkg/store"
)

type flags struct {
	ConfigPath string
	URL        string
	File       string
	Text       string
	Title      string
}

func main() {
	f := parseFlags()

	if err := run(f); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() flags {
	var f flags

	flag.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&f.URL, "url", "", "URL to ingest")
	flag.StringVar(&f.File, "file", "", "PDF or text file to ingest")
	flag.StringVar(&f.Text, "text", "", "Raw text to ingest")
	flag.StringVar(&f.Title, "title", "", "Optional title for the content")
	flag.Parse()

	return f
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func buildSource(f flags) (models.Source, error) {
	switch {
	case f.URL != "":
		return models.NewURLSource(f.URL, f.Title)
	case f.File != "":
		data, err := os.ReadFile(f.File)
		if err != nil {
			return models.Source{}, fmt.Errorf("failed to read file: %v", err)
		}
		filename := filepath.Base(f.File)
		if strings.EqualFold(filepath.Ext(filename), ".pdf") {
			return models.NewPDFSource(data, filename, f.Title)
		}
		return models.NewTXTSource(data, filename, f.Title)
	case f.Text != "":
		return models.NewTextSource(f.Text, f.Title)
	default:
		return models.Source{}, fmt.Errorf("provide one of -url, -file or -text")
	}
}

func run(f flags) error {
	cfg, err := cfgPkg.LoadConfig(f.ConfigPath)
	if err != nil {
		return err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %v", e)
		}
		return fmt.Errorf("invalid configuration")
	}

	ctx := context.Background()

	embedder, err := llm.NewEmbedderWithConfig(ctx, llm.EmbedderConfig{
		APIKey: cfg.LLM.APIKey,
		Model:  cfg.LLM.EmbeddingModel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %v", err)
	}

	generator, err := llm.NewGeneratorWithConfig(ctx, llm.GeneratorConfig{
		APIKey:           cfg.LLM.APIKey,
		Model:            cfg.LLM.Model,
		SummaryTemp:      cfg.LLM.SummaryTemp,
		SummaryMaxTokens: cfg.LLM.SummaryMaxTokens,
		SummaryMaxChars:  cfg.LLM.SummaryMaxChars,
		ChatTemp:         cfg.LLM.ChatTemp,
		ChatMaxTokens:    cfg.LLM.ChatMaxTokens,
		HistoryWindow:    cfg.LLM.HistoryWindow,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %v", err)
	}

	if !embedder.IsConfigured() || !generator.IsConfigured() {
		return fmt.Errorf("AI backend not configured: set GOOGLE_API_KEY in environment")
	}

	sessions := store.NewWithConfig(store.SessionStoreConfig{
		TopK:              cfg.RAG.TopK,
		CachedContextSize: cfg.RAG.CachedContextSize,
	}, chunker.NewWithConfig(chunker.ChunkerConfig{
		ChunkSize:    cfg.Chunker.ChunkSize,
		ChunkOverlap: cfg.Chunker.ChunkOverlap,
	}), embedder)
	defer sessions.Close()

	service := rag.NewWithConfig(rag.ServiceConfig{
		TopK:             cfg.RAG.TopK,
		MinContentLength: cfg.RAG.MinContentLength,
	}, extractor.NewWithConfig(extractor.ExtractorConfig{
		Timeout:       time.Duration(cfg.Extractor.TimeoutSecs) * time.Second,
		RateLimit:     cfg.Extractor.RateLimit,
		MaxURLContent: cfg.Extractor.MaxURLContent,
		UserAgent:     cfg.Extractor.UserAgent,
	}), sessions, generator)

	src, err := buildSource(f)
	if err != nil {
		return err
	}

	ingestSpinner := getSpinner(" Ingesting content...")
	result, err := service.Ingest(ctx, src)
	ingestSpinner.Finish()
	fmt.Print("\r")
	if err != nil {
		return fmt.Errorf("ingest failed: %v", err)
	}

	color.Green("✓ Ingested %q (%d chunks, ~%d words)\n", result.Title, result.ChunkCount, result.WordCount)
	fmt.Println()
	color.Cyan("Summary:")
	fmt.Println(result.Summary)

	// Interactive chat loop
	color.Cyan("\nAsk questions about the material (type 'exit' to quit, 'forget' to delete the session)")

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()
	faint := color.New(color.Faint).PrintfFunc()

	var history []models.ChatMessage

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "":
			continue
		case "exit":
			return nil
		case "forget":
			if service.Forget(result.SessionID) {
				color.Green("✓ Session deleted\n")
			}
			return nil
		}

		answerSpinner := getSpinner(" Thinking...")
		answer, err := service.Ask(ctx, result.SessionID, question, history)
		answerSpinner.Finish()
		fmt.Print("\r")

		if err != nil {
			color.Red("Error: %v\n", err)
			continue
		}

		assistantPrompt("Assistant: %s\n", answer.Response)
		if len(answer.Sources) > 0 {
			faint("\nSources:\n")
			for _, src := range answer.Sources {
				faint("  - %s\n", src)
			}
		}

		history = append(history,
			models.ChatMessage{Role: "user", Content: question},
			models.ChatMessage{Role: "assistant", Content: answer.Response},
		)
	}

	return nil
}
