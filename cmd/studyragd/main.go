package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/studyrag/studyrag/pkg/chunker"
	cfgPkg "github.com/studyrag/studyrag/pkg/config"
	"github.com/studyrag/studyrag/pkg/extractor"
	"github.com/studyrag/studyrag/pkg/llm"
	"github.com/studyrag/studyrag/pkg/rag"
	"github.com/studyrag/studyrag/pkg/store"
	"github.com/studyrag/studyrag/server"
)

func main() {
	var configPath, addr string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&addr, "addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			log.Printf("config: %v", e)
		}
		log.Fatal("invalid configuration")
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	ctx := context.Background()

	embedder, err := llm.NewEmbedderWithConfig(ctx, llm.EmbedderConfig{
		APIKey: cfg.LLM.APIKey,
		Model:  cfg.LLM.EmbeddingModel,
	})
	if err != nil {
		log.Fatalf("failed to initialize embedder: %v", err)
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
		log.Fatalf("failed to initialize generator: %v", err)
	}

	// A missing credential is not a startup crash: the server comes up and
	// the AI endpoints report the feature as unavailable.
	if !embedder.IsConfigured() {
		log.Printf("GOOGLE_API_KEY not set; AI endpoints will return 503")
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

	srv := server.New(server.Config{Addr: cfg.Server.Addr}, service)
	if err := srv.Start(); err != nil {
		log.Fatal(err)
	}
}
