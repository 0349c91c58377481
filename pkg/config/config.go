package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		APIKey           string  `yaml:"api_key"`
		Model            string  `yaml:"model"`
		EmbeddingModel   string  `yaml:"embedding_model"`
		SummaryTemp      float64 `yaml:"summary_temperature"`
		SummaryMaxTokens int     `yaml:"summary_max_tokens"`
		SummaryMaxChars  int     `yaml:"summary_max_chars"`
		ChatTemp         float64 `yaml:"chat_temperature"`
		ChatMaxTokens    int     `yaml:"chat_max_tokens"`
		HistoryWindow    int     `yaml:"history_window"`
	} `yaml:"llm"`

	Extractor struct {
		TimeoutSecs   int     `yaml:"timeout_secs"`
		RateLimit     float64 `yaml:"rate_limit"`
		MaxURLContent int     `yaml:"max_url_content"`
		UserAgent     string  `yaml:"user_agent"`
	} `yaml:"extractor"`

	Chunker struct {
		ChunkSize    int `yaml:"chunk_size"`
		ChunkOverlap int `yaml:"chunk_overlap"`
	} `yaml:"chunker"`

	RAG struct {
		TopK              int `yaml:"top_k"`
		MinContentLength  int `yaml:"min_content_length"`
		CachedContextSize int `yaml:"cached_context_size"`
	} `yaml:"rag"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/studyrag/config.yaml"),
			"/etc/studyrag/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Model == "" {
		config.LLM.Model = "gemini-1.5-flash"
	}
	if config.LLM.EmbeddingModel == "" {
		config.LLM.EmbeddingModel = "text-embedding-004"
	}
	if config.LLM.SummaryTemp == 0 {
		config.LLM.SummaryTemp = 0.3
	}
	if config.LLM.SummaryMaxTokens == 0 {
		config.LLM.SummaryMaxTokens = 2048
	}
	if config.LLM.SummaryMaxChars == 0 {
		config.LLM.SummaryMaxChars = 100000
	}
	if config.LLM.ChatTemp == 0 {
		config.LLM.ChatTemp = 0.5
	}
	if config.LLM.ChatMaxTokens == 0 {
		config.LLM.ChatMaxTokens = 1024
	}
	if config.LLM.HistoryWindow == 0 {
		config.LLM.HistoryWindow = 5
	}

	if config.Extractor.TimeoutSecs == 0 {
		config.Extractor.TimeoutSecs = 30
	}
	if config.Extractor.RateLimit == 0 {
		config.Extractor.RateLimit = 2.0
	}
	if config.Extractor.MaxURLContent == 0 {
		config.Extractor.MaxURLContent = 100000
	}
	if config.Extractor.UserAgent == "" {
		config.Extractor.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}

	if config.Chunker.ChunkSize == 0 {
		config.Chunker.ChunkSize = 1000
	}
	if config.Chunker.ChunkOverlap == 0 {
		config.Chunker.ChunkOverlap = 200
	}

	if config.RAG.TopK == 0 {
		config.RAG.TopK = 5
	}
	if config.RAG.MinContentLength == 0 {
		config.RAG.MinContentLength = 100
	}
	if config.RAG.CachedContextSize == 0 {
		config.RAG.CachedContextSize = 5000
	}

	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}
}

func mergeWithEnv(config *Config) {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		config.LLM.APIKey = key
	}
	if addr := os.Getenv("STUDYRAG_ADDR"); addr != "" {
		config.Server.Addr = addr
	}
}
