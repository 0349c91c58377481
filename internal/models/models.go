package models

import (
	"errors"
	"strings"
)

// SourceKind identifies where ingested content came from.
type SourceKind string

const (
	SourceURL  SourceKind = "url"
	SourceText SourceKind = "text"
	SourcePDF  SourceKind = "pdf"
	SourceTXT  SourceKind = "txt"
)

// Source is a tagged union describing one piece of content to ingest.
// Construct it through one of the New*Source functions so each variant is
// validated with only the fields it needs.
type Source struct {
	Kind     SourceKind
	URL      string
	Text     string
	Data     []byte
	Filename string
	Title    string // optional caller-supplied title, wins over derived ones
}

func NewURLSource(url, title string) (Source, error) {
	if strings.TrimSpace(url) == "" {
		return Source{}, errors.New("url is required for url source type")
	}
	return Source{Kind: SourceURL, URL: url, Title: title}, nil
}

func NewTextSource(text, title string) (Source, error) {
	if strings.TrimSpace(text) == "" {
		return Source{}, errors.New("text content is required for text source type")
	}
	return Source{Kind: SourceText, Text: text, Title: title}, nil
}

func NewPDFSource(data []byte, filename, title string) (Source, error) {
	if len(data) == 0 {
		return Source{}, errors.New("pdf file is required for pdf source type")
	}
	return Source{Kind: SourcePDF, Data: data, Filename: filename, Title: title}, nil
}

func NewTXTSource(data []byte, filename, title string) (Source, error) {
	if len(data) == 0 {
		return Source{}, errors.New("text file is required for txt source type")
	}
	if filename == "" {
		filename = "document.txt"
	}
	return Source{Kind: SourceTXT, Data: data, Filename: filename, Title: title}, nil
}

// Session is the metadata half of one ingested document. It is immutable
// after creation; the matching vector index lives in the session store.
type Session struct {
	ID         string
	Title      string
	SourceKind SourceKind
	ChunkCount int
	WordCount  int
	// CachedText holds a bounded prefix of the raw text so summaries can be
	// regenerated without re-extracting the source.
	CachedText string
}

// RetrievalResult is one retrieved chunk with its similarity distance
// (lower means closer) and the metadata recorded at ingest.
type RetrievalResult struct {
	Text       string
	Distance   float64
	ChunkIndex int
	SourceKind SourceKind
}

// ChatMessage is one prior turn of a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// IngestResult is what callers get back from a successful ingest.
type IngestResult struct {
	SessionID  string
	Summary    string
	Title      string
	SourceKind SourceKind
	ChunkCount int
	WordCount  int
}

// Answer is a grounded response plus the excerpts it was grounded on.
type Answer struct {
	Response string
	Sources  []string
}
