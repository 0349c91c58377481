// Package server exposes the RAG pipeline over HTTP: multipart ingest,
// JSON chat, session lookup/delete and a websocket chat loop.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/studyrag/studyrag/internal/models"
	"github.com/studyrag/studyrag/pkg/extractor"
	"github.com/studyrag/studyrag/pkg/llm"
	"github.com/studyrag/studyrag/pkg/rag"
	"github.com/studyrag/studyrag/pkg/store"
)

const maxUploadBytes = 32 << 20

type Config struct {
	Addr string
	// Authorize decides whether a request may use the AI endpoints.
	// Identity itself is an external collaborator; nil allows everyone.
	Authorize func(r *http.Request) error
}

type Server struct {
	config  Config
	service *rag.Service
}

func New(config Config, service *rag.Service) *Server {
	if config.Addr == "" {
		config.Addr = ":8080"
	}
	return &Server{config: config, service: service}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/ai/summarize", s.authorized(s.handleSummarize))
	mux.HandleFunc("POST /api/ai/chat", s.authorized(s.handleChat))
	mux.HandleFunc("GET /api/ai/session/{id}", s.authorized(s.handleGetSession))
	mux.HandleFunc("DELETE /api/ai/session/{id}", s.authorized(s.handleDeleteSession))
	mux.HandleFunc("GET /ws", s.authorized(s.handleWebSocket))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}

func (s *Server) Start() error {
	log.Printf("Starting server on %s", s.config.Addr)
	return http.ListenAndServe(s.config.Addr, s.Handler())
}

func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.config.Authorize != nil {
			if err := s.config.Authorize(r); err != nil {
				writeError(w, http.StatusForbidden, err.Error())
				return
			}
		}
		next(w, r)
	}
}

type summarizeResponse struct {
	SessionID  string `json:"session_id"`
	Summary    string `json:"summary"`
	SourceType string `json:"source_type"`
	Title      string `json:"title"`
	ChunkCount int    `json:"chunk_count"`
	WordCount  int    `json:"word_count"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid form data: %v", err))
		return
	}

	src, err := sourceFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.Ingest(r.Context(), src)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summarizeResponse{
		SessionID:  result.SessionID,
		Summary:    result.Summary,
		SourceType: string(result.SourceKind),
		Title:      result.Title,
		ChunkCount: result.ChunkCount,
		WordCount:  result.WordCount,
	})
}

func sourceFromForm(r *http.Request) (models.Source, error) {
	sourceType := r.FormValue("source_type")
	content := r.FormValue("content")
	title := r.FormValue("title")

	readFile := func() ([]byte, string, error) {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", err
		}
		return data, header.Filename, nil
	}

	switch models.SourceKind(sourceType) {
	case models.SourceURL:
		return models.NewURLSource(content, title)
	case models.SourceText:
		return models.NewTextSource(content, title)
	case models.SourcePDF:
		data, filename, err := readFile()
		if err != nil {
			return models.Source{}, errors.New("pdf file is required for pdf source type")
		}
		return models.NewPDFSource(data, filename, title)
	case models.SourceTXT:
		data, filename, err := readFile()
		if err != nil {
			return models.Source{}, errors.New("text file is required for txt source type")
		}
		return models.NewTXTSource(data, filename, title)
	default:
		return models.Source{}, fmt.Errorf("unsupported source type: %q", sourceType)
	}
}

type chatRequest struct {
	SessionID string               `json:"session_id"`
	Message   string               `json:"message"`
	History   []models.ChatMessage `json:"history,omitempty"`
}

type chatResponse struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	answer, err := s.service.Ask(r.Context(), req.SessionID, req.Message, req.History)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response: answer.Response,
		Sources:  answer.Sources,
	})
}

type sessionResponse struct {
	SessionID  string `json:"session_id"`
	Title      string `json:"title"`
	SourceType string `json:"source_type"`
	ChunkCount int    `json:"chunk_count"`
	WordCount  int    `json:"word_count"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	info, ok := s.service.Describe(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID:  info.ID,
		Title:      info.Title,
		SourceType: string(info.SourceKind),
		ChunkCount: info.ChunkCount,
		WordCount:  info.WordCount,
	})
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	if !s.service.Forget(sessionID) {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{
		Success: true,
		Message: "Session deleted successfully",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// caller-correctable input problems are 400, unknown sessions 404, a missing
// backend credential 503 and backend call failures 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr *rag.ValidationError
		extractionErr *extractor.ExtractionError
		emptyErr      *store.EmptyContentError
		notFoundErr   *store.NotFoundError
		configErr     *llm.ConfigurationError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &extractionErr), errors.As(err, &emptyErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &configErr):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
