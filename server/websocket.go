package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/studyrag/studyrag/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Be careful with this in production
	},
}

// Message is one websocket frame in either direction.
type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Content   string      `json:"content"`
	Data      interface{} `json:"data,omitempty"`
}

// handleWebSocket runs a chat loop bound to the connection. Each "chat"
// frame carries a session id and a question; prior turns on this connection
// are carried as history so follow-up questions keep their context.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var history []models.ChatMessage

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Error reading message: %v", err)
			}
			return
		}

		if msg.Type != "chat" {
			s.sendMessage(conn, Message{Type: "error", Content: "unsupported message type: " + msg.Type})
			continue
		}

		answer, err := s.service.Ask(r.Context(), msg.SessionID, msg.Content, history)
		if err != nil {
			s.sendMessage(conn, Message{Type: "error", Content: err.Error()})
			continue
		}

		history = append(history,
			models.ChatMessage{Role: "user", Content: msg.Content},
			models.ChatMessage{Role: "assistant", Content: answer.Response},
		)

		s.sendMessage(conn, Message{
			Type:    "response",
			Content: answer.Response,
			Data:    answer.Sources,
		})
	}
}

func (s *Server) sendMessage(conn *websocket.Conn, msg Message) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
