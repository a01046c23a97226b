package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/easeaico/mindcare/internal/chat"
	"github.com/easeaico/mindcare/internal/types"
)

const maxBodyBytes = 1 << 20

type chatRequest struct {
	Message   *string `json:"message"`
	SessionID *string `json:"session_id"`
}

type chatResponse struct {
	Success    bool    `json:"success"`
	Response   string  `json:"response"`
	Mood       string  `json:"mood"`
	Confidence float64 `json:"confidence"`
	IsCrisis   bool    `json:"is_crisis"`
}

func newChatResponse(reply *chat.Reply) chatResponse {
	return chatResponse{
		Success:    true,
		Response:   reply.Response,
		Mood:       string(reply.Mood),
		Confidence: reply.Confidence,
		IsCrisis:   reply.IsCrisis,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.HealthCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.opts.HealthCheck(ctx); err != nil {
			slog.Warn("health check failed", "error", err.Error())
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"message": "database unavailable",
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Mental Health Chatbot API is running",
	})
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"resources": crisisResources,
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.chat.CreateSession(r.Context(), clientIP(r))
	if err != nil {
		slog.Error("failed to create session", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"session_id": session.SessionID,
		"message":    "Session created successfully",
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil || req.Message == nil || req.SessionID == nil {
		writeError(w, http.StatusBadRequest, chat.ErrMissingFields.Error())
		return
	}

	reply, err := s.chat.Send(r.Context(), *req.SessionID, *req.Message)
	if err != nil {
		s.writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newChatResponse(reply))
}

func (s *Server) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrMissingFields):
		writeError(w, http.StatusBadRequest, chat.ErrMissingFields.Error())
	case errors.Is(err, chat.ErrInvalidSession):
		writeError(w, http.StatusNotFound, "Invalid session")
	default:
		slog.Error("failed to process chat message", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "An error occurred processing your message")
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	history, err := s.chat.History(r.Context(), sessionID, limit)
	if err != nil {
		s.writeLookupError(w, err, "failed to get chat history")
		return
	}
	if history == nil {
		history = []types.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "history": history})
}

func (s *Server) handleMoodAnalytics(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	moods, err := s.chat.MoodAnalytics(r.Context(), sessionID)
	if err != nil {
		s.writeLookupError(w, err, "failed to get mood analytics")
		return
	}
	if moods == nil {
		moods = []types.MoodCount{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "moods": moods})
}

func (s *Server) writeLookupError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, chat.ErrInvalidSession) {
		writeError(w, http.StatusNotFound, "Invalid session")
		return
	}
	slog.Error(msg, "error", err.Error())
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
