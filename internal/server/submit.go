package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nexiplay/nexiplay-go/internal/chatbot"
	"github.com/nexiplay/nexiplay-go/internal/forms"
)

// ChatRequest is one message to the assistant
type ChatRequest struct {
	Message string `json:"message"`
}

// WelcomeResponse carries the assistant's opening message
type WelcomeResponse struct {
	Enabled bool   `json:"enabled"`
	Text    string `json:"text"`
}

var disabledReply = chatbot.Reply{Kind: chatbot.KindDisabled, Language: chatbot.English, Text: chatbot.DisabledReply}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	text, err := s.deps.Assistant.Welcome(r.Context())
	if errors.Is(err, chatbot.ErrDisabled) {
		writeJSON(w, http.StatusOK, WelcomeResponse{Enabled: false, Text: chatbot.DisabledReply})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, WelcomeResponse{Enabled: true, Text: text})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := s.deps.Assistant.Reply(r.Context(), req.Message)
	switch {
	case errors.Is(err, chatbot.ErrDisabled):
		chatRepliesTotal.WithLabelValues(string(chatbot.KindDisabled)).Inc()
		writeJSON(w, http.StatusOK, disabledReply)
	case errors.Is(err, chatbot.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
	case err != nil:
		writeError(w, r, err)
	default:
		chatRepliesTotal.WithLabelValues(string(reply.Kind)).Inc()
		writeJSON(w, http.StatusOK, reply)
	}
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var in forms.CommentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	comment, err := s.deps.Forms.SubmitComment(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.deps.Forms.Comments(r.Context(), mux.Vars(r)["contentID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleDMCA(w http.ResponseWriter, r *http.Request) {
	var in forms.DMCAInput
	if !decodeJSON(w, r, &in) {
		return
	}
	req, err := s.deps.Forms.SubmitDMCA(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var in forms.ContactInput
	if !decodeJSON(w, r, &in) {
		return
	}
	msg, err := s.deps.Forms.SubmitContact(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var in forms.LinkReportInput
	if !decodeJSON(w, r, &in) {
		return
	}
	report, err := s.deps.Forms.SubmitLinkReport(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}
