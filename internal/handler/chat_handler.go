package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/foodninja-api/internal/service"
)

const (
	noMessageText = "No message provided"
	noPromptText  = "No prompt provided"
)

type chatRequest struct {
	Message string `json:"message"`
}

type askRequest struct {
	Prompt string `json:"prompt"`
}

// ChatHandler relays free text to the language model for /chat and /ask_ai.
type ChatHandler struct {
	chat   *service.ChatService
	logger *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

// Chat answers a chatbot message.
// Route: POST /chat  {"message": "..."} → {"response": "..."}
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	answer, err := h.chat.Reply(c.Request.Context(), req.Message, noMessageText)
	if err != nil {
		h.writeError(c, "chat", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": answer})
}

// Ask answers a one-off prompt.
// Route: POST /ask_ai  {"prompt": "..."} → {"result": "..."}
func (h *ChatHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	answer, err := h.chat.Reply(c.Request.Context(), req.Prompt, noPromptText)
	if err != nil {
		h.writeError(c, "ask_ai", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": answer})
}

// writeError maps service errors to status codes. Upstream failures are
// reported with their message so the chatbot can show it.
func (h *ChatHandler) writeError(c *gin.Context, route string, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
		return
	}

	h.logger.Error("relay failed", zap.String("route", route), zap.Error(err))

	msg := err.Error()
	var uerr *service.UpstreamError
	if errors.As(err, &uerr) {
		msg = uerr.Err.Error()
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
