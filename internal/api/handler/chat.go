package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/mleague-analyst/internal/models"
	"go.uber.org/zap"
)

// ReplyBadRequest is returned when the body is not {"message": "..."}.
const ReplyBadRequest = "リクエストの形式が正しくありません。{\"message\": \"質問\"} の形式で送信してください。"

// ReplyInternalError is returned when answering fails unexpectedly.
const ReplyInternalError = "エラーが発生しました。しばらくしてから再度お試しください。"

// maxMessageRunes caps the question length sent to the model.
const maxMessageRunes = 500

// Answerer answers one chat question.
type Answerer interface {
	Answer(ctx context.Context, message string) *models.ChatResponse
}

// ChatHandler serves POST /chat.
type ChatHandler struct {
	chat   Answerer
	logger *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat Answerer, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger.Named("chat_handler")}
}

// Chat always responds 200 with {reply, graph}; failures are reply text.
func (h *ChatHandler) Chat(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("chat panic", zap.Any("panic", r), zap.Stack("stack"))
			c.JSON(http.StatusOK, models.ChatResponse{Reply: ReplyInternalError})
		}
	}()

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Info("malformed chat request", zap.Error(err))
		c.JSON(http.StatusOK, models.ChatResponse{Reply: ReplyBadRequest})
		return
	}

	message := strings.TrimSpace(req.Message)
	if runes := []rune(message); len(runes) > maxMessageRunes {
		message = string(runes[:maxMessageRunes])
	}

	resp := h.chat.Answer(c.Request.Context(), message)
	if resp == nil {
		resp = &models.ChatResponse{}
	}
	c.JSON(http.StatusOK, resp)
}
