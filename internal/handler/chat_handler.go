package handler

import (
	"errors"
	"net/http"

	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

// Chat 处理站点聊天组件的对话请求。
func (a *API) Chat(c *gin.Context) {
	if a.chat == nil || !a.chat.Enabled() {
		respondError(c, http.StatusServiceUnavailable, "chat is not configured")
		return
	}

	var payload struct {
		Messages []service.ChatMessage `json:"messages"`
	}
	if !bindJSON(c, &payload, "invalid chat payload") {
		return
	}
	if len(payload.Messages) == 0 {
		respondError(c, http.StatusBadRequest, "messages must not be empty")
		return
	}

	reply, err := a.chat.Chat(c.Request.Context(), payload.Messages)
	if err != nil {
		if errors.Is(err, service.ErrAPIKeyMissing) {
			respondError(c, http.StatusServiceUnavailable, "chat is not configured")
			return
		}
		a.logger.Error().Err(err).Msg("chat request failed")
		respondError(c, http.StatusInternalServerError, "chat request failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
