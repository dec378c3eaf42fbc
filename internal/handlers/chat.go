package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Request DTO for a chat turn.
type chatMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendChatRequest is an exported model for Swagger docs of the chat payload.
type SendChatRequest struct {
	// Free-form operator message, typically a reject reason
	Message string `json:"message" example:"NoChuteAvailable"`
}

// @Summary      Open a chat session
// @Description  Resets the transcript to the greeting and (re)starts the inactivity watcher
// @Tags         chat
// @Produce      json
// @Success      200  {array}   models.ChatMessage
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/chat/open [post]
// @Security     BearerAuth
func (h *Handler) openChat(c *gin.Context) {
	h.services.Chat.Open()
	c.JSON(http.StatusOK, h.services.Chat.Messages())
}

// @Summary      Send a chat message
// @Description  Model failures come back as an assistant-role message, not an error
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body   SendChatRequest  true  "Message payload"
// @Success      200   {object}  models.ChatMessage
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/chat/messages [post]
// @Security     BearerAuth
func (h *Handler) sendChatMessage(c *gin.Context) {
	var req chatMessageRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	reply, err := h.services.Chat.Send(c.Request.Context(), req.Message)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reply)
}

// @Summary      Get the chat transcript
// @Tags         chat
// @Produce      json
// @Success      200  {array}   models.ChatMessage
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/chat/messages [get]
// @Security     BearerAuth
func (h *Handler) getChatMessages(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Chat.Messages())
}

// @Summary      Close the chat session
// @Tags         chat
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/chat/close [post]
// @Security     BearerAuth
func (h *Handler) closeChat(c *gin.Context) {
	h.services.Chat.Close()
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
